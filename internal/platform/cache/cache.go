// Package cache provides a small namespaced byte cache backed by Redis or
// process memory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache stores opaque values under namespaced keys.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl; ttl <= 0 uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Invalidate drops every key under namespace.
	Invalidate(ctx context.Context, namespace string) error
	// Close releases backend resources.
	Close() error
}

// Observer is notified about cache events for metrics.
type Observer interface {
	CacheEvent(namespace, event string)
}

// Cache event names reported to Observer.
const (
	EventHit        = "hit"
	EventMiss       = "miss"
	EventError      = "error"
	EventInvalidate = "invalidate"
)

// Key joins a namespace and key parts into a cache key.
func Key(namespace string, parts ...string) string {
	return namespace + ":" + strings.Join(parts, ":")
}

// Namespace wraps a Cache with JSON encoding, one namespace and an observer.
// Backend failures are logged and treated as misses so reads fall through
// to the source of truth.
type Namespace struct {
	cache    Cache
	name     string
	ttl      time.Duration
	observer Observer
}

// NewNamespace binds c to name. A nil c disables caching.
func NewNamespace(c Cache, name string, ttl time.Duration, observer Observer) *Namespace {
	return &Namespace{cache: c, name: name, ttl: ttl, observer: observer}
}

// Name returns the namespace name.
func (n *Namespace) Name() string {
	if n == nil {
		return ""
	}
	return n.name
}

// Remember returns the cached value for key, or calls load and caches its
// result.
func Remember[T any](ctx context.Context, n *Namespace, key string, load func(context.Context) (T, error)) (T, error) {
	if n == nil || n.cache == nil {
		return load(ctx)
	}
	fullKey := Key(n.name, key)
	raw, ok, err := n.cache.Get(ctx, fullKey)
	switch {
	case err != nil:
		n.event(EventError)
		log.Ctx(ctx).Warn().Err(err).Str("key", fullKey).Msg("cache get failed")
	case ok:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			n.event(EventHit)
			return cached, nil
		}
		n.event(EventError)
	default:
		n.event(EventMiss)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := n.cache.Set(ctx, fullKey, encoded, n.ttl); err != nil {
		n.event(EventError)
		log.Ctx(ctx).Warn().Err(err).Str("key", fullKey).Msg("cache set failed")
	}
	return value, nil
}

// Invalidate drops every entry in the namespace.
func (n *Namespace) Invalidate(ctx context.Context) error {
	if n == nil || n.cache == nil {
		return nil
	}
	n.event(EventInvalidate)
	if err := n.cache.Invalidate(ctx, n.name); err != nil {
		n.event(EventError)
		return err
	}
	return nil
}

func (n *Namespace) event(name string) {
	if n.observer != nil {
		n.observer.CacheEvent(n.name, name)
	}
}

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache closed")
