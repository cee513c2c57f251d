// Package apiclient calls the storefront JSON API on behalf of web
// modules.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	platformerrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/metrics"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
	breakerName    = "storefront-api"
)

// Config controls API client construction.
type Config struct {
	// BaseURL is the API root including the /api prefix.
	BaseURL string
	Timeout time.Duration
	// Transport overrides the base round tripper; tests pass the httptest
	// server transport here.
	Transport http.RoundTripper
	Metrics   *metrics.Registry
	// FailureThreshold is the number of consecutive failures that opens
	// the breaker. Zero keeps the default of 5.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open. Zero keeps 30s.
	OpenTimeout time.Duration
}

// Client is a breaker-guarded JSON client for the storefront API.
type Client struct {
	base    *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

type tokenKey struct{}

// WithToken attaches the caller's access token to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, tokenKey{}, strings.TrimSpace(token))
}

func tokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// New builds a Client for cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}
	reg := cfg.Metrics
	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// API rejections are answers, not outages.
		IsSuccessful: func(err error) bool {
			return err == nil || isAPIRejection(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			reg.SetBreakerState(name, int(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("api breaker state changed")
		},
	}
	reg.SetBreakerState(breakerName, int(gobreaker.StateClosed))
	return &Client{
		base: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}, nil
}

// BreakerState reports the current breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

func isAPIRejection(err error) bool {
	var appErr apperrors.Error
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Kind {
	case apperrors.KindInvalidInput, apperrors.KindUnauthorized, apperrors.KindForbidden,
		apperrors.KindNotFound, apperrors.KindConflict, apperrors.KindRateLimited:
		return true
	default:
		return false
	}
}

// request describes one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	rawBody     io.Reader
	contentType string
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// send performs req and returns the raw success body.
func (c *Client) send(ctx context.Context, req request) ([]byte, error) {
	if c == nil {
		return nil, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", "api client is not configured")
	}
	var payload []byte
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", req.method, req.path, err)
		}
		payload = encoded
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		var body io.Reader
		contentType := req.contentType
		switch {
		case req.rawBody != nil:
			body = req.rawBody
		case payload != nil:
			body = bytes.NewReader(payload)
			contentType = "application/json"
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path, req.query), body)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Accept", "application/json")
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}
		if token := tokenFromContext(ctx); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
		if requestID := requestctx.RequestIDFromContext(ctx); requestID != "" {
			httpReq.Header.Set("X-Request-ID", requestID)
		}
		resp, err := c.http.Do(httpReq)
		if err != nil {
			return nil, apperrors.Error{Kind: apperrors.KindUnavailable, Key: "error.unavailable", Message: err.Error()}
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, apperrors.Error{Kind: apperrors.KindUnavailable, Key: "error.unavailable", Message: err.Error()}
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, decodeError(resp.StatusCode, data)
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, apperrors.EK(apperrors.KindUnavailable, "error.unavailable", err.Error())
		}
		log.Ctx(ctx).Debug().Err(err).Str("method", req.method).Str("path", req.path).Msg("api call failed")
		return nil, err
	}
	data, _ := result.([]byte)
	return data, nil
}

// call performs req and decodes the JSON success body into out.
func (c *Client) call(ctx context.Context, req request, out any) error {
	data, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body platformerrors.Response
	if err := json.Unmarshal(data, &body); err != nil || body.Code == "" {
		return apperrors.FromAPI(status, "", http.StatusText(status))
	}
	return apperrors.FromAPI(status, string(body.Code), body.Message)
}
