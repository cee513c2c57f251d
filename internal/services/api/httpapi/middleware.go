package httpapi

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gorilla/mux"
	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/id"
	"github.com/louisbranch/storefront/internal/platform/metrics"
	"github.com/louisbranch/storefront/internal/platform/ratelimit"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder captures the status and size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func (s *statusRecorder) code() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// withRequestID reuses or assigns a request id and attaches a request
// scoped logger to the context.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			generated, err := id.NewID()
			if err != nil {
				generated = "api-" + time.Now().UTC().Format("20060102T150405.000000000")
			}
			requestID = generated
		}
		w.Header().Set(requestIDHeader, requestID)
		logger := log.Logger.With().Str("request_id", requestID).Logger()
		ctx := requestctx.WithRequestID(logger.WithContext(r.Context()), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoverPanic turns handler panics into INTERNAL responses.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Ctx(r.Context()).Error().
					Interface("panic", recovered).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")
				writeJSON(w, http.StatusInternalServerError, apperrors.ToResponse(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured event per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		status := rec.code()
		event := log.Ctx(r.Context()).Info()
		if status >= http.StatusInternalServerError {
			event = log.Ctx(r.Context()).Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// observeRequests records request metrics labelled by route template.
func observeRequests(reg *metrics.Registry, service string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if reg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)
			route := ""
			if current := mux.CurrentRoute(r); current != nil {
				route, _ = current.GetPathTemplate()
			}
			reg.ObserveRequest(service, route, r.Method, rec.code(), time.Since(start))
		})
	}
}

// cors allows the configured web origin to call the API from a browser.
func cors(origin string) func(http.Handler) http.Handler {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestOrigin := r.Header.Get("Origin")
			if origin != "" && (origin == "*" || requestOrigin == origin) {
				allowed := requestOrigin
				if origin == "*" {
					allowed = "*"
				}
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireUser rejects requests without a valid bearer token.
func (a *api) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := a.auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r.WithContext(requestctx.WithUser(r.Context(), user)))
	}
}

// requireStaff rejects requests unless the caller is an admin or superadmin.
func (a *api) requireStaff(next http.HandlerFunc) http.HandlerFunc {
	return a.requireUser(func(w http.ResponseWriter, r *http.Request) {
		if err := access.RequireStaff(caller(r)); err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r)
	})
}

// optionalUser attaches the caller when a valid token is present and
// otherwise continues anonymously.
func (a *api) optionalUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if strings.TrimSpace(header) == "" {
			next(w, r)
			return
		}
		user, err := a.auth.Authenticate(r.Context(), header)
		if err != nil {
			log.Ctx(r.Context()).Debug().Err(err).Msg("ignoring invalid optional token")
			next(w, r)
			return
		}
		next(w, r.WithContext(requestctx.WithUser(r.Context(), user)))
	}
}

// rateLimited rejects callers that exhausted their per-IP budget.
func (a *api) rateLimited(limiter *ratelimit.Keyed, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(ratelimit.ClientIP(r, a.trustForwarded)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, r, apperrors.New(apperrors.CodeRateLimited, "Too many requests, please try again later"))
			return
		}
		next(w, r)
	}
}

func caller(r *http.Request) requestctx.User {
	user, _ := requestctx.UserFromContext(r.Context())
	return user
}
