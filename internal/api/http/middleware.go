package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"unistay-backend/internal/config"
	"unistay-backend/internal/domain"
	"unistay-backend/internal/logger"
	"unistay-backend/internal/security"
)

const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// withRequestID propagates an incoming request id or generates one, and stores
// a logger carrying it on the request context.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		ctx = logger.WithContext(ctx, logger.Get().With("request_id", requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withRequestLog emits one structured line per request.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		logger.FromContext(r.Context()).Info(
			"http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data: https: http:; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'")
		if r.TLS != nil || strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https") {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// withRecover turns a panic into a logged 500 page.
func (h *Handler) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logger.ErrorContext(r.Context(), "Panic while serving request", "panic", p, "stack", string(debug.Stack()))
				h.renderStatus(w, r, http.StatusInternalServerError, "Something went wrong on our side.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the session cookie into a caller. Invalid or revoked
// sessions are cleared and the request continues as a guest.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookies.Session)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		caller, err := h.Auth.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, security.ErrInvalidToken) && !errors.Is(err, security.ErrExpiredToken) && !errors.Is(err, security.ErrRevokedToken) {
				logger.WarnContext(r.Context(), "Session check failed", "error", err)
			}
			h.clearSession(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := withCaller(r.Context(), caller)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", caller.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authorize enforces the security level configured for the matched route.
func (h *Handler) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.GetSecurityLevel(name)
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		caller := CallerFromContext(r.Context())
		if !caller.IsAuthenticated() {
			if isAPI(r) {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		if !allowed(level, caller) {
			logger.WarnContext(r.Context(), "Route denied", "route", name, "level", level.String())
			h.fail(w, r, domain.ErrForbidden, "/")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func allowed(level config.SecurityLevel, c domain.Caller) bool {
	switch level {
	case config.SecurityStudent:
		return c.CanBook()
	case config.SecurityOwner:
		return c.CanListProperties()
	default:
		return c.IsAuthenticated()
	}
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
