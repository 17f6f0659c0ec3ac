package httphandler

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/niksmo/vip-store/internal/core/domain"
	"github.com/niksmo/vip-store/internal/core/port"
)

type ctxKey int

const identityKey ctxKey = iota

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// RequestLogger logs every completed request.
func RequestLogger(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "RequestLogger"

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		slog.Info(
			"request completed",
			"op", op,
			"requestID", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.Status(),
			"duration", time.Since(start),
		)
	}
	return http.HandlerFunc(hf)
}

// Recoverer turns a handler panic into the generic 500 response.
func Recoverer(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "Recoverer"

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error(
				"handler panicked",
				"op", op,
				"requestID", middleware.GetReqID(r.Context()),
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			writeMessage(w, http.StatusInternalServerError, codeInternal, internalErrorMessage)
		}()

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// AllowJSON rejects bodies that are not JSON.
func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if !isMediaType(r, "application/json") {
			writeMessage(
				w, http.StatusUnsupportedMediaType, codeValidation, "invalid media type",
			)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// AdminOnly admits requests carrying a valid admin bearer token.
func AdminOnly(auth port.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			const op = "AdminOnly"

			token, ok := bearerToken(r)
			if !ok {
				writeMessage(w, http.StatusUnauthorized, codeAuthorization, "No token provided")
				return
			}

			id, err := auth.Verify(r.Context(), token)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, codeAuthorization, "Invalid token")
				return
			}
			if !id.IsAdmin() {
				writeError(w, r, fmt.Errorf("%s: %w", op, domain.ErrAuthorization))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hf)
	}
}

// LoginThrottle limits login attempts per client address.
// Limiter failures let the request through.
func LoginThrottle(limiter port.LoginLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			const op = "LoginThrottle"

			allowed, err := limiter.Allow(r.Context(), clientAddr(r))
			if err != nil {
				slog.With("op", op).Warn("limiter unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeError(w, r, domain.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hf)
	}
}

func identityFrom(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey).(domain.Identity)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", false
	}
	return fields[1], true
}

// clientAddr expects RealIP to have run before.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isMediaType(r *http.Request, want string) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == want
}
