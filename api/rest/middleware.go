package rest

import (
	"bufio"
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/abcfe/avax-types/common/logger"
	"go.uber.org/zap"
)

// statusRecorder keeps the response code for the access log. It must stay
// hijackable for the /ws upgrade.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// LoggingMiddleware HTTP request logging middleware
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("client", clientHost(r)),
			zap.Duration("duration", time.Since(start)))
	})
}

// RecoveryMiddleware turns a handler panic into a 500 envelope
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("API Panic recovered: ", err)
				sendResp(w, http.StatusInternalServerError, nil, fmt.Errorf("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// RequireToken rejects requests without the bearer token. An empty token
// closes the routes entirely.
func RequireToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				sendResp(w, http.StatusForbidden, nil, fmt.Errorf("custody API disabled: no auth token configured"))
				return
			}
			got, ok := bearerToken(r)
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				logger.Warn("custody request rejected from ", clientHost(r))
				w.Header().Set("WWW-Authenticate", "Bearer")
				sendResp(w, http.StatusUnauthorized, nil, fmt.Errorf("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return h[len(prefix):], true
}
