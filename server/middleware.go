package server

import (
	"net/http"
	"runtime/debug"
	"time"

	"discogsapi/core/auth"
	"discogsapi/logger"
)

// basicRealm matches the realm the legacy clients were issued.
const basicRealm = "Users"

// BasicAuth rejects requests whose Basic credentials are missing or not
// accepted by validator.
func BasicAuth(validator auth.CredentialValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok || !validator.Validate(username, password) {
				if ok {
					logger.Warn("authentication failed", logger.String("user", username), logger.String("path", r.URL.Path))
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="`+basicRealm+`"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			logger.Debug("authenticated", logger.String("user", username))
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows browser clients such as the Swagger UI on other origins.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures what a handler wrote for the access log.
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

// RequestLogger writes one access log entry per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logger.Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.RequestURI()),
			logger.Int("status", rec.status),
			logger.Int("bytes", rec.bytes),
			logger.Duration("duration", time.Since(start)),
			logger.String("remoteAddr", r.RemoteAddr),
		)
	})
}

// Recovery turns a handler panic into a 500 response. A handler that already
// started its response keeps it; the panic is only logged.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				logger.Error("panic recovered",
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path),
					logger.Any("panic", p),
					logger.String("stack", string(debug.Stack())),
				)
				if rec.status == 0 {
					writeMessage(rec, http.StatusInternalServerError, "Internal Server Error")
				}
			}
		}()
		next.ServeHTTP(rec, r)
	})
}
