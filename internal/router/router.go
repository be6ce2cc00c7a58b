package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-barter-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-barter-go/internal/barter"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs every request at debug level, and 5xx responses at warn.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.Debugw
			if status >= http.StatusInternalServerError {
				log = logger.Warnw
			}
			log("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets the headers a JSON API needs: no sniffing, no framing,
// no referrer and a deny-all content policy. HSTS is only sent over TLS.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Cache-Control", "no-store")
			if h.Get("Content-Security-Policy") == "" {
				h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}
			if r.TLS != nil {
				h.Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

const prefix = "/barter-api"

// RegisterRoutes mounts the barter endpoints on a stdlib http.ServeMux.
// Public routes: health, register, login, password reset and the content gallery.
// Everything else requires a bearer token; /admin routes also require the admin role.
func RegisterRoutes(logger *zap.SugaredLogger, h *barter.Handler, tokens *auth.TokenService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+prefix+"/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST "+prefix+"/register", h.Register)
	mux.HandleFunc("POST "+prefix+"/login", h.Login)
	mux.HandleFunc("POST "+prefix+"/password-reset", h.ResetPassword)
	mux.HandleFunc("GET "+prefix+"/content", h.Content)

	member := auth.Middleware(tokens)
	protect := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, member(fn))
	}
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, member(auth.RequireAdmin(fn)))
	}

	protect("GET "+prefix+"/me/stats", h.Stats)
	protect("GET "+prefix+"/me/assets", h.MyAssets)
	protect("GET "+prefix+"/me/tasks", h.MyTasks)
	protect("GET "+prefix+"/me/approvals", h.PendingApprovals)
	protect("POST "+prefix+"/assets", h.SubmitAsset)
	protect("PATCH "+prefix+"/assets/{id}", h.UpdateAsset)
	protect("DELETE "+prefix+"/assets/{id}", h.DeleteAsset)
	protect("POST "+prefix+"/tasks/assign", h.Assign)
	protect("POST "+prefix+"/tasks/{id}/submit", h.SubmitContent)
	protect("POST "+prefix+"/tasks/{id}/review", h.Review)
	protect("POST "+prefix+"/rewards/claim", h.ClaimReward)

	admin("GET "+prefix+"/admin/members", h.AdminMembers)
	admin("POST "+prefix+"/admin/members", h.AdminAddMember)
	admin("PATCH "+prefix+"/admin/members/{id}", h.AdminUpdateMember)
	admin("GET "+prefix+"/admin/tasks", h.AdminTasks)

	// wrap with security headers middleware then logging middleware
	return LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux))
}
