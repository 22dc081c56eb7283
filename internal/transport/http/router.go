// Package httptransport assembles the HTTP router. It stays thin: domain
// handlers register their own routes, and this package only adds the shared
// middleware and operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fundrace/internal/platform/metrics"
	"fundrace/pkg/requestcontext"
)

// Handlers are the domain route groups the router mounts.
type Handlers struct {
	Registration interface {
		RegisterPublic(chi.Router)
		RegisterAdmin(chi.Router)
	}
	PaymentLinks interface {
		RegisterPublic(chi.Router)
		RegisterAdmin(chi.Router)
	}
	Settings interface {
		RegisterPublic(chi.Router)
		RegisterAdmin(chi.Router)
	}
}

// Options tune router behavior beyond the handler set.
type Options struct {
	// MediaDir, when set, serves stored screenshots at /media/.
	MediaDir string
	Metrics  *metrics.Metrics
	Timeout  time.Duration
}

// NewRouter builds the full route tree: public applicant routes at /api,
// admin routes at /api/admin, plus health and metrics endpoints.
func NewRouter(logger *slog.Logger, handlers Handlers, opts Options) http.Handler {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		handlers.Registration.RegisterPublic(api)
		handlers.PaymentLinks.RegisterPublic(api)
		handlers.Settings.RegisterPublic(api)

		api.Route("/admin", func(admin chi.Router) {
			handlers.Registration.RegisterAdmin(admin)
			handlers.PaymentLinks.RegisterAdmin(admin)
			handlers.Settings.RegisterAdmin(admin)
		})
	})

	if opts.MediaDir != "" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaDir)))
		r.Get("/media/*", fs.ServeHTTP)
	}

	return r
}

// requestID tags every request with an id, reusing an inbound X-Request-ID
// so ids correlate across proxies, and pins the request time so every write
// in one request shares a timestamp.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		ctx = requestcontext.WithTime(ctx, time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", requestcontext.RequestID(r.Context())),
			)
		})
	}
}
