package routes

import (
	"net/http"

	"github.com/AnshRaj112/petverse-backend/internal/handlers"
	"github.com/AnshRaj112/petverse-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Options struct {
	Handler        *handlers.Handler
	Logger         *zap.Logger
	AllowedOrigins []string
	// Production enables security headers and per-IP rate limits.
	Production bool
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	// Leave it off unless a proxy that overwrites those headers fronts the server.
	TrustProxy bool
	// RateLimit is optional; nil skips the Redis-backed limiter.
	RateLimit *middleware.RedisRateLimit
}

// NewRouter builds the HTTP handler with the full middleware stack.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	if opts.Production {
		for _, mw := range middleware.ProductionSecurity() {
			r.Use(mw)
		}
	}
	if opts.RateLimit != nil {
		r.Use(opts.RateLimit.Middleware)
	}

	SetupRoutes(r, opts.Handler)
	return r
}

func SetupRoutes(r chi.Router, h *handlers.Handler) {
	// Liveness
	r.Get("/", h.Health)

	// Auth
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)

	// Lost and found reports
	r.Post("/report-lost-pet", h.ReportLostPet)
	r.Post("/report-found-pet", h.ReportFoundPet)
	r.Get("/lost-pets", h.LostPets)

	// Pet photo hosting
	r.Post("/upload", h.UploadImage)
}
