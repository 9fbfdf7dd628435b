package http

import (
	"net/http"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/service"
	"github.com/MKhiriev/go-natours/models"
)

type Handler struct {
	services *service.Services
	cfg      config.StructuredConfig
	limiter  *IPRateLimiter

	tours   *Factory[models.Tour]
	users   *Factory[models.User]
	reviews *Factory[models.Review]

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		cfg:      cfg,
		limiter:  NewIPRateLimiter(cfg.Security.RateLimit, cfg.Security.RateWindow),
		logger:   logger,
	}
	h.tours = NewFactory[models.Tour](h, services.TourService)
	h.users = NewFactory[models.User](h, services.UserService)
	h.reviews = NewFactory[models.Review](h, services.ReviewService)

	logger.Info().Msg("http handler created")
	return h
}

// Limiter returns the per-IP limiter guarding /api.
func (h *Handler) Limiter() *IPRateLimiter {
	return h.limiter
}

// handlerFunc is an HTTP handler that reports failures instead of writing
// them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// catch adapts fn to [http.HandlerFunc]. A returned error is passed to the
// error normalizer, which writes the response.
func (h *Handler) catch(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.writeError(w, r, err)
		}
	}
}
