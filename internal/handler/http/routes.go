package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-natours/models"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()

	// set before any sub router is mounted so that they inherit both
	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.checkHTTPMethod(router))

	router.Use(middleware.RealIP)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(middleware.Recoverer)
	router.Use(h.securityHeaders)
	router.Use(h.withGZip)
	if timeout := h.cfg.Server.RequestTimeout; timeout > 0 {
		router.Use(middleware.Timeout(timeout))
	}
	router.Use(h.limitBody)
	router.Use(h.stripHTML)

	router.Route("/api", func(api chi.Router) {
		api.Use(h.rateLimit)

		api.Route("/v1", func(v1 chi.Router) {
			v1.Get("/version", h.catch(h.getServerVersion))
			v1.Route("/tours", h.tourRoutes)
			v1.Route("/users", h.userRoutes)
			v1.Route("/reviews", h.reviewRoutes)
		})
	})

	return router
}

func (h *Handler) tourRoutes(r chi.Router) {
	staff := h.restrictTo(models.RoleAdmin, models.RoleLeadGuide)

	r.Get("/", h.tours.GetAll(nil))
	r.With(aliasTopTours).Get("/top-5-cheap", h.tours.GetAll(nil))
	r.Get("/tour-stats", h.catch(h.getTourStats))
	r.With(h.protect, h.restrictTo(models.RoleAdmin, models.RoleLeadGuide, models.RoleGuide)).
		Get("/monthly-plan/{year}", h.catch(h.getMonthlyPlan))
	r.Get("/{id}", h.tours.GetOne())

	r.Group(func(r chi.Router) {
		r.Use(h.protect, staff)
		r.Post("/", h.tours.CreateOne(nil))
		r.Patch("/{id}", h.tours.UpdateOne())
		r.Delete("/{id}", h.tours.DeleteOne())
	})

	r.Route("/{tourId}/reviews", h.reviewRoutes)
}

func (h *Handler) userRoutes(r chi.Router) {
	r.Post("/signup", h.catch(h.signup))
	r.Post("/login", h.catch(h.login))
	r.Get("/logout", h.catch(h.logout))
	r.Post("/forgotPassword", h.catch(h.forgotPassword))
	r.Patch("/resetPassword/{token}", h.catch(h.resetPassword))

	r.Group(func(r chi.Router) {
		r.Use(h.protect)

		r.Patch("/updateMyPassword", h.catch(h.updateMyPassword))
		r.Get("/me", h.catch(h.getMe))
		r.Patch("/updateMe", h.catch(h.updateMe))
		r.Delete("/deleteMe", h.catch(h.deleteMe))

		r.Group(func(r chi.Router) {
			r.Use(h.restrictTo(models.RoleAdmin))

			r.Get("/", h.users.GetAll(nil))
			r.Post("/", h.catch(h.createUser))
			r.Get("/{id}", h.users.GetOne())
			r.Patch("/{id}", h.users.UpdateOne())
			r.Delete("/{id}", h.users.DeleteOne())
		})
	})
}

// reviewRoutes serves both /reviews and /tours/{tourId}/reviews.
func (h *Handler) reviewRoutes(r chi.Router) {
	r.Use(h.protect)

	r.Get("/", h.reviews.GetAll(reviewScope))
	r.With(h.restrictTo(models.RoleUser)).Post("/", h.reviews.CreateOne(reviewDefaults))
	r.Get("/{id}", h.reviews.GetOne())

	r.Group(func(r chi.Router) {
		r.Use(h.restrictTo(models.RoleUser, models.RoleAdmin))
		r.Patch("/{id}", h.reviews.UpdateOne())
		r.Delete("/{id}", h.reviews.DeleteOne())
	})
}
