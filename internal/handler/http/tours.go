package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-natours/internal/apperr"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/models"
)

// aliasTopTours rewrites the query of /top-5-cheap into a regular list query.
func aliasTopTours(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		q.Set("limit", "5")
		q.Set("sort", "-ratingsAverage,price")
		q.Set("fields", "name,price,ratingsAverage,summary,difficulty")
		r.URL.RawQuery = q.Encode()

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) getTourStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.services.TourService.Stats(r.Context())
	if err != nil {
		return err
	}

	_, err = utils.WriteJSON(w, models.Success(map[string]any{"stats": stats}), http.StatusOK)
	return err
}

func (h *Handler) getMonthlyPlan(w http.ResponseWriter, r *http.Request) error {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return apperr.Newf(http.StatusBadRequest, "Invalid year: %s", raw)
	}

	plan, err := h.services.TourService.MonthlyPlan(r.Context(), year)
	if err != nil {
		return err
	}

	_, err = utils.WriteJSON(w, models.Success(map[string]any{"plan": plan}), http.StatusOK)
	return err
}
