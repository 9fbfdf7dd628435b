package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-natours/internal/service"
	"github.com/MKhiriev/go-natours/internal/utils"
)

// reviewScope limits review lists to the tour of a nested route.
func reviewScope(r *http.Request) service.Scope {
	if tourID := chi.URLParam(r, "tourId"); tourID != "" {
		return service.Scope{"tour": tourID}
	}
	return nil
}

// reviewDefaults fills in the tour of a nested route and the author.
func reviewDefaults(r *http.Request) map[string]any {
	defaults := map[string]any{}
	if tourID := chi.URLParam(r, "tourId"); tourID != "" {
		defaults["tour"] = tourID
	}
	if user, ok := utils.GetUserFromContext(r.Context()); ok {
		defaults["user"] = user.ID.String()
	}
	return defaults
}
