package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-natours/internal/service"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/models"
)

// passwordFields may not be sent to updateMe.
var passwordFields = []string{"password", "passwordConfirm", "passwordCurrent"}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) error {
	current, err := currentUser(r)
	if err != nil {
		return err
	}

	user, err := h.services.UserService.Get(r.Context(), current.ID.String())
	if err != nil {
		return err
	}

	_, err = utils.WriteJSON(w, models.Success(map[string]any{"data": user}), http.StatusOK)
	return err
}

// updateMe changes the name and email of the current user. Every other field
// of the body is ignored; password fields are refused.
func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) error {
	current, err := currentUser(r)
	if err != nil {
		return err
	}

	body, err := readBody(r)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return utils.ErrEmptyBody
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("error decoding JSON body: %w", err)
	}
	for _, name := range passwordFields {
		if _, ok := fields[name]; ok {
			return service.ErrPasswordUpdateNotAllowed
		}
	}

	var update models.ProfileUpdate
	if err = json.Unmarshal(body, &update); err != nil {
		return fmt.Errorf("error decoding JSON body: %w", err)
	}

	user, err := h.services.UserService.UpdateMe(r.Context(), current, update)
	if err != nil {
		return err
	}

	_, err = utils.WriteJSON(w, models.Success(map[string]any{"user": user}), http.StatusOK)
	return err
}

// deleteMe deactivates the current user.
func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) error {
	current, err := currentUser(r)
	if err != nil {
		return err
	}

	if err = h.services.UserService.DeleteMe(r.Context(), current); err != nil {
		return err
	}

	_, err = utils.WriteJSON(w, nil, http.StatusNoContent)
	return err
}

func (h *Handler) createUser(http.ResponseWriter, *http.Request) error {
	return errRouteNotDefined
}
