package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/models"
)

const loggedOutCookieValue = "loggedout"

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) error {
	var req models.SignupRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		return err
	}

	user, token, err := h.services.AuthService.Signup(r.Context(), req)
	if err != nil {
		return err
	}

	logger.FromRequest(r).Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return h.sendToken(w, user, token, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) error {
	var req models.LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		return err
	}

	user, token, err := h.services.AuthService.Login(r.Context(), req)
	if err != nil {
		return err
	}

	logger.FromRequest(r).Debug().Str("user_id", user.ID.String()).Msg("user successfully logged in")
	return h.sendToken(w, user, token, http.StatusOK)
}

// logout overwrites the jwt cookie with a short-lived placeholder.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     jwtCookieName,
		Value:    loggedOutCookieValue,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   h.cfg.App.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	_, err := utils.WriteJSON(w, models.Envelope{Status: models.StatusSuccess}, http.StatusOK)
	return err
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) error {
	var req models.ForgotPasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		return err
	}

	if err := h.services.AuthService.ForgotPassword(r.Context(), req.Email, resetURL(r)); err != nil {
		return err
	}

	_, err := utils.WriteJSON(w, models.Envelope{Status: models.StatusSuccess, Message: "Token sent to user email"}, http.StatusOK)
	return err
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) error {
	var req models.PasswordReset
	if err := utils.DecodeJSON(r, &req); err != nil {
		return err
	}

	user, token, err := h.services.AuthService.ResetPassword(r.Context(), chi.URLParam(r, "token"), req)
	if err != nil {
		return err
	}

	return h.sendToken(w, user, token, http.StatusOK)
}

func (h *Handler) updateMyPassword(w http.ResponseWriter, r *http.Request) error {
	current, err := currentUser(r)
	if err != nil {
		return err
	}

	var req models.PasswordUpdate
	if err = utils.DecodeJSON(r, &req); err != nil {
		return err
	}

	user, token, err := h.services.AuthService.UpdatePassword(r.Context(), current, req)
	if err != nil {
		return err
	}

	return h.sendToken(w, user, token, http.StatusOK)
}

// sendToken delivers token both as the jwt cookie and in the response body,
// next to the user.
func (h *Handler) sendToken(w http.ResponseWriter, user models.User, token models.Token, status int) error {
	http.SetCookie(w, &http.Cookie{
		Name:     jwtCookieName,
		Value:    token.SignedString,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.App.CookieExpires),
		HttpOnly: true,
		Secure:   h.cfg.App.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})

	body := models.Envelope{
		Status: models.StatusSuccess,
		Token:  token.SignedString,
		Data:   map[string]any{"user": user},
	}
	_, err := utils.WriteJSON(w, body, status)
	return err
}

// resetURL builds the link mailed by forgotPassword from the request host.
func resetURL(r *http.Request) func(token string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	return func(token string) string {
		return fmt.Sprintf("%s://%s/api/v1/users/resetPassword/%s", scheme, r.Host, token)
	}
}
