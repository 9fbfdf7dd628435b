package http

import (
	"net/http"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/models"
)

const jwtCookieName = "jwt"

// protect is an HTTP middleware that enforces JWT-based authentication.
//
// The token is read from the "Authorization: Bearer" header, or from the jwt
// cookie when no header is sent. It is verified by
// [service.AuthService.Protect]; on success the resolved user is stored in the
// request context under [utils.UserCtxKey]. Every rejection goes through the
// error normalizer and ends in 401.
func (h *Handler) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString := tokenFromRequest(r)
		user, err := h.services.AuthService.Protect(r.Context(), tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("request rejected by protect")
			h.writeError(w, r, err)
			return
		}

		ctx := utils.WithUser(r.Context(), &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// restrictTo lets a request through only when the user resolved by protect
// holds one of roles. It must run after protect.
func (h *Handler) restrictTo(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := utils.GetUserFromContext(r.Context())
			if !ok {
				h.writeError(w, r, errNoIdentity)
				return
			}

			if err := h.services.AuthService.RestrictTo(*user, roles...); err != nil {
				logger.FromRequest(r).Debug().
					Str("user_id", user.ID.String()).
					Str("role", user.Role).
					Strs("allowed", roles).
					Msg("role not allowed")
				h.writeError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// tokenFromRequest returns the bearer token of the Authorization header or
// the jwt cookie. It returns "" when the request carries neither.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, err := utils.ParseBearerToken(header); err == nil {
			return token
		}
	}

	if cookie, err := r.Cookie(jwtCookieName); err == nil {
		return cookie.Value
	}

	return ""
}

// currentUser returns the user stored by protect.
func currentUser(r *http.Request) (models.User, error) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		return models.User{}, errNoIdentity
	}
	return *user, nil
}
