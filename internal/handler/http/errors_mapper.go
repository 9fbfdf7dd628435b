package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-natours/internal/service"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/utils"
)

// clientError is the status and client message of a sentinel error.
type clientError struct {
	status  int
	message string
}

// errorStatuses maps sentinels to client errors. When a chain holds several
// sentinels the first entry wins, so wrapping errors come before their causes.
var errorStatuses = []struct {
	err error
	clientError
}{
	{service.ErrTokenExpired, clientError{http.StatusUnauthorized, "Session expired. Please login again"}},
	{service.ErrTokenInvalid, clientError{http.StatusUnauthorized, "Invalid token. Please login again"}},
	{service.ErrSendingResetEmail, clientError{http.StatusInternalServerError, "There was an error sending email. Please try again later."}},

	{service.ErrInvalidDataProvided, clientError{http.StatusBadRequest, "Invalid input data"}},
	{utils.ErrEmptyBody, clientError{http.StatusBadRequest, invalidJSONMessage}},

	{service.ErrMissingCredentials, clientError{http.StatusBadRequest, "Please provide email and password"}},
	{service.ErrWrongCredentials, clientError{http.StatusUnauthorized, "Incorrect email or password"}},
	{service.ErrNotLoggedIn, clientError{http.StatusUnauthorized, "Please login to have access"}},
	{service.ErrUserNoLongerExists, clientError{http.StatusUnauthorized, "The user belonging to this token no longer exists"}},
	{service.ErrPasswordRecentlyChanged, clientError{http.StatusUnauthorized, "Password recently changed. Please login again!"}},
	{service.ErrForbidden, clientError{http.StatusForbidden, "You do not have permission to perform this action"}},
	{errNoIdentity, clientError{http.StatusUnauthorized, "Please login to have access"}},

	{service.ErrNoUserWithEmail, clientError{http.StatusNotFound, "There is no user with that email address"}},
	{service.ErrResetTokenInvalid, clientError{http.StatusBadRequest, "Token invalid or expired"}},
	{service.ErrWrongCurrentPassword, clientError{http.StatusUnauthorized, "Your provided information is wrong"}},
	{service.ErrPasswordUpdateNotAllowed, clientError{http.StatusBadRequest, "This route is not for password update. Please use /updateMyPassword"}},

	{store.ErrNotFound, clientError{http.StatusNotFound, "No document found with that id"}},

	{errRouteNotDefined, clientError{http.StatusInternalServerError, "This route is not defined! Please use /signup instead"}},
	{errTooManyRequests, clientError{http.StatusTooManyRequests, "Too many requests from this IP, please try again in an hour!"}},
}

// clientErrorFor returns the mapping of the first listed sentinel found in
// err's chain.
func clientErrorFor(err error) (clientError, bool) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.clientError, true
		}
	}
	return clientError{}, false
}
