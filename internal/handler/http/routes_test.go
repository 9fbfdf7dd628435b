package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/internal/service"
	"github.com/MKhiriev/go-natours/models"
)

// Tokens understood by the fake Protect of apiFixture.
const (
	adminToken = "admin-token"
	guideToken = "guide-token"
	userToken  = "user-token"
)

type apiFixture struct {
	svc    *testServices
	client *resty.Client
	users  map[string]models.User
}

func newAPIFixture(t *testing.T, mutate ...func(*config.StructuredConfig)) *apiFixture {
	t.Helper()

	f := &apiFixture{
		svc: newTestServices(),
		users: map[string]models.User{
			adminToken: {ID: uuid.New(), Name: "Admin", Email: "admin@natours.io", Role: models.RoleAdmin},
			guideToken: {ID: uuid.New(), Name: "Steve T. Scaife", Email: "steve@example.com", Role: models.RoleGuide},
			userToken:  {ID: uuid.New(), Name: "Laura Wilson", Email: "laura@example.com", Role: models.RoleUser},
		},
	}
	f.svc.auth.ProtectFunc = func(_ context.Context, token string) (models.User, error) {
		if token == "" {
			return models.User{}, service.ErrNotLoggedIn
		}
		user, ok := f.users[token]
		if !ok {
			return models.User{}, service.ErrTokenInvalid
		}
		return user, nil
	}

	h := newTestHandler(t, f.svc, mutate...)
	srv := httptest.NewServer(h.Init())
	t.Cleanup(srv.Close)

	f.client = resty.New().SetBaseURL(srv.URL)
	return f
}

func (f *apiFixture) as(token string) *resty.Request {
	return f.client.R().SetAuthToken(token)
}

func errorMessage(t *testing.T, resp *resty.Response) string {
	t.Helper()

	var body models.ErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body(), &body), "body: %s", resp.Body())
	return body.Message
}

func TestRoutes_Version(t *testing.T) {
	f := newAPIFixture(t)

	var body struct {
		Status string         `json:"status"`
		Data   models.AppInfo `json:"data"`
	}
	resp, err := f.client.R().SetResult(&body).Get("/api/v1/version")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "1.2.3", body.Data.Version)
	assert.NotEmpty(t, resp.Header().Get(traceIDHeader))
	assert.Equal(t, "nosniff", resp.Header().Get("X-Content-Type-Options"))
}

func TestRoutes_Unknown(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "unknown path", method: http.MethodGet, path: "/api/v1/bookings"},
		{name: "outside api", method: http.MethodGet, path: "/overview"},
		{name: "method not served", method: http.MethodPut, path: "/api/v1/tours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.client.R().Execute(tt.method, tt.path)
			require.NoError(t, err)

			assert.Equal(t, http.StatusNotFound, resp.StatusCode())
			assert.Equal(t, "Can't find "+tt.path+" on this server!", errorMessage(t, resp))
		})
	}
}

func TestRoutes_Signup(t *testing.T) {
	f := newAPIFixture(t)
	created := models.User{ID: uuid.New(), Name: "Jonas", Email: "jonas@example.com", Role: models.RoleUser}
	f.svc.auth.SignupFunc = func(_ context.Context, req models.SignupRequest) (models.User, models.Token, error) {
		assert.Equal(t, "Jonas", req.Name)
		assert.Equal(t, "pass1234", req.PasswordConfirm)
		return created, models.Token{SignedString: "fresh.jwt.token"}, nil
	}

	var body struct {
		Status string `json:"status"`
		Token  string `json:"token"`
		Data   struct {
			User models.User `json:"user"`
		} `json:"data"`
	}
	resp, err := f.client.R().
		SetBody(map[string]string{"name": "Jonas", "email": "jonas@example.com", "password": "pass1234", "passwordConfirm": "pass1234"}).
		SetResult(&body).
		Post("/api/v1/users/signup")
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Equal(t, "fresh.jwt.token", body.Token)
	assert.Equal(t, created.ID, body.Data.User.ID)
	assert.NotContains(t, string(resp.Body()), "password")

	var jwtCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == jwtCookieName {
			jwtCookie = c
		}
	}
	require.NotNil(t, jwtCookie)
	assert.Equal(t, "fresh.jwt.token", jwtCookie.Value)
	assert.True(t, jwtCookie.HttpOnly)
}

func TestRoutes_LoginFailure(t *testing.T) {
	f := newAPIFixture(t)
	f.svc.auth.LoginFunc = func(context.Context, models.LoginRequest) (models.User, models.Token, error) {
		return models.User{}, models.Token{}, service.ErrWrongCredentials
	}

	resp, err := f.client.R().SetBody(`{"email":"a@b.io","password":"nope"}`).Post("/api/v1/users/login")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, "Incorrect email or password", errorMessage(t, resp))
}

func TestRoutes_MalformedJSON(t *testing.T) {
	f := newAPIFixture(t)

	resp, err := f.client.R().SetHeader("Content-Type", "application/json").SetBody(`{"email":`).Post("/api/v1/users/login")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, invalidJSONMessage, errorMessage(t, resp))
}

func TestRoutes_Logout(t *testing.T) {
	f := newAPIFixture(t)

	resp, err := f.client.R().Get("/api/v1/users/logout")
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.NotEmpty(t, resp.Cookies())
	assert.Equal(t, loggedOutCookieValue, resp.Cookies()[0].Value)
}

func TestRoutes_ForgotPassword(t *testing.T) {
	f := newAPIFixture(t)
	f.svc.auth.ForgotPasswordFunc = func(_ context.Context, email string, resetURL func(string) string) error {
		assert.Equal(t, "laura@example.com", email)
		assert.Contains(t, resetURL("abc"), "/api/v1/users/resetPassword/abc")
		return nil
	}

	resp, err := f.client.R().SetBody(map[string]string{"email": "laura@example.com"}).Post("/api/v1/users/forgotPassword")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "Token sent to user email")
}

func TestRoutes_ResetPassword(t *testing.T) {
	f := newAPIFixture(t)
	f.svc.auth.ResetPasswordFunc = func(_ context.Context, token string, _ models.PasswordReset) (models.User, models.Token, error) {
		assert.Equal(t, "plain-reset-token", token)
		return models.User{}, models.Token{}, service.ErrResetTokenInvalid
	}

	resp, err := f.client.R().SetBody(map[string]string{"password": "newpass123", "passwordConfirm": "newpass123"}).
		Patch("/api/v1/users/resetPassword/plain-reset-token")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "Token invalid or expired", errorMessage(t, resp))
}

func TestRoutes_Protected(t *testing.T) {
	f := newAPIFixture(t)
	f.svc.users.GetFunc = func(_ context.Context, id string) (models.User, error) {
		return f.users[userToken], nil
	}

	t.Run("no token", func(t *testing.T) {
		resp, err := f.client.R().Get("/api/v1/users/me")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, "Please login to have access", errorMessage(t, resp))
	})

	t.Run("bad token", func(t *testing.T) {
		resp, err := f.as("forged").Get("/api/v1/users/me")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, "Invalid token. Please login again", errorMessage(t, resp))
	})

	t.Run("cookie token", func(t *testing.T) {
		resp, err := f.client.R().SetCookie(&http.Cookie{Name: jwtCookieName, Value: userToken}).Get("/api/v1/users/me")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), "laura@example.com")
	})
}

func TestRoutes_Roles(t *testing.T) {
	f := newAPIFixture(t)
	f.svc.tours.MonthlyPlanFunc = func(_ context.Context, year int) ([]models.MonthlyPlan, error) {
		assert.Equal(t, 2021, year)
		return []models.MonthlyPlan{{Month: 7, NumTourStarts: 3, Tours: []string{"The Sea Explorer"}}}, nil
	}
	f.svc.tours.DeleteFunc = func(context.Context, string) error { return nil }

	tests := []struct {
		name   string
		token  string
		method string
		path   string
		want   int
	}{
		{name: "guide reads monthly plan", token: guideToken, method: http.MethodGet, path: "/api/v1/tours/monthly-plan/2021", want: http.StatusOK},
		{name: "user cannot read monthly plan", token: userToken, method: http.MethodGet, path: "/api/v1/tours/monthly-plan/2021", want: http.StatusForbidden},
		{name: "invalid year", token: adminToken, method: http.MethodGet, path: "/api/v1/tours/monthly-plan/soon", want: http.StatusBadRequest},
		{name: "guide cannot delete tours", token: guideToken, method: http.MethodDelete, path: "/api/v1/tours/" + tourID.String(), want: http.StatusForbidden},
		{name: "admin deletes tours", token: adminToken, method: http.MethodDelete, path: "/api/v1/tours/" + tourID.String(), want: http.StatusNoContent},
		{name: "users are admin only", token: guideToken, method: http.MethodGet, path: "/api/v1/users", want: http.StatusForbidden},
		{name: "create user is not defined", token: adminToken, method: http.MethodPost, path: "/api/v1/users", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.as(tt.token).Execute(tt.method, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode(), "body: %s", resp.Body())
		})
	}
}

func TestRoutes_TopCheapTours(t *testing.T) {
	f := newAPIFixture(t)
	f.svc.tours.ListFunc = func(_ context.Context, params query.Params, _ service.Scope) ([]models.Tour, []string, error) {
		assert.Equal(t, []string{"5"}, params["limit"])
		assert.Equal(t, []string{"-ratingsAverage,price"}, params["sort"])
		return []models.Tour{{ID: uuid.New(), Name: "The Forest Hiker", Price: 397, RatingsAverage: 4.7}},
			[]string{"name", "price", "ratingsAverage", "summary", "difficulty"}, nil
	}

	var body struct {
		Result int `json:"result"`
		Data   struct {
			Data []map[string]any `json:"data"`
		} `json:"data"`
	}
	resp, err := f.client.R().SetResult(&body).Get("/api/v1/tours/top-5-cheap")
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, 1, body.Result)
	assert.NotContains(t, body.Data.Data[0], "id")
	assert.Equal(t, "The Forest Hiker", body.Data.Data[0]["name"])
}

func TestRoutes_NestedReviews(t *testing.T) {
	f := newAPIFixture(t)
	author := f.users[userToken]

	var created map[string]any
	f.svc.reviews.CreateFunc = func(_ context.Context, body json.RawMessage) (models.Review, error) {
		require.NoError(t, json.Unmarshal(body, &created))
		return models.Review{ID: uuid.New(), Review: "Amazing!", Rating: 5, Tour: tourID, User: author.ID}, nil
	}
	f.svc.reviews.ListFunc = func(_ context.Context, _ query.Params, scope service.Scope) ([]models.Review, []string, error) {
		assert.Equal(t, service.Scope{"tour": tourID.String()}, scope)
		return []models.Review{{ID: uuid.New(), Review: "Amazing!", Rating: 5, Tour: tourID}}, nil, nil
	}

	resp, err := f.as(userToken).SetBody(map[string]any{"review": "<b>Amazing!</b>", "rating": 5}).
		Post("/api/v1/tours/" + tourID.String() + "/reviews")
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, resp.StatusCode(), "body: %s", resp.Body())
	assert.Equal(t, tourID.String(), created["tour"])
	assert.Equal(t, author.ID.String(), created["user"])
	assert.Equal(t, "Amazing!", created["review"], "markup is stripped")

	resp, err = f.as(adminToken).SetBody(map[string]any{"review": "x", "rating": 5}).
		Post("/api/v1/tours/" + tourID.String() + "/reviews")
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode(), "only users write reviews")

	resp, err = f.as(guideToken).Get("/api/v1/tours/" + tourID.String() + "/reviews")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `"result":1`)
}

func TestRoutes_UpdateMe(t *testing.T) {
	f := newAPIFixture(t)
	f.svc.users.UpdateMeFunc = func(_ context.Context, user models.User, update models.ProfileUpdate) (models.User, error) {
		if update.Name != nil {
			user.Name = *update.Name
		}
		return user, nil
	}
	f.svc.users.DeleteMeFunc = func(context.Context, models.User) error { return nil }

	resp, err := f.as(userToken).SetBody(map[string]string{"password": "hijack123"}).Patch("/api/v1/users/updateMe")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "This route is not for password update. Please use /updateMyPassword", errorMessage(t, resp))

	resp, err = f.as(userToken).SetBody(map[string]string{"name": "Laura W."}).Patch("/api/v1/users/updateMe")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "Laura W.")

	resp, err = f.as(userToken).Delete("/api/v1/users/deleteMe")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode())
}

func TestRoutes_RateLimit(t *testing.T) {
	f := newAPIFixture(t, func(cfg *config.StructuredConfig) { cfg.Security.RateLimit = 3 })

	var last *resty.Response
	for range 4 {
		resp, err := f.client.R().Get("/api/v1/version")
		require.NoError(t, err)
		last = resp
	}

	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode())
	assert.Equal(t, "Too many requests from this IP, please try again in an hour!", errorMessage(t, last))
}

func TestRoutes_Gzip(t *testing.T) {
	f := newAPIFixture(t)
	f.svc.tours.StatsFunc = func(context.Context) ([]models.TourStats, error) {
		return []models.TourStats{{Difficulty: "EASY", NumTours: 4, AvgPrice: 1272}}, nil
	}

	resp, err := f.client.R().SetHeader("Accept-Encoding", "gzip").Get("/api/v1/tours/tour-stats")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "gzip", resp.Header().Get("Content-Encoding"))
}
