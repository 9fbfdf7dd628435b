package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/internal/service"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/models"
)

// fakeResource is a ResourceService whose behaviour is set per test. Unset
// functions panic, which fails the test that reached them.
type fakeResource[T any] struct {
	descriptor *store.Descriptor[T]

	CreateFunc func(ctx context.Context, body json.RawMessage) (T, error)
	GetFunc    func(ctx context.Context, id string) (T, error)
	ListFunc   func(ctx context.Context, params query.Params, scope service.Scope) ([]T, []string, error)
	UpdateFunc func(ctx context.Context, id string, patch json.RawMessage) (T, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (f *fakeResource[T]) Descriptor() *store.Descriptor[T] { return f.descriptor }

func (f *fakeResource[T]) Create(ctx context.Context, body json.RawMessage) (T, error) {
	return f.CreateFunc(ctx, body)
}

func (f *fakeResource[T]) Get(ctx context.Context, id string) (T, error) {
	return f.GetFunc(ctx, id)
}

func (f *fakeResource[T]) List(ctx context.Context, params query.Params, scope service.Scope) ([]T, []string, error) {
	return f.ListFunc(ctx, params, scope)
}

func (f *fakeResource[T]) Update(ctx context.Context, id string, patch json.RawMessage) (T, error) {
	return f.UpdateFunc(ctx, id, patch)
}

func (f *fakeResource[T]) Delete(ctx context.Context, id string) error {
	return f.DeleteFunc(ctx, id)
}

type fakeTours struct {
	fakeResource[models.Tour]

	StatsFunc       func(ctx context.Context) ([]models.TourStats, error)
	MonthlyPlanFunc func(ctx context.Context, year int) ([]models.MonthlyPlan, error)
}

func (f *fakeTours) Stats(ctx context.Context) ([]models.TourStats, error) {
	return f.StatsFunc(ctx)
}

func (f *fakeTours) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	return f.MonthlyPlanFunc(ctx, year)
}

type fakeReviews struct {
	fakeResource[models.Review]
}

type fakeUsers struct {
	fakeResource[models.User]

	UpdateMeFunc func(ctx context.Context, user models.User, update models.ProfileUpdate) (models.User, error)
	DeleteMeFunc func(ctx context.Context, user models.User) error
}

func (f *fakeUsers) UpdateMe(ctx context.Context, user models.User, update models.ProfileUpdate) (models.User, error) {
	return f.UpdateMeFunc(ctx, user, update)
}

func (f *fakeUsers) DeleteMe(ctx context.Context, user models.User) error {
	return f.DeleteMeFunc(ctx, user)
}

type fakeAuth struct {
	SignupFunc         func(ctx context.Context, req models.SignupRequest) (models.User, models.Token, error)
	LoginFunc          func(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error)
	ProtectFunc        func(ctx context.Context, tokenString string) (models.User, error)
	RestrictToFunc     func(user models.User, roles ...string) error
	ForgotPasswordFunc func(ctx context.Context, email string, resetURL func(token string) string) error
	ResetPasswordFunc  func(ctx context.Context, token string, req models.PasswordReset) (models.User, models.Token, error)
	UpdatePasswordFunc func(ctx context.Context, user models.User, req models.PasswordUpdate) (models.User, models.Token, error)
}

func (f *fakeAuth) Signup(ctx context.Context, req models.SignupRequest) (models.User, models.Token, error) {
	return f.SignupFunc(ctx, req)
}

func (f *fakeAuth) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error) {
	return f.LoginFunc(ctx, req)
}

func (f *fakeAuth) Protect(ctx context.Context, tokenString string) (models.User, error) {
	return f.ProtectFunc(ctx, tokenString)
}

// RestrictTo defaults to a plain role check when no function is set.
func (f *fakeAuth) RestrictTo(user models.User, roles ...string) error {
	if f.RestrictToFunc != nil {
		return f.RestrictToFunc(user, roles...)
	}
	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return service.ErrForbidden
}

func (f *fakeAuth) ForgotPassword(ctx context.Context, email string, resetURL func(token string) string) error {
	return f.ForgotPasswordFunc(ctx, email, resetURL)
}

func (f *fakeAuth) ResetPassword(ctx context.Context, token string, req models.PasswordReset) (models.User, models.Token, error) {
	return f.ResetPasswordFunc(ctx, token, req)
}

func (f *fakeAuth) UpdatePassword(ctx context.Context, user models.User, req models.PasswordUpdate) (models.User, models.Token, error) {
	return f.UpdatePasswordFunc(ctx, user, req)
}

func (f *fakeAuth) CreateToken(context.Context, models.User) (models.Token, error) {
	return models.Token{SignedString: "signed"}, nil
}

func (f *fakeAuth) ParseToken(context.Context, string) (models.Token, error) {
	return models.Token{}, nil
}

type fakeAppInfo struct {
	info models.AppInfo
}

func (f fakeAppInfo) GetAppInfo(context.Context) models.AppInfo { return f.info }

// testServices bundles the fakes behind one handler.
type testServices struct {
	auth    *fakeAuth
	tours   *fakeTours
	reviews *fakeReviews
	users   *fakeUsers
}

func newTestServices() *testServices {
	return &testServices{
		auth:    &fakeAuth{},
		tours:   &fakeTours{fakeResource: fakeResource[models.Tour]{descriptor: store.TourDescriptor}},
		reviews: &fakeReviews{fakeResource: fakeResource[models.Review]{descriptor: store.ReviewDescriptor}},
		users:   &fakeUsers{fakeResource: fakeResource[models.User]{descriptor: store.UserDescriptor}},
	}
}

func (s *testServices) services() *service.Services {
	return &service.Services{
		AuthService:    s.auth,
		TourService:    s.tours,
		ReviewService:  s.reviews,
		UserService:    s.users,
		AppInfoService: fakeAppInfo{info: models.AppInfo{Version: "1.2.3", Environment: config.EnvDevelopment}},
	}
}

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App: config.App{
			Env:           config.EnvDevelopment,
			CookieExpires: 24 * time.Hour,
		},
		Server: config.Server{
			RequestTimeout: 5 * time.Second,
		},
		Security: config.Security{
			RateLimit:  100,
			RateWindow: time.Hour,
			BodyLimit:  10 << 10,
		},
	}
}

func newTestHandler(t *testing.T, svc *testServices, mutate ...func(*config.StructuredConfig)) *Handler {
	t.Helper()

	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	return NewHandler(svc.services(), cfg, logger.Nop())
}
