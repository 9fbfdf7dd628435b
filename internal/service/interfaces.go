package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/models"
)

// Scope narrows a list to documents whose JSON fields equal the given raw
// values, e.g. {"tour": "<id>"} for the reviews of one tour.
type Scope map[string]string

// ResourceService is the generic create/read/update/delete contract behind
// the handler factory.
type ResourceService[T any] interface {
	Descriptor() *store.Descriptor[T]
	Create(ctx context.Context, body json.RawMessage) (T, error)
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, params query.Params, scope Scope) ([]T, []string, error)
	Update(ctx context.Context, id string, patch json.RawMessage) (T, error)
	Delete(ctx context.Context, id string) error
}

type TourService interface {
	ResourceService[models.Tour]
	Stats(ctx context.Context) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error)
}

type ReviewService interface {
	ResourceService[models.Review]
}

type UserService interface {
	ResourceService[models.User]
	UpdateMe(ctx context.Context, user models.User, update models.ProfileUpdate) (models.User, error)
	DeleteMe(ctx context.Context, user models.User) error
}

type AuthService interface {
	Signup(ctx context.Context, req models.SignupRequest) (models.User, models.Token, error)
	Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error)
	Protect(ctx context.Context, tokenString string) (models.User, error)
	RestrictTo(user models.User, roles ...string) error
	ForgotPassword(ctx context.Context, email string, resetURL func(token string) string) error
	ResetPassword(ctx context.Context, token string, req models.PasswordReset) (models.User, models.Token, error)
	UpdatePassword(ctx context.Context, user models.User, req models.PasswordUpdate) (models.User, models.Token, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.AppInfo
}

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time
