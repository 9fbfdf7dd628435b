package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Repository is the storage contract shared by every resource.
type Repository[T any] interface {
	Descriptor() *Descriptor[T]
	Create(ctx context.Context, t T) (T, error)
	FindByID(ctx context.Context, id string) (T, error)
	FindOne(ctx context.Context, where sq.Sqlizer) (T, error)
	FindAll(ctx context.Context, where sq.Sqlizer) ([]T, error)
	Find(ctx context.Context, params query.Params, scope sq.Sqlizer) ([]T, []string, error)
	Update(ctx context.Context, id string, mutate func(*T) error) (T, error)
	Delete(ctx context.Context, id string) (T, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// UserRepository stores user accounts. Inactive users are outside its scope.
type UserRepository interface {
	Repository[models.User]
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error)
	Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error)
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// TourRepository stores tours. Secret tours are outside its scope.
type TourRepository interface {
	Repository[models.Tour]
	Stats(ctx context.Context, minRating float64) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error)
	SetRatings(ctx context.Context, ratings models.TourRatings) error
}

// ReviewRepository stores reviews.
type ReviewRepository interface {
	Repository[models.Review]
	CalcRatings(ctx context.Context, tourID uuid.UUID) (models.TourRatings, error)
}
