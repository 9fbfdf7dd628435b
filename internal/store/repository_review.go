package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/models"
)

// ReviewDescriptor maps [models.Review] onto the reviews table.
var ReviewDescriptor = &Descriptor[models.Review]{
	Table: "reviews",
	Fields: []Field[models.Review]{
		field("id", "id", query.KindUUID, func(r *models.Review) *uuid.UUID { return &r.ID }, generated()),
		field("review", "review", query.KindString, func(r *models.Review) *string { return &r.Review }),
		field("rating", "rating", query.KindInt, func(r *models.Review) *int { return &r.Rating }),
		field("tour", "tour_id", query.KindUUID, func(r *models.Review) *uuid.UUID { return &r.Tour }),
		field("user", "user_id", query.KindUUID, func(r *models.Review) *uuid.UUID { return &r.User }),
		field("createdAt", "created_at", query.KindTime, func(r *models.Review) *time.Time { return &r.CreatedAt }, generated()),
	},
	Order: "created_at DESC",
	Multi: []string{"rating"},
}

type reviewRepository struct {
	*sqlRepository[models.Review]
}

// NewReviewRepository constructs a [ReviewRepository].
func NewReviewRepository(db *DB, log *logger.Logger) ReviewRepository {
	return &reviewRepository{newSQLRepository(db, ReviewDescriptor, log)}
}

// CalcRatings aggregates the rating count and mean of a tour's reviews.
func (r *reviewRepository) CalcRatings(ctx context.Context, tourID uuid.UUID) (models.TourRatings, error) {
	ratings := models.TourRatings{TourID: tourID}

	stmt, args, err := psql.Select("COUNT(*)", "COALESCE(AVG(rating), 0)").
		From(r.desc.Table).
		Where(sq.Eq{"tour_id": tourID}).
		ToSql()
	if err != nil {
		return ratings, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.QueryRowContext(ctx, stmt, args...).Scan(&ratings.Quantity, &ratings.Average); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*reviewRepository.CalcRatings").Msg("error aggregating ratings")
		return ratings, mapError(err)
	}

	return ratings, nil
}
