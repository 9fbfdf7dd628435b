package store

import (
	"context"
	"fmt"
	"math"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/models"
)

// TourDescriptor maps [models.Tour] onto the tours table. Secret tours are
// never visible through it.
var TourDescriptor = &Descriptor[models.Tour]{
	Table: "tours",
	Fields: []Field[models.Tour]{
		field("id", "id", query.KindUUID, func(t *models.Tour) *uuid.UUID { return &t.ID }, generated()),
		field("name", "name", query.KindString, func(t *models.Tour) *string { return &t.Name }),
		field("slug", "slug", query.KindString, func(t *models.Tour) *string { return &t.Slug }),
		field("duration", "duration", query.KindInt, func(t *models.Tour) *int { return &t.Duration }),
		field("maxGroupSize", "max_group_size", query.KindInt, func(t *models.Tour) *int { return &t.MaxGroupSize }),
		field("difficulty", "difficulty", query.KindString, func(t *models.Tour) *string { return &t.Difficulty }),
		field("ratingsAverage", "ratings_average", query.KindFloat, func(t *models.Tour) *float64 { return &t.RatingsAverage }),
		field("ratingsQuantity", "ratings_quantity", query.KindInt, func(t *models.Tour) *int { return &t.RatingsQuantity }),
		field("price", "price", query.KindFloat, func(t *models.Tour) *float64 { return &t.Price }),
		field("priceDiscount", "price_discount", query.KindFloat, func(t *models.Tour) **float64 { return &t.PriceDiscount }),
		field("summary", "summary", query.KindString, func(t *models.Tour) *string { return &t.Summary }),
		field("description", "description", query.KindString, func(t *models.Tour) *string { return &t.Description }),
		field("imageCover", "image_cover", query.KindString, func(t *models.Tour) *string { return &t.ImageCover }),
		field("images", "images", query.KindList, func(t *models.Tour) *models.JSONList[string] { return &t.Images }),
		field("startDates", "start_dates", query.KindList, func(t *models.Tour) *models.JSONList[time.Time] { return &t.StartDates }),
		field("secretTour", "secret_tour", query.KindBool, func(t *models.Tour) *bool { return &t.SecretTour }),
		field("createdAt", "created_at", query.KindTime, func(t *models.Tour) *time.Time { return &t.CreatedAt }, hidden(), generated()),
	},
	Scope: sq.NotEq{"secret_tour": true},
	Order: "created_at DESC",
	Multi: []string{"duration", "ratingsQuantity", "ratingsAverage", "maxGroupSize", "difficulty", "price"},
}

type tourRepository struct {
	*sqlRepository[models.Tour]
}

// NewTourRepository constructs a [TourRepository].
func NewTourRepository(db *DB, log *logger.Logger) TourRepository {
	return &tourRepository{newSQLRepository(db, TourDescriptor, log)}
}

// Stats groups tours rated at least minRating by upper-cased difficulty,
// cheapest group first.
func (r *tourRepository) Stats(ctx context.Context, minRating float64) ([]models.TourStats, error) {
	log := logger.FromContext(ctx)

	stmt, args, err := psql.Select(
		"UPPER(difficulty) AS difficulty",
		"COUNT(*) AS num_tours",
		"COALESCE(SUM(ratings_quantity), 0) AS num_ratings",
		"AVG(ratings_average) AS avg_rating",
		"AVG(price) AS avg_price",
		"MIN(price) AS min_price",
		"MAX(price) AS max_price",
	).
		From(r.desc.Table).
		Where(r.desc.scoped(sq.GtOrEq{"ratings_average": minRating})).
		GroupBy("UPPER(difficulty)").
		OrderBy("avg_price ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).Str("func", "*tourRepository.Stats").Msg("error aggregating tour stats")
		return nil, mapError(err)
	}
	defer rows.Close()

	stats := make([]models.TourStats, 0)
	for rows.Next() {
		var s models.TourStats
		if err = rows.Scan(&s.Difficulty, &s.NumTours, &s.NumRatings, &s.AvgRating, &s.AvgPrice, &s.MinPrice, &s.MaxPrice); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return stats, nil
}

// MonthlyPlan counts the tour starts of each month of year, busiest month
// first, at most twelve rows.
func (r *tourRepository) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	log := logger.FromContext(ctx)

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	stmt, args, err := psql.Select(
		"EXTRACT(MONTH FROM sd.value::timestamptz)::int AS month",
		"COUNT(*) AS num_tour_starts",
		"json_agg(t.name ORDER BY t.name) AS tours",
	).
		From("tours t, jsonb_array_elements_text(t.start_dates) AS sd(value)").
		Where(sq.And{
			sq.NotEq{"t.secret_tour": true},
			sq.Expr("sd.value::timestamptz >= ?", from),
			sq.Expr("sd.value::timestamptz <= ?", to),
		}).
		GroupBy("month").
		OrderBy("num_tour_starts DESC", "month ASC").
		Limit(12).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Err(err).Str("func", "*tourRepository.MonthlyPlan").Int("year", year).Msg("error aggregating monthly plan")
		return nil, mapError(err)
	}
	defer rows.Close()

	plan := make([]models.MonthlyPlan, 0, 12)
	for rows.Next() {
		var p models.MonthlyPlan
		var tours models.JSONList[string]
		if err = rows.Scan(&p.Month, &p.NumTourStarts, &tours); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		p.Tours = tours
		plan = append(plan, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return plan, nil
}

// SetRatings stores the review aggregate of a tour. A tour without reviews
// gets zero ratings and the default average.
func (r *tourRepository) SetRatings(ctx context.Context, ratings models.TourRatings) error {
	avg := models.DefaultRatingsAverage
	if ratings.Quantity > 0 {
		avg = math.Round(ratings.Average*10) / 10
	}

	stmt, args, err := psql.Update(r.desc.Table).
		Set("ratings_quantity", ratings.Quantity).
		Set("ratings_average", avg).
		Where(sq.Eq{"id": ratings.TourID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, stmt, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*tourRepository.SetRatings").Msg("error updating tour ratings")
		return mapError(err)
	}

	return nil
}
