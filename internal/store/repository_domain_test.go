package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/models"
)

func TestTourRepository_Stats(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTourRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT UPPER\(difficulty\) AS difficulty, .+ FROM tours WHERE \(secret_tour <> \$1 AND ratings_average >= \$2\) GROUP BY UPPER\(difficulty\) ORDER BY avg_price ASC`).
		WithArgs(true, 4.5).
		WillReturnRows(sqlmock.NewRows([]string{"difficulty", "num_tours", "num_ratings", "avg_rating", "avg_price", "min_price", "max_price"}).
			AddRow("EASY", 4, 26, 4.7, 1272.0, 397.0, 1997.0).
			AddRow("MEDIUM", 3, 20, 4.8, 1663.0, 497.0, 2997.0))

	stats, err := repo.Stats(context.Background(), 4.5)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "EASY", stats[0].Difficulty)
	assert.Equal(t, 4, stats[0].NumTours)
	assert.Equal(t, 26, stats[0].NumRatings)
	assert.InDelta(t, 1997.0, stats[0].MaxPrice, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_MonthlyPlan(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTourRepository(db, logger.Nop())

	from := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, time.December, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM tours t, jsonb_array_elements_text\(t.start_dates\) AS sd\(value\) WHERE .+ GROUP BY month ORDER BY num_tour_starts DESC, month ASC LIMIT 12`).
		WithArgs(true, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"month", "num_tour_starts", "tours"}).
			AddRow(7, 3, []byte(`["The Sea Explorer","The Park Camper","The Sports Lover"]`)).
			AddRow(3, 2, []byte(`["The Forest Hiker","The Sea Explorer"]`)))

	plan, err := repo.MonthlyPlan(context.Background(), 2021)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, 7, plan[0].Month)
	assert.Equal(t, 3, plan[0].NumTourStarts)
	assert.Equal(t, []string{"The Sea Explorer", "The Park Camper", "The Sports Lover"}, plan[0].Tours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTourRepository_SetRatings(t *testing.T) {
	tests := []struct {
		name    string
		ratings models.TourRatings
		wantQty int
		wantAvg float64
	}{
		{name: "rounded average", ratings: models.TourRatings{Quantity: 3, Average: 4.666666}, wantQty: 3, wantAvg: 4.7},
		{name: "no reviews resets to defaults", ratings: models.TourRatings{Quantity: 0, Average: 0}, wantQty: 0, wantAvg: 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := NewTourRepository(db, logger.Nop())
			tt.ratings.TourID = uuid.New()

			mock.ExpectExec(regexp.QuoteMeta("UPDATE tours SET ratings_quantity = $1, ratings_average = $2 WHERE id = $3")).
				WithArgs(tt.wantQty, tt.wantAvg, tt.ratings.TourID.String()).
				WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, repo.SetRatings(context.Background(), tt.ratings))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewRepository_CalcRatings(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewReviewRepository(db, logger.Nop())
	tourID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(AVG(rating), 0) FROM reviews WHERE tour_id = $1")).
		WithArgs(tourID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count", "avg"}).AddRow(2, 4.5))

	ratings, err := repo.CalcRatings(context.Background(), tourID)
	require.NoError(t, err)
	assert.Equal(t, tourID, ratings.TourID)
	assert.Equal(t, 2, ratings.Quantity)
	assert.InDelta(t, 4.5, ratings.Average, 0.001)
}

func TestUserRepository_FindByEmailNormalizes(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery(`FROM users WHERE \(active = \$1 AND email = \$2\)`).
		WithArgs(true, "jonas@example.io").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByEmail(context.Background(), "  Jonas@Example.IO ")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByResetToken(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewUserRepository(db, logger.Nop())
	now := time.UnixMilli(1_700_000_000_000)

	mock.ExpectQuery(`FROM users WHERE \(active = \$1 AND \(password_reset_token = \$2 AND password_reset_expires > \$3\)\)`).
		WithArgs(true, "hash", now.UnixMilli()).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByResetToken(context.Background(), "hash", now)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Summaries(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewUserRepository(db, logger.Nop())
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, photo FROM users WHERE id IN ($1,$2)")).
		WithArgs(a.String(), b.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "photo"}).
			AddRow(a.String(), "Lourdes", "user-2.jpg").
			AddRow(b.String(), "Sophie", "user-3.jpg"))

	got, err := repo.Summaries(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	assert.Equal(t, "Lourdes", got[a].Name)
	assert.Equal(t, "user-3.jpg", got[b].Photo)

	empty, err := repo.Summaries(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ClearExpiredResetTokens(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewUserRepository(db, logger.Nop())
	now := time.UnixMilli(1_700_000_000_000)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_reset_token = $1, password_reset_expires = $2 WHERE (password_reset_token IS NOT NULL AND password_reset_expires <= $3)")).
		WithArgs(nil, nil, now.UnixMilli()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.ClearExpiredResetTokens(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
