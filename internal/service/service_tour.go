package service

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/internal/validators"
	"github.com/MKhiriev/go-natours/models"
)

// StatsMinRating is the rating threshold of the tour statistics.
const StatsMinRating = 4.5

type tourService struct {
	ResourceService[models.Tour]

	tours  store.TourRepository
	logger *logger.Logger
}

// NewTourService builds the tour service. Tours get their slug from the name
// before every save and carry their reviews on single reads.
func NewTourService(tours store.TourRepository, reviews store.ReviewRepository, users store.UserRepository, validator validators.Validator, log *logger.Logger) TourService {
	hooks := Hooks[models.Tour]{
		Prepare:     prepareTour,
		PopulateOne: populateTourReviews(reviews, users),
	}

	return &tourService{
		ResourceService: NewResourceService[models.Tour](tours, validator, hooks, log),
		tours:           tours,
		logger:          log,
	}
}

func prepareTour(_ context.Context, t *models.Tour, creating bool) error {
	t.Slug = utils.Slugify(t.Name)
	if creating && t.RatingsAverage == 0 {
		t.RatingsAverage = models.DefaultRatingsAverage
	}
	return nil
}

func populateTourReviews(reviews store.ReviewRepository, users store.UserRepository) func(ctx context.Context, t *models.Tour) error {
	withAuthors := populateAuthors(users)

	return func(ctx context.Context, t *models.Tour) error {
		items, err := reviews.FindAll(ctx, sq.Eq{"tour_id": t.ID})
		if err != nil {
			return fmt.Errorf("error loading tour reviews: %w", err)
		}
		if err = withAuthors(ctx, items); err != nil {
			return err
		}

		t.Reviews = items
		return nil
	}
}

// Stats aggregates the well-rated tours by difficulty.
func (s *tourService) Stats(ctx context.Context) ([]models.TourStats, error) {
	return s.tours.Stats(ctx, StatsMinRating)
}

// MonthlyPlan lists how many tours start in each month of year.
func (s *tourService) MonthlyPlan(ctx context.Context, year int) ([]models.MonthlyPlan, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d is out of range", ErrInvalidDataProvided, year)
	}
	return s.tours.MonthlyPlan(ctx, year)
}
