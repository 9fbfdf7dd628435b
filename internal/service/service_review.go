package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/validators"
	"github.com/MKhiriev/go-natours/models"
)

type reviewService struct {
	ResourceService[models.Review]
}

// NewReviewService builds the review service. Every read attaches the
// author, every write recomputes the ratings of the affected tours.
func NewReviewService(reviews store.ReviewRepository, tours store.TourRepository, users store.UserRepository, validator validators.Validator, log *logger.Logger) ReviewService {
	hooks := Hooks[models.Review]{
		Populate:  populateAuthors(users),
		Observers: []Observer[models.Review]{RatingsObserver(reviews, tours)},
	}

	return &reviewService{NewResourceService[models.Review](reviews, validator, hooks, log)}
}

// RatingsObserver recomputes ratingsQuantity and ratingsAverage of every tour
// referenced by the affected reviews.
func RatingsObserver(reviews store.ReviewRepository, tours store.TourRepository) Observer[models.Review] {
	return func(ctx context.Context, affected ...models.Review) error {
		seen := make(map[uuid.UUID]struct{}, len(affected))
		for _, r := range affected {
			if r.Tour == uuid.Nil {
				continue
			}
			if _, ok := seen[r.Tour]; ok {
				continue
			}
			seen[r.Tour] = struct{}{}

			ratings, err := reviews.CalcRatings(ctx, r.Tour)
			if err != nil {
				return fmt.Errorf("error calculating ratings of tour %s: %w", r.Tour, err)
			}
			if err = tours.SetRatings(ctx, ratings); err != nil {
				return fmt.Errorf("error storing ratings of tour %s: %w", r.Tour, err)
			}
		}
		return nil
	}
}

// populateAuthors attaches the public profile of each review's author.
func populateAuthors(users store.UserRepository) func(ctx context.Context, items []models.Review) error {
	return func(ctx context.Context, items []models.Review) error {
		ids := make([]uuid.UUID, 0, len(items))
		for _, r := range items {
			if r.User != uuid.Nil {
				ids = append(ids, r.User)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		summaries, err := users.Summaries(ctx, ids)
		if err != nil {
			return fmt.Errorf("error loading review authors: %w", err)
		}

		for i := range items {
			if s, ok := summaries[items[i].User]; ok {
				items[i].Author = &s
			}
		}
		return nil
	}
}
