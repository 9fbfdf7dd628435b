// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Difficulty levels accepted for a tour.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// DefaultRatingsAverage is the rating a tour carries before it has any review.
const DefaultRatingsAverage = 4.5

// Tour is a bookable tour.
//
// CreatedAt is hidden from list responses unless explicitly requested via the
// `fields` query parameter; SecretTour tours are never returned by any find.
type Tour struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Slug            string              `json:"slug"`
	Duration        int                 `json:"duration"`
	MaxGroupSize    int                 `json:"maxGroupSize"`
	Difficulty      string              `json:"difficulty"`
	RatingsAverage  float64             `json:"ratingsAverage"`
	RatingsQuantity int                 `json:"ratingsQuantity"`
	Price           float64             `json:"price"`
	PriceDiscount   *float64            `json:"priceDiscount,omitempty"`
	Summary         string              `json:"summary"`
	Description     string              `json:"description,omitempty"`
	ImageCover      string              `json:"imageCover"`
	Images          JSONList[string]    `json:"images"`
	StartDates      JSONList[time.Time] `json:"startDates"`
	SecretTour      bool                `json:"secretTour"`
	CreatedAt       time.Time           `json:"createdAt"`

	// Reviews is attached on single-tour reads only.
	Reviews []Review `json:"reviews,omitempty"`
}

// DurationWeeks is the tour duration expressed in weeks.
func (t Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

// MarshalJSON adds the durationWeeks virtual field.
func (t Tour) MarshalJSON() ([]byte, error) {
	type plain Tour
	return json.Marshal(struct {
		plain
		DurationWeeks float64 `json:"durationWeeks"`
	}{
		plain:         plain(t),
		DurationWeeks: t.DurationWeeks(),
	})
}

// TourStats is one row of the per-difficulty tour statistics.
type TourStats struct {
	Difficulty string  `json:"difficulty"`
	NumTours   int     `json:"numTours"`
	NumRatings int     `json:"numRatings"`
	AvgRating  float64 `json:"avgRating"`
	AvgPrice   float64 `json:"avgPrice"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

// MonthlyPlan lists the tours starting in a given month.
type MonthlyPlan struct {
	Month         int      `json:"month"`
	NumTourStarts int      `json:"numTourStarts"`
	Tours         []string `json:"tours"`
}
