package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a user's rating of a tour. A user can review a given tour once.
type Review struct {
	ID        uuid.UUID `json:"id"`
	Review    string    `json:"review"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	Tour      uuid.UUID `json:"tour"`
	User      uuid.UUID `json:"user"`

	// Author is attached on every read.
	Author *UserSummary `json:"author,omitempty"`
}

// TourRatings is the aggregate of all reviews for one tour.
type TourRatings struct {
	TourID   uuid.UUID
	Quantity int
	Average  float64
}
