package store

import "github.com/MKhiriev/go-natours/internal/logger"

// Storages aggregates every repository backed by one database.
type Storages struct {
	Users   UserRepository
	Tours   TourRepository
	Reviews ReviewRepository
}

// NewStorages builds the repositories on top of db.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Users:   NewUserRepository(db, log),
		Tours:   NewTourRepository(db, log),
		Reviews: NewReviewRepository(db, log),
	}
}
