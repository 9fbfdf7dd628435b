// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package seed loads and removes the development fixtures of tours, users and
// reviews.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/service"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/models"
)

// Fixture file names inside the data directory.
const (
	ToursFile   = "tours.json"
	UsersFile   = "users.json"
	ReviewsFile = "reviews.json"
)

var ErrNoFixtures = errors.New("no fixtures to import")

// User is a fixture account. Unlike [models.User] it carries a plain password.
type User struct {
	models.User
	Password string `json:"password"`
}

// Data is the full fixture set.
type Data struct {
	Tours   []models.Tour
	Users   []User
	Reviews []models.Review
}

// Load reads every fixture file present in fsys. Missing files are skipped.
func Load(fsys fs.FS) (Data, error) {
	var data Data
	if err := readFixture(fsys, ToursFile, &data.Tours); err != nil {
		return Data{}, err
	}
	if err := readFixture(fsys, UsersFile, &data.Users); err != nil {
		return Data{}, err
	}
	if err := readFixture(fsys, ReviewsFile, &data.Reviews); err != nil {
		return Data{}, err
	}

	if len(data.Tours)+len(data.Users)+len(data.Reviews) == 0 {
		return Data{}, ErrNoFixtures
	}
	return data, nil
}

func readFixture(fsys fs.FS, name string, dst any) error {
	raw, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading %s: %w", name, err)
	}
	if err = json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("error decoding %s: %w", name, err)
	}
	return nil
}

// Seeder writes fixtures through the repositories.
type Seeder struct {
	storages   *store.Storages
	bcryptCost int
	now        func() time.Time
	logger     *logger.Logger
}

func NewSeeder(storages *store.Storages, bcryptCost int, log *logger.Logger) *Seeder {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{
		storages:   storages,
		bcryptCost: bcryptCost,
		now:        time.Now,
		logger:     log,
	}
}

// Import creates users, then tours, then reviews, and finally recomputes the
// ratings of every reviewed tour. Fixture passwords are hashed and every
// imported user is active.
func (s *Seeder) Import(ctx context.Context, data Data) error {
	now := s.now()

	for _, u := range data.Users {
		user := u.User
		if u.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
			if err != nil {
				return fmt.Errorf("error hashing password of %s: %w", user.Email, err)
			}
			user.Password = string(hash)
		}
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		if user.Photo == "" {
			user.Photo = models.DefaultPhoto
		}
		user.Active = true
		if user.CreatedAt.IsZero() {
			user.CreatedAt = now
		}

		if _, err := s.storages.Users.Create(ctx, user); err != nil {
			return fmt.Errorf("error importing user %s: %w", user.Email, err)
		}
	}

	for _, tour := range data.Tours {
		if tour.Slug == "" {
			tour.Slug = utils.Slugify(tour.Name)
		}
		if tour.CreatedAt.IsZero() {
			tour.CreatedAt = now
		}

		if _, err := s.storages.Tours.Create(ctx, tour); err != nil {
			return fmt.Errorf("error importing tour %q: %w", tour.Name, err)
		}
	}

	created := make([]models.Review, 0, len(data.Reviews))
	for _, review := range data.Reviews {
		if review.CreatedAt.IsZero() {
			review.CreatedAt = now
		}

		stored, err := s.storages.Reviews.Create(ctx, review)
		if err != nil {
			return fmt.Errorf("error importing review %s: %w", review.ID, err)
		}
		created = append(created, stored)
	}

	if err := service.RatingsObserver(s.storages.Reviews, s.storages.Tours)(ctx, created...); err != nil {
		return err
	}

	s.logger.Info().
		Int("users", len(data.Users)).
		Int("tours", len(data.Tours)).
		Int("reviews", len(data.Reviews)).
		Msg("data successfully loaded")
	return nil
}

// Delete removes every review, tour and user, in that order.
func (s *Seeder) Delete(ctx context.Context) error {
	reviews, err := s.storages.Reviews.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("error deleting reviews: %w", err)
	}
	tours, err := s.storages.Tours.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("error deleting tours: %w", err)
	}
	users, err := s.storages.Users.DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("error deleting users: %w", err)
	}

	s.logger.Info().
		Int64("users", users).
		Int64("tours", tours).
		Int64("reviews", reviews).
		Msg("data successfully deleted")
	return nil
}
