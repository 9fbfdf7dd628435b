// Package service holds the business rules of the natours API: the generic
// resource service behind the handler factory, the tour, review and user
// services and the authentication flows.
package service

import (
	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/mailer"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/validators"
)

type Services struct {
	AuthService    AuthService
	TourService    TourService
	ReviewService  ReviewService
	UserService    UserService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, m mailer.Mailer, cfg config.StructuredConfig, logger *logger.Logger, opts ...AuthOption) (*Services, error) {
	validator := validators.NewResourceValidator()

	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    NewAuthService(storages.Users, m, validator, cfg.App, logger, opts...),
		TourService:    NewTourService(storages.Tours, storages.Reviews, storages.Users, validator, logger),
		ReviewService:  NewReviewService(storages.Reviews, storages.Tours, storages.Users, validator, logger),
		UserService:    NewUserService(storages.Users, validator, logger),
		AppInfoService: appInfo,
	}, nil
}
