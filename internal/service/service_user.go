package service

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/validators"
	"github.com/MKhiriev/go-natours/models"
)

type userService struct {
	ResourceService[models.User]

	users     store.UserRepository
	validator validators.Validator
	logger    *logger.Logger
}

// NewUserService builds the user service used by the admin routes and the
// self-service endpoints.
func NewUserService(users store.UserRepository, validator validators.Validator, log *logger.Logger) UserService {
	hooks := Hooks[models.User]{Prepare: prepareUser}

	return &userService{
		ResourceService: NewResourceService[models.User](users, validator, hooks, log),
		users:           users,
		validator:       validator,
		logger:          log,
	}
}

func prepareUser(_ context.Context, u *models.User, creating bool) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if creating {
		applyUserDefaults(u)
	}
	return nil
}

func applyUserDefaults(u *models.User) {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Photo == "" {
		u.Photo = models.DefaultPhoto
	}
	u.Active = true
}

// UpdateMe changes the name and email of user. Nothing else can change here.
func (s *userService) UpdateMe(ctx context.Context, user models.User, update models.ProfileUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	return s.users.Update(ctx, user.ID.String(), func(current *models.User) error {
		if update.Name != nil {
			current.Name = strings.TrimSpace(*update.Name)
		}
		if update.Email != nil {
			current.Email = strings.ToLower(strings.TrimSpace(*update.Email))
		}

		if err := s.validator.Validate(ctx, current, "Name", "Email"); err != nil {
			log.Debug().Err(err).Str("user_id", user.ID.String()).Msg("profile update rejected")
			return err
		}
		return nil
	})
}

// DeleteMe deactivates user. Deactivated users are invisible to every read
// and can no longer log in.
func (s *userService) DeleteMe(ctx context.Context, user models.User) error {
	_, err := s.users.Update(ctx, user.ID.String(), func(current *models.User) error {
		current.Active = false
		return nil
	})
	return err
}
