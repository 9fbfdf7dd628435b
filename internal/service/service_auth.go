package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/mailer"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/internal/validators"
	"github.com/MKhiriev/go-natours/models"
)

// authService is the concrete implementation of AuthService.
// It handles signup, credential verification, the JWT lifecycle and the
// password reset flow.
type authService struct {
	userRepository store.UserRepository
	mailer         mailer.Mailer
	validator      validators.Validator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	bcryptCost    int
	resetTokenTTL time.Duration

	// dummyHash is compared against when the email is unknown, so that a
	// failed login costs the same either way.
	dummyHash []byte

	now    Clock
	logger *logger.Logger
}

// AuthOption customizes an auth service.
type AuthOption func(*authService)

// WithClock replaces the wall clock used for token timestamps and reset
// token expiry.
func WithClock(now Clock) AuthOption {
	return func(a *authService) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and Mailer and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, m mailer.Mailer, validator validators.Validator, cfg config.App, log *logger.Logger, opts ...AuthOption) AuthService {
	a := &authService{
		userRepository: userRepository,
		mailer:         m,
		validator:      validator,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		bcryptCost:     cfg.BcryptCost,
		resetTokenTTL:  cfg.ResetTokenTTL,
		now:            time.Now,
		logger:         log,
	}
	for _, opt := range opts {
		opt(a)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("natours-dummy-password"), a.bcryptCost)
	if err != nil {
		log.Warn().Err(err).Msg("error generating dummy password hash")
	}
	a.dummyHash = dummy

	return a
}

// Signup validates req, stores a new user with the "user" role and issues a
// token for it.
func (a *authService) Signup(ctx context.Context, req models.SignupRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, err
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
	}
	applyUserDefaults(&user)

	if err = a.validator.Validate(ctx, user); err != nil {
		return models.User{}, models.Token{}, err
	}

	created, err := a.userRepository.Create(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	token, err := a.CreateToken(ctx, created)
	return created, token, err
}

// Login authenticates by email and password. An unknown email and a wrong
// password fail the same way.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return models.User{}, models.Token{}, ErrMissingCredentials
	}

	user, err := a.userRepository.FindByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Msg("user search by email failed")
			return models.User{}, models.Token{}, fmt.Errorf("user search by email failed: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(req.Password))
		return models.User{}, models.Token{}, ErrWrongCredentials
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Debug().Str("user_id", user.ID.String()).Msg("wrong password")
		return models.User{}, models.Token{}, ErrWrongCredentials
	}

	token, err := a.CreateToken(ctx, user)
	return user, token, err
}

// Protect resolves the user behind tokenString. The token must be valid, its
// user must still be active and must not have changed the password after the
// token was issued.
func (a *authService) Protect(ctx context.Context, tokenString string) (models.User, error) {
	if tokenString == "" {
		return models.User{}, ErrNotLoggedIn
	}

	token, err := a.ParseToken(ctx, tokenString)
	if err != nil {
		return models.User{}, err
	}

	user, err := a.userRepository.FindByID(ctx, token.UserID.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrUserNoLongerExists
		}
		return models.User{}, fmt.Errorf("error loading token user: %w", err)
	}

	if user.ChangedPasswordAfter(token.IssuedAt.Time) {
		return models.User{}, ErrPasswordRecentlyChanged
	}

	return user, nil
}

// RestrictTo fails with ErrForbidden unless user has one of roles.
func (a *authService) RestrictTo(user models.User, roles ...string) error {
	if !slices.Contains(roles, user.Role) {
		return ErrForbidden
	}
	return nil
}

// ForgotPassword stores the hash of a fresh reset token for the user with
// email and mails the link built by resetURL. When the mail cannot be sent
// the reset fields are cleared again.
func (a *authService) ForgotPassword(ctx context.Context, email string, resetURL func(token string) string) error {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoUserWithEmail
		}
		return fmt.Errorf("user search by email failed: %w", err)
	}

	plain, hashed, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}
	expires := a.now().Add(a.resetTokenTTL).UnixMilli()

	if _, err = a.setResetToken(ctx, user, &hashed, &expires); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	link := resetURL(plain)
	msg := mailer.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Your password reset token (valid for %d min)", int(a.resetTokenTTL.Minutes())),
		Body: fmt.Sprintf("Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: %s.\n"+
			"If you didn't forget your password, please ignore this email!", link),
	}

	if err = a.mailer.Send(ctx, msg); err != nil {
		log.Err(err).Str("user_id", user.ID.String()).Msg("error sending reset email")
		if _, rollbackErr := a.setResetToken(ctx, user, nil, nil); rollbackErr != nil {
			log.Err(rollbackErr).Str("user_id", user.ID.String()).Msg("error clearing reset token")
		}
		return fmt.Errorf("%w: %w", ErrSendingResetEmail, err)
	}

	return nil
}

func (a *authService) setResetToken(ctx context.Context, user models.User, hashed *string, expires *int64) (models.User, error) {
	return a.userRepository.Update(ctx, user.ID.String(), func(u *models.User) error {
		u.PasswordResetToken = hashed
		u.PasswordResetExpires = expires
		return nil
	})
}

// ResetPassword sets a new password for the user holding token. The token is
// single use.
func (a *authService) ResetPassword(ctx context.Context, token string, req models.PasswordReset) (models.User, models.Token, error) {
	hashed := utils.HashToken(token)

	user, err := a.userRepository.FindByResetToken(ctx, hashed, a.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, models.Token{}, ErrResetTokenInvalid
		}
		return models.User{}, models.Token{}, fmt.Errorf("user search by reset token failed: %w", err)
	}

	if err = a.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, err
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	updated, err := a.userRepository.Update(ctx, user.ID.String(), func(u *models.User) error {
		// a concurrent reset may have consumed the token already
		if u.PasswordResetToken == nil || *u.PasswordResetToken != hashed ||
			u.PasswordResetExpires == nil || *u.PasswordResetExpires <= a.now().UnixMilli() {
			return ErrResetTokenInvalid
		}

		a.setPassword(u, hash)
		u.PasswordResetToken = nil
		u.PasswordResetExpires = nil
		return nil
	})
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	tok, err := a.CreateToken(ctx, updated)
	return updated, tok, err
}

// UpdatePassword replaces the password of an authenticated user after
// checking the current one.
func (a *authService) UpdatePassword(ctx context.Context, user models.User, req models.PasswordUpdate) (models.User, models.Token, error) {
	current, err := a.userRepository.FindByID(ctx, user.ID.String())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, models.Token{}, ErrUserNoLongerExists
		}
		return models.User{}, models.Token{}, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(current.Password), []byte(req.PasswordCurrent)); err != nil {
		return models.User{}, models.Token{}, ErrWrongCurrentPassword
	}

	if err = a.validator.Validate(ctx, req); err != nil {
		return models.User{}, models.Token{}, err
	}

	hash, err := a.hashPassword(req.Password)
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	updated, err := a.userRepository.Update(ctx, user.ID.String(), func(u *models.User) error {
		a.setPassword(u, hash)
		return nil
	})
	if err != nil {
		return models.User{}, models.Token{}, err
	}

	tok, err := a.CreateToken(ctx, updated)
	return updated, tok, err
}

// CreateToken issues a signed JWT for the given user.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, a.tokenDuration, a.tokenSignKey, a.now())
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string. Expired tokens yield
// ErrTokenExpired, every other failure ErrTokenInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer, a.now)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Msg("token rejected")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		}
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	return token, nil
}

func (a *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// setPassword stores hash and records the change one second in the past, so
// that a token issued within the same second is still accepted.
func (a *authService) setPassword(u *models.User, hash string) {
	changed := a.now().Add(-time.Second)
	u.Password = hash
	u.PasswordChangedAt = &changed
}
