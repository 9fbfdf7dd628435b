package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/models"
)

// UserDescriptor maps [models.User] onto the users table. Credentials are
// private: they are persisted but never reachable from list parameters.
// Deactivated users are invisible to every query.
var UserDescriptor = &Descriptor[models.User]{
	Table: "users",
	Fields: []Field[models.User]{
		field("id", "id", query.KindUUID, func(u *models.User) *uuid.UUID { return &u.ID }, generated()),
		field("name", "name", query.KindString, func(u *models.User) *string { return &u.Name }),
		field("email", "email", query.KindString, func(u *models.User) *string { return &u.Email }),
		field("photo", "photo", query.KindString, func(u *models.User) *string { return &u.Photo }),
		field("role", "role", query.KindString, func(u *models.User) *string { return &u.Role }),
		field("password", "password", query.KindString, func(u *models.User) *string { return &u.Password }, private()),
		field("passwordChangedAt", "password_changed_at", query.KindTime, func(u *models.User) **time.Time { return &u.PasswordChangedAt }, private()),
		field("passwordResetToken", "password_reset_token", query.KindString, func(u *models.User) **string { return &u.PasswordResetToken }, private()),
		field("passwordResetExpires", "password_reset_expires", query.KindInt, func(u *models.User) **int64 { return &u.PasswordResetExpires }, private()),
		field("active", "active", query.KindBool, func(u *models.User) *bool { return &u.Active }, private()),
		field("createdAt", "created_at", query.KindTime, func(u *models.User) *time.Time { return &u.CreatedAt }, hidden(), generated()),
	},
	Scope: sq.Eq{"active": true},
	Order: "created_at DESC",
	Multi: []string{"role"},
}

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
type userRepository struct {
	*sqlRepository[models.User]
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, log *logger.Logger) UserRepository {
	return &userRepository{newSQLRepository(db, UserDescriptor, log)}
}

// FindByEmail looks up an active user by email, case-insensitively.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.FindOne(ctx, sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

// FindByResetToken returns the user holding tokenHash, provided the token has
// not expired at now.
func (r *userRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (models.User, error) {
	return r.FindOne(ctx, sq.And{
		sq.Eq{"password_reset_token": tokenHash},
		sq.Gt{"password_reset_expires": now.UnixMilli()},
	})
}

// Summaries returns the public profile of each listed user that exists.
func (r *userRepository) Summaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error) {
	out := make(map[uuid.UUID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	stmt, args, err := psql.Select("id", "name", "photo").
		From(r.desc.Table).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.Summaries").Msg("error selecting user summaries")
		return nil, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.UserSummary
		if err = rows.Scan(&s.ID, &s.Name, &s.Photo); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		out[s.ID] = s
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return out, nil
}

// ClearExpiredResetTokens removes reset tokens that expired before now and
// reports how many users were affected.
func (r *userRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	stmt, args, err := psql.Update(r.desc.Table).
		Set("password_reset_token", nil).
		Set("password_reset_expires", nil).
		Where(sq.And{
			sq.NotEq{"password_reset_token": nil},
			sq.LtOrEq{"password_reset_expires": now.UnixMilli()},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.ClearExpiredResetTokens").Msg("error clearing reset tokens")
		return 0, mapError(err)
	}

	return res.RowsAffected()
}
