package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/query"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sqlRepository is the PostgreSQL implementation of [Repository] for any
// resource with a [Descriptor].
type sqlRepository[T any] struct {
	db     *DB
	desc   *Descriptor[T]
	logger *logger.Logger
}

func newSQLRepository[T any](db *DB, desc *Descriptor[T], log *logger.Logger) *sqlRepository[T] {
	log.Debug().Str("table", desc.Table).Msg("creating repository")
	return &sqlRepository[T]{db: db, desc: desc, logger: log}
}

func (r *sqlRepository[T]) Descriptor() *Descriptor[T] {
	return r.desc
}

// Create inserts t and returns the stored row.
func (r *sqlRepository[T]) Create(ctx context.Context, t T) (T, error) {
	return r.create(ctx, r.db, t)
}

func (r *sqlRepository[T]) create(ctx context.Context, q querier, t T) (T, error) {
	log := logger.FromContext(ctx)

	cols, vals := r.desc.writable(&t, true)
	stmt, args, err := psql.Insert(r.desc.Table).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING " + strings.Join(r.desc.columnNames(), ", ")).
		ToSql()
	if err != nil {
		return t, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var created T
	if err = q.QueryRowContext(ctx, stmt, args...).Scan(r.desc.destinations(&created, r.desc.columnNames())...); err != nil {
		log.Err(err).Str("func", "*sqlRepository.Create").Str("table", r.desc.Table).Msg("error inserting row")
		return t, mapError(err)
	}

	return created, nil
}

// FindByID returns the in-scope row with the given id. A malformed id is a
// [CastError] and an absent one is [ErrNotFound].
func (r *sqlRepository[T]) FindByID(ctx context.Context, id string) (T, error) {
	uid, err := parseID(id)
	if err != nil {
		var zero T
		return zero, err
	}

	return r.FindOne(ctx, sq.Eq{"id": uid})
}

// FindOne returns the first in-scope row matching where.
func (r *sqlRepository[T]) FindOne(ctx context.Context, where sq.Sqlizer) (T, error) {
	return r.findOne(ctx, r.db, where, "")
}

func (r *sqlRepository[T]) findOne(ctx context.Context, q querier, where sq.Sqlizer, suffix string) (T, error) {
	log := logger.FromContext(ctx)

	var t T
	builder := psql.Select(r.desc.columnNames()...).
		From(r.desc.Table).
		Where(r.desc.scoped(where)).
		Limit(1)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	stmt, args, err := builder.ToSql()
	if err != nil {
		return t, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = q.QueryRowContext(ctx, stmt, args...).Scan(r.desc.destinations(&t, r.desc.columnNames())...); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Err(err).Str("func", "*sqlRepository.FindOne").Str("table", r.desc.Table).Msg("error selecting row")
		}
		return t, mapError(err)
	}

	return t, nil
}

// Find runs a list query: filter, sort, field limiting and pagination all
// come from params, scope narrows the result further (e.g. reviews of one
// tour). The returned fields are the JSON names of the projection.
func (r *sqlRepository[T]) Find(ctx context.Context, params query.Params, scope sq.Sqlizer) ([]T, []string, error) {
	log := logger.FromContext(ctx)

	base := psql.Select().From(r.desc.Table).Where(r.desc.scoped(scope))
	features := query.New(base, params, r.desc).
		Filter().
		Sort().
		LimitFields().
		Paginate()

	sel, err := features.Build()
	if err != nil {
		return nil, nil, err
	}

	stmt, args, err := sel.ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	items, err := r.queryRows(ctx, r.db, stmt, args, columnsOf(features))
	if err != nil {
		log.Err(err).Str("func", "*sqlRepository.Find").Str("table", r.desc.Table).Msg("error listing rows")
		return nil, nil, err
	}

	return items, features.Fields(), nil
}

// FindAll returns every in-scope row matching where, in default order.
func (r *sqlRepository[T]) FindAll(ctx context.Context, where sq.Sqlizer) ([]T, error) {
	stmt, args, err := psql.Select(r.desc.columnNames()...).
		From(r.desc.Table).
		Where(r.desc.scoped(where)).
		OrderBy(r.desc.Order, "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryRows(ctx, r.db, stmt, args, r.desc.columnNames())
}

func (r *sqlRepository[T]) queryRows(ctx context.Context, q querier, stmt string, args []any, columns []string) ([]T, error) {
	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var t T
		if err = rows.Scan(r.desc.destinations(&t, columns)...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		items = append(items, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

// Update locks the in-scope row, lets mutate change it and writes every
// writable column back, all in one transaction.
func (r *sqlRepository[T]) Update(ctx context.Context, id string, mutate func(*T) error) (T, error) {
	var updated T
	uid, err := parseID(id)
	if err != nil {
		return updated, err
	}

	err = r.db.inTx(ctx, func(tx *sql.Tx) error {
		current, err := r.findOne(ctx, tx, sq.Eq{"id": uid}, "FOR UPDATE")
		if err != nil {
			return err
		}

		if err = mutate(&current); err != nil {
			return err
		}

		updated, err = r.update(ctx, tx, uid, current)
		return err
	})

	return updated, err
}

func (r *sqlRepository[T]) update(ctx context.Context, q querier, id uuid.UUID, t T) (T, error) {
	log := logger.FromContext(ctx)

	cols, vals := r.desc.writable(&t, false)
	builder := psql.Update(r.desc.Table)
	for i, c := range cols {
		builder = builder.Set(c, vals[i])
	}

	stmt, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(r.desc.columnNames(), ", ")).
		ToSql()
	if err != nil {
		return t, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var out T
	if err = q.QueryRowContext(ctx, stmt, args...).Scan(r.desc.destinations(&out, r.desc.columnNames())...); err != nil {
		log.Err(err).Str("func", "*sqlRepository.Update").Str("table", r.desc.Table).Msg("error updating row")
		return t, mapError(err)
	}

	return out, nil
}

// Delete removes the in-scope row with the given id and returns it.
func (r *sqlRepository[T]) Delete(ctx context.Context, id string) (T, error) {
	log := logger.FromContext(ctx)

	var deleted T
	uid, err := parseID(id)
	if err != nil {
		return deleted, err
	}

	stmt, args, err := psql.Delete(r.desc.Table).
		Where(r.desc.scoped(sq.Eq{"id": uid})).
		Suffix("RETURNING " + strings.Join(r.desc.columnNames(), ", ")).
		ToSql()
	if err != nil {
		return deleted, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.db.QueryRowContext(ctx, stmt, args...).Scan(r.desc.destinations(&deleted, r.desc.columnNames())...); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Err(err).Str("func", "*sqlRepository.Delete").Str("table", r.desc.Table).Msg("error deleting row")
		}
		return deleted, mapError(err)
	}

	return deleted, nil
}

// DeleteAll removes every row of the table regardless of scope.
func (r *sqlRepository[T]) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+r.desc.Table)
	if err != nil {
		return 0, mapError(err)
	}

	return res.RowsAffected()
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, &CastError{Field: "id", Value: id}
	}
	return uid, nil
}

func columnsOf(f *query.Features) []string {
	cols := f.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	if len(names) == 0 {
		names = append(names, "id")
	}
	return names
}
