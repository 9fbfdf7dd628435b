package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/internal/store"
	"github.com/MKhiriev/go-natours/internal/validators"
)

// Observer is notified after a successful write with the documents it
// touched: the created or deleted document, or the previous and the new
// version of an updated one.
type Observer[T any] func(ctx context.Context, affected ...T) error

// Hooks are the explicit per-resource side effects of a [ResourceService].
// Every hook is optional.
type Hooks[T any] struct {
	// Prepare runs on the decoded document before validation, on create and
	// on update.
	Prepare func(ctx context.Context, t *T, creating bool) error
	// Populate attaches related data to documents returned by Get and List.
	Populate func(ctx context.Context, items []T) error
	// PopulateOne attaches related data to the document returned by Get.
	PopulateOne func(ctx context.Context, t *T) error
	// Observers run after every successful write. Their failures are logged
	// and do not fail the write.
	Observers []Observer[T]
}

type resourceService[T any] struct {
	repo      store.Repository[T]
	validator validators.Validator
	hooks     Hooks[T]
	logger    *logger.Logger
}

// NewResourceService returns the generic service over repo.
func NewResourceService[T any](repo store.Repository[T], validator validators.Validator, hooks Hooks[T], log *logger.Logger) ResourceService[T] {
	return &resourceService[T]{repo: repo, validator: validator, hooks: hooks, logger: log}
}

func (s *resourceService[T]) Descriptor() *store.Descriptor[T] {
	return s.repo.Descriptor()
}

// Create decodes body into a new document, lets Prepare fill it in,
// validates it and stores it.
func (s *resourceService[T]) Create(ctx context.Context, body json.RawMessage) (T, error) {
	log := logger.FromContext(ctx)

	var t, zero T
	if err := decodeDocument(body, &t); err != nil {
		return zero, err
	}
	s.repo.Descriptor().KeepGenerated(&t, &zero)

	if s.hooks.Prepare != nil {
		if err := s.hooks.Prepare(ctx, &t, true); err != nil {
			return zero, err
		}
	}

	if err := s.validator.Validate(ctx, &t); err != nil {
		return zero, err
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		log.Err(err).Str("table", s.repo.Descriptor().Table).Msg("error creating document")
		return zero, err
	}

	s.notify(ctx, created)
	return created, nil
}

func (s *resourceService[T]) Get(ctx context.Context, id string) (T, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return t, err
	}

	if s.hooks.Populate != nil {
		items := []T{t}
		if err = s.hooks.Populate(ctx, items); err != nil {
			return t, err
		}
		t = items[0]
	}
	if s.hooks.PopulateOne != nil {
		if err = s.hooks.PopulateOne(ctx, &t); err != nil {
			return t, err
		}
	}

	return t, nil
}

// List runs the query features of params within scope. It also returns the
// projected JSON field names.
func (s *resourceService[T]) List(ctx context.Context, params query.Params, scope Scope) ([]T, []string, error) {
	where, err := s.repo.Descriptor().Match(scope)
	if err != nil {
		return nil, nil, err
	}

	items, fields, err := s.repo.Find(ctx, params, where)
	if err != nil {
		return nil, nil, err
	}

	if s.hooks.Populate != nil && len(items) > 0 {
		if err = s.hooks.Populate(ctx, items); err != nil {
			return nil, nil, err
		}
	}

	return items, fields, nil
}

// Update merges patch into the stored document, re-validates the merged
// document and writes it back in one transaction. Generated fields keep
// their stored values.
func (s *resourceService[T]) Update(ctx context.Context, id string, patch json.RawMessage) (T, error) {
	var before T
	updated, err := s.repo.Update(ctx, id, func(current *T) error {
		before = *current

		if err := decodeDocument(patch, current); err != nil {
			return err
		}
		s.repo.Descriptor().KeepGenerated(current, &before)

		if s.hooks.Prepare != nil {
			if err := s.hooks.Prepare(ctx, current, false); err != nil {
				return err
			}
		}

		return s.validator.Validate(ctx, current)
	})
	if err != nil {
		return updated, err
	}

	s.notify(ctx, before, updated)
	return updated, nil
}

func (s *resourceService[T]) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.notify(ctx, deleted)
	return nil
}

func (s *resourceService[T]) notify(ctx context.Context, affected ...T) {
	for _, observe := range s.hooks.Observers {
		if err := observe(ctx, affected...); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("table", s.repo.Descriptor().Table).
				Msg("post-write observer failed")
		}
	}
}

// decodeDocument unmarshals a JSON object onto t. Fields absent from body
// keep their current value. A value of the wrong JSON type is reported as a
// validation failure of that field.
func decodeDocument[T any](body json.RawMessage, t *T) error {
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidDataProvided)
	}

	err := json.Unmarshal(body, t)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return validators.NewValidationError(typeErr.Field,
			fmt.Sprintf("Invalid %s: expected a %s value", typeErr.Field, jsonKind(typeErr.Type.Kind().String())))
	}

	return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
}

func jsonKind(goKind string) string {
	switch goKind {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "float32", "float64":
		return "number"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "list"
	case "struct", "map":
		return "object"
	default:
		return goKind
	}
}
