package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/query"
	"github.com/MKhiriev/go-natours/internal/service"
	"github.com/MKhiriev/go-natours/internal/utils"
	"github.com/MKhiriev/go-natours/models"
)

// virtualFields are computed JSON keys that only make sense while the field
// they are derived from is projected.
var virtualFields = map[string]string{
	"durationWeeks": "duration",
}

// ScopeFunc derives the list scope of a request, e.g. the parent tour of a
// nested review route. A nil result means no scope.
type ScopeFunc func(r *http.Request) service.Scope

// PrefillFunc returns values for fields a create body leaves out.
type PrefillFunc func(r *http.Request) map[string]any

// Factory builds the five CRUD handlers of one resource.
type Factory[T any] struct {
	h       *Handler
	service service.ResourceService[T]
}

func NewFactory[T any](h *Handler, svc service.ResourceService[T]) *Factory[T] {
	return &Factory[T]{h: h, service: svc}
}

// CreateOne answers 201 with the stored document.
func (f *Factory[T]) CreateOne(prefill PrefillFunc) http.HandlerFunc {
	return f.h.catch(func(w http.ResponseWriter, r *http.Request) error {
		body, err := readBody(r)
		if err != nil {
			return err
		}
		if prefill != nil {
			if body, err = withDefaults(body, prefill(r)); err != nil {
				return err
			}
		}

		doc, err := f.service.Create(r.Context(), body)
		if err != nil {
			return err
		}

		out, err := f.render(doc)
		if err != nil {
			return err
		}

		_, err = utils.WriteJSON(w, models.Success(map[string]any{"data": out}), http.StatusCreated)
		return err
	})
}

// GetOne answers 200 with the document named by the id URL parameter.
func (f *Factory[T]) GetOne() http.HandlerFunc {
	return f.h.catch(func(w http.ResponseWriter, r *http.Request) error {
		doc, err := f.service.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return err
		}

		out, err := f.render(doc)
		if err != nil {
			return err
		}

		_, err = utils.WriteJSON(w, models.Success(map[string]any{"data": out}), http.StatusOK)
		return err
	})
}

// GetAll runs the list query features of the request URL within scope and
// answers with the projected documents and their count.
func (f *Factory[T]) GetAll(scope ScopeFunc) http.HandlerFunc {
	return f.h.catch(func(w http.ResponseWriter, r *http.Request) error {
		var s service.Scope
		if scope != nil {
			s = scope(r)
		}

		items, fields, err := f.service.List(r.Context(), query.Params(r.URL.Query()), s)
		if err != nil {
			return err
		}

		docs, err := project(items, fields, f.service.Descriptor().FieldNames())
		if err != nil {
			return err
		}

		logger.FromRequest(r).Debug().Int("count", len(docs)).Msg("documents listed")

		_, err = utils.WriteJSON(w, models.SuccessList(map[string]any{"data": docs}, len(docs)), http.StatusOK)
		return err
	})
}

// UpdateOne merges the request body into the document and answers 200 with
// the result.
func (f *Factory[T]) UpdateOne() http.HandlerFunc {
	return f.h.catch(func(w http.ResponseWriter, r *http.Request) error {
		body, err := readBody(r)
		if err != nil {
			return err
		}

		doc, err := f.service.Update(r.Context(), chi.URLParam(r, "id"), body)
		if err != nil {
			return err
		}

		out, err := f.render(doc)
		if err != nil {
			return err
		}

		_, err = utils.WriteJSON(w, models.Success(map[string]any{"data": out}), http.StatusOK)
		return err
	})
}

// DeleteOne answers 204 with an empty body.
func (f *Factory[T]) DeleteOne() http.HandlerFunc {
	return f.h.catch(func(w http.ResponseWriter, r *http.Request) error {
		if err := f.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			return err
		}

		_, err := utils.WriteJSON(w, nil, http.StatusNoContent)
		return err
	})
}

func readBody(r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading request body: %w", err)
	}
	return body, nil
}

// render projects a single document to the default fields, dropping the
// hidden ones.
func (f *Factory[T]) render(doc T) (map[string]any, error) {
	desc := f.service.Descriptor()
	docs, err := project([]T{doc}, desc.DefaultFields(), desc.FieldNames())
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// withDefaults sets every key of defaults that body does not carry.
func withDefaults(body json.RawMessage, defaults map[string]any) (json.RawMessage, error) {
	doc := map[string]any{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err)
		}
	}

	for k, v := range defaults {
		if cur, ok := doc[k]; !ok || cur == nil || cur == "" {
			doc[k] = v
		}
	}

	return json.Marshal(doc)
}

// project renders items as JSON objects restricted to fields. Keys that are
// not stored fields, such as attached authors, are kept.
func project[T any](items []T, fields, stored []string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("error encoding document: %w", err)
		}

		var doc map[string]any
		if err = json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("error encoding document: %w", err)
		}

		for key := range doc {
			if len(fields) == 0 {
				break
			}
			if slices.Contains(stored, key) && !slices.Contains(fields, key) {
				delete(doc, key)
			}
			if source, ok := virtualFields[key]; ok && !slices.Contains(fields, source) {
				delete(doc, key)
			}
		}
		out = append(out, doc)
	}

	return out, nil
}
