package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ResourceValidator validates the models registered in ruleSets.
type ResourceValidator struct {
	v        *validator.Validate
	messages map[reflect.Type]map[string]string
}

// NewResourceValidator constructs a [ResourceValidator] and returns it as the
// Validator interface.
func NewResourceValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return lowerFirst(f.Name)
		}
		return name
	})

	_ = v.RegisterValidation("alphaspace", isAlphaSpace)

	rv := &ResourceValidator{v: v, messages: make(map[reflect.Type]map[string]string, len(ruleSets))}
	for _, rs := range ruleSets {
		v.RegisterStructValidationMapRules(rs.rules, rs.value)
		rv.messages[reflect.TypeOf(rs.value)] = rs.messages
	}

	return rv
}

// Validate checks v, which must be a registered model or a pointer to one.
// When fields are given only those Go struct fields are checked.
func (rv *ResourceValidator) Validate(ctx context.Context, v any, fields ...string) error {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return ErrUnsupportedType
		}
		val = val.Elem()
	}

	messages, ok := rv.messages[val.Type()]
	if !ok {
		return ErrUnsupportedType
	}

	var err error
	if len(fields) > 0 {
		err = rv.v.StructPartialCtx(ctx, val.Interface(), fields...)
	} else {
		err = rv.v.StructCtx(ctx, val.Interface())
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("error validating %s: %w", val.Type().Name(), err)
	}

	out := &ValidationError{Violations: make([]FieldViolation, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, FieldViolation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(messages, fe),
		})
	}

	return out
}

func message(messages map[string]string, fe validator.FieldError) string {
	tmpl, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		return fmt.Sprintf("Field %s failed on the '%s' rule", fe.Field(), fe.Tag())
	}
	if strings.Contains(tmpl, "%v") {
		return fmt.Sprintf(tmpl, deref(fe.Value()))
	}
	return tmpl
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}

// isAlphaSpace accepts letters and spaces only.
func isAlphaSpace(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r != ' ' && !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
