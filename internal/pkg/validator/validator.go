package validator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

type createKey struct{}

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(fieldName)
	// create_required demands a value only when the context comes from
	// ForCreate. Updates leave nil fields untouched.
	_ = validate.RegisterValidationCtx("create_required", func(ctx context.Context, fl validator.FieldLevel) bool {
		if create, _ := ctx.Value(createKey{}).(bool); !create {
			return true
		}
		switch f := fl.Field(); f.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
			return !f.IsNil()
		default:
			return f.IsValid()
		}
	}, true)
}

// ForCreate marks ctx so that create_required fields must be present.
func ForCreate(ctx context.Context) context.Context {
	return context.WithValue(ctx, createKey{}, true)
}

// fieldName reports fields by their json or form name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string)
	for _, err := range verrs {
		errs[err.Field()] = err.Tag()
	}
	return errs
}

// Messages flattens struct validation failures into human readable lines in
// field order. Services append them to their own rule violations.
func Messages(ctx context.Context, v interface{}) []string {
	err := validate.StructCtx(ctx, v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	label := Label(fe.Field())
	switch fe.Tag() {
	case "required", "create_required":
		return label + " must not be null."
	case "gt":
		if fe.Param() == "0" {
			return label + " must be a positive number."
		}
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	case "gte", "min":
		if fe.Param() == "0" && !isText(fe) {
			return label + " must not be negative."
		}
		if isText(fe) {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "lte", "max":
		if isText(fe) {
			return fmt.Sprintf("%s must not exceed %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s.", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("Invalid %s: %v", strings.ToLower(label), fe.Value())
	case "email":
		return label + " must be a valid email address."
	case "alphanum":
		return label + " must consist of letters or digits."
	case "datetime":
		if fe.Param() == "2006-01-02" {
			return label + " must be a date in YYYY-MM-DD format."
		}
		if fe.Param() == "15:04" {
			return label + " must use HH:MM."
		}
		return fmt.Sprintf("%s must match the format %s.", label, fe.Param())
	default:
		return fmt.Sprintf("%s must satisfy %s.", label, fe.Tag())
	}
}

func isText(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}

// Label turns a json field name such as room_id into "Room ID".
func Label(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		switch {
		case w == "id":
			words[i] = "ID"
		case i == 0 && w != "":
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
