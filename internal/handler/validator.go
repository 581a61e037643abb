package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/hotel-management/internal/model"
)

// RequestValidator checks `validate` struct tags on request DTOs.  It is
// installed as echo's Validator so handlers call c.Validate.
type RequestValidator struct {
	v *validator.Validate
}

func NewValidator() *RequestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate returns a *model.ValidationError keyed by JSON field names.
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return err
	}
	out := &model.ValidationError{}
	for _, fe := range fields {
		out.Add(fe.Field(), message(fe))
	}
	return out.OrNil()
}

func message(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	case "min":
		if numeric {
			return "Ensure this value is greater than or equal to " + fe.Param() + "."
		}
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "max":
		if numeric {
			return "Ensure this value is less than or equal to " + fe.Param() + "."
		}
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "gt":
		return "Ensure this value is greater than " + fe.Param() + "."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	}
	return "Invalid value."
}
