package model

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// report json field names instead of go field names
	validate.RegisterTagNameFunc(
		func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		},
	)
}

// validateStruct runs the struct tag validation and converts failures into a
// ValidationError
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationError{Message: err.Error()}
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs[i] = fe.Field() + " is required"
		case "email":
			msgs[i] = fe.Field() + " must be a valid email address"
		case "url":
			msgs[i] = fe.Field() + " must be a valid url"
		case "min", "max":
			msgs[i] = fe.Field() + " must have a length " + fe.Tag() + " " + fe.Param()
		default:
			msgs[i] = fe.Field() + " is invalid"
		}
	}
	return ValidationError{Message: strings.Join(msgs, "; ")}
}
