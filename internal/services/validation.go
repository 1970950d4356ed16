package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tokopos/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and reports failures as a
// validation error keyed by JSON field path.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(apperror.KindValidation, err, "invalid request")
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[fieldPath(e.Namespace())] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return apperror.ValidationFields("Validation failed", fields)
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
