package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"billing-backend/internal/billing"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of req and converts failures into a
// *billing.ValidationError keyed by JSON field path (e.g.
// "line_items[0].quantity").
func validateStruct(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &billing.ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe.Namespace()), fe.Tag())
	}
	return out.OrNil()
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// merge combines a tag validation error with domain checks.
func merge(err error, extra *billing.ValidationError) error {
	if err == nil {
		return extra.OrNil()
	}
	var verr *billing.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	if extra != nil {
		for f, m := range extra.Fields {
			verr.Add(f, m)
		}
	}
	return verr
}
