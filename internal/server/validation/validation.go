// Package validation checks request input structs with go-playground
// validator tags and reports the first failing field as a
// *common.ValidationError.
//
// The message for a failure is read from the field's `msg_<tag>` struct tag,
// falling back to `msg`. Field names come from the `form` tag.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/knowledgehub/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct validates s, which must be a struct or a pointer to one.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return common.NewValidationError(fe.Field(), message(s, fe))
}

func message(s any, fe validator.FieldError) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if f, ok := t.FieldByName(fe.StructField()); ok {
		if m := f.Tag.Get("msg_" + fe.Tag()); m != "" {
			return m
		}
		if m := f.Tag.Get("msg"); m != "" {
			return m
		}
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
