// Package validate checks values against their declared `validate` tags and
// reports failures with English messages keyed by the json/yaml field name.
package validate

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	err := en_translations.RegisterDefaultTranslations(validate, translator)
	if err != nil {
		panic(err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "yaml"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}

		return fld.Name
	})
}

// Struct validates the provided model against its declared tags.
func Struct(val any) error {
	if err := validate.Struct(val); err != nil {
		return fieldErrors(err, "")
	}

	return nil
}

// Var validates a single value against tag. name labels the value in the
// returned FieldErrors.
func Var(name string, field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return fieldErrors(err, name)
	}

	return nil
}

func fieldErrors(err error, name string) error {
	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return err
	}

	var fields FieldErrors
	for _, verror := range verrors {
		field := FieldError{
			Field: verror.Field(),
			Err:   customErrForTag(verror.Tag(), verror),
		}
		if name != "" {
			// Translations of unnamed values start with an empty placeholder.
			field.Field = name
			if strings.HasPrefix(field.Err, " ") {
				field.Err = name + field.Err
			}
		}
		fields = append(fields, field)
	}

	return fields
}

// FieldError is the failure of a single field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	d, err := json.Marshal(fe)
	if err != nil {
		return err.Error()
	}
	return string(d)
}

// Fields returns the errors keyed by field name.
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string, len(fe))
	for _, f := range fe {
		m[f.Field] = f.Err
	}

	return m
}

// IsFieldErrors reports whether err is or wraps FieldErrors.
func IsFieldErrors(err error) bool {
	var fe FieldErrors
	return errors.As(err, &fe)
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return "This field is required"
	default:
		return verror.Translate(translator)
	}
}
