package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	e "github.com/gridkit/olympic-data-apis/errors"
)

var (
	inputValidator *validator.Validate
	trans          ut.Translator
)

func init() {
	inputValidator = validator.New()

	// Report fields with their json names, e.g. "athlete is a required field"
	inputValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(inputValidator, trans)

	_ = inputValidator.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		translator, _ := ut.T("required", fe.Field())
		return translator
	})
}

// Validate checks a value against its validate tags and returns a ValidationError with a
// user facing message when it does not comply.
func Validate(value interface{}) error {
	if err := inputValidator.Struct(value); err != nil {
		return e.TranslateValidatorError(err, trans)
	}
	return nil
}

// ValidateRowFields checks the fields required to insert a row.
func ValidateRowFields(fields RowFields) error {
	return Validate(fields)
}

// ValidateRowPatch checks that a patch keeps the required fields non-empty.
func ValidateRowPatch(patch RowPatch) error {
	for field, value := range map[string]*string{
		FieldAthlete: patch.Athlete,
		FieldCountry: patch.Country,
		FieldSport:   patch.Sport,
	} {
		if value != nil && *value == "" {
			return e.NewValidationError(field + " is a required field")
		}
	}
	return Validate(patch)
}
