package val

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/code19m/errx"
	"github.com/go-playground/validator/v10"
)

// CodeValidationFailed is the code of every error returned by ValidateSchema.
const CodeValidationFailed = "VALIDATION_FAILED"

type describeFunc func(fe validator.FieldError) string

func fixed(msg string) describeFunc {
	return func(validator.FieldError) string { return msg }
}

func withParam(format string) describeFunc {
	return func(fe validator.FieldError) string { return fmt.Sprintf(format, fe.Param()) }
}

// sized words a bound as a length for strings and as a value otherwise.
func sized(prefix string) describeFunc {
	return func(fe validator.FieldError) string {
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s %s characters", prefix, fe.Param())
		}
		return fmt.Sprintf("%s %s", prefix, fe.Param())
	}
}

//nolint:gochecknoglobals // read-only lookup table
var descriptions = map[string]describeFunc{
	"required":    fixed("This field is required"),
	"required_if": fixed("This field is required"),
	"email":       fixed("Invalid email format"),
	"uuid":        fixed("Must be a valid UUID"),
	"url":         fixed("Must be a valid URL"),
	"min":         sized("Must be at least"),
	"max":         sized("Must be at most"),
	"len":         sized("Must be exactly"),
	"gt":          withParam("Must be greater than %s"),
	"gte":         withParam("Must be greater than or equal to %s"),
	"lt":          withParam("Must be less than %s"),
	"lte":         withParam("Must be less than or equal to %s"),
	"ltefield":    withParam("Must not be greater than %s"),
	"startswith":  withParam("Must start with: %s"),
	"oneof": func(fe validator.FieldError) string {
		return "Must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	},
	tagNotBlank:     fixed("Must not be blank"),
	tagImageVariant: fixed("Must be one of: compressed, miniature"),
}

// ValidateSchema checks schema against its `validate` tags.
// Failures come back as one VALIDATION_FAILED error whose fields are keyed by the
// name the client sent, see getTagName.
func ValidateSchema(schema any) error {
	err := getValidator().Struct(schema)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errx.Wrap(err, errx.WithCode(CodeValidationFailed), errx.WithType(errx.T_Validation))
	}

	fields := make(errx.M, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = describe(fe)
	}

	return errx.New(
		"Validation failed. See fields for details.",
		errx.WithCode(CodeValidationFailed),
		errx.WithType(errx.T_Validation),
		errx.WithFields(fields),
	)
}

func describe(fe validator.FieldError) string {
	if d, ok := descriptions[fe.Tag()]; ok {
		return d(fe)
	}
	return "Failed validation: " + fe.Tag()
}
