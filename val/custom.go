package val

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rise-and-shine/eventhub/imagefs/types"
)

const (
	tagNotBlank     = "notblank"
	tagImageVariant = "image_variant"
)

func registerCustomValidations(v *validator.Validate) {
	_ = v.RegisterValidation(tagNotBlank, func(fl validator.FieldLevel) bool {
		return IsNotBlank(fl.Field().String())
	})
	_ = v.RegisterValidation(tagImageVariant, func(fl validator.FieldLevel) bool {
		return IsReadableVariant(fl.Field().String())
	})
}

// IsNotBlank reports whether s has any non-whitespace character.
func IsNotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsReadableVariant reports whether s names a variant clients may request.
// Empty input selects the default variant.
func IsReadableVariant(s string) bool {
	if s == "" {
		return true
	}
	v, err := types.ParseVariant(s)
	return err == nil && v != types.Original
}
