// Package val validates request schemas and configuration structs with go-playground/validator
// and turns validation failures into errx validation errors with per-field descriptions.
package val

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

//nolint:gochecknoglobals // the validator caches struct metadata and is safe for concurrent use
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(getTagName)
		registerCustomValidations(validate)
	})
	return validate
}

// getTagName returns the name a client knows a field by.
// It checks 'json', 'form', 'query', 'params' and 'yaml' tags in that order,
// and falls back to the field name.
func getTagName(fld reflect.StructField) string {
	for _, tagName := range []string{"json", "form", "query", "params", "yaml"} {
		name := strings.SplitN(fld.Tag.Get(tagName), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name != "" {
			return name
		}
	}

	return fld.Name
}
