package val_test

import (
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/eventhub/val"
)

type createEventRequest struct {
	Title       string `form:"title"       validate:"required,notblank,max=200"`
	Description string `form:"description" validate:"max=2000"`
	Variant     string `query:"variant"    validate:"image_variant"`
	Quality     int    `json:"quality"     validate:"gte=0,lte=100"`
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name       string
		req        createEventRequest
		wantFields map[string]string
	}{
		{
			name: "valid",
			req:  createEventRequest{Title: "Launch", Variant: "miniature", Quality: 50},
		},
		{
			name:       "missing title",
			req:        createEventRequest{},
			wantFields: map[string]string{"title": "This field is required"},
		},
		{
			name:       "blank title",
			req:        createEventRequest{Title: "   "},
			wantFields: map[string]string{"title": "Must not be blank"},
		},
		{
			name: "original variant is not readable",
			req:  createEventRequest{Title: "x", Variant: "original", Quality: 101},
			wantFields: map[string]string{
				"variant": "Must be one of: compressed, miniature",
				"quality": "Must be less than or equal to 100",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := val.ValidateSchema(tt.req)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, val.CodeValidationFailed))
			e := errx.AsErrorX(err)
			assert.Equal(t, errx.T_Validation, e.Type())
			for field, desc := range tt.wantFields {
				assert.Equal(t, desc, e.Fields()[field], field)
			}
			assert.Len(t, e.Fields(), len(tt.wantFields))
		})
	}
}

func TestIsReadableVariant(t *testing.T) {
	assert.True(t, val.IsReadableVariant(""))
	assert.True(t, val.IsReadableVariant("compressed"))
	assert.True(t, val.IsReadableVariant("MINIATURE"))
	assert.False(t, val.IsReadableVariant("original"))
	assert.False(t, val.IsReadableVariant("thumbnail"))
}

type pageRequest struct {
	Sort   string `query:"sort"   validate:"max=5"`
	Size   int    `query:"size"   validate:"min=1"`
	Order  string `query:"order"  validate:"omitempty,oneof=asc desc"`
	Prefix string `query:"prefix" validate:"omitempty,startswith=/"`
}

func TestFieldDescriptions(t *testing.T) {
	err := val.ValidateSchema(pageRequest{Sort: "too long", Size: 0, Order: "up", Prefix: "metrics"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"sort":   "Must be at most 5 characters",
		"size":   "Must be at least 1",
		"order":  "Must be one of: asc, desc",
		"prefix": "Must start with: /",
	}, map[string]string(errx.AsErrorX(err).Fields()))
}
