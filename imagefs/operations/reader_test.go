package operations_test

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/eventhub/imagefs/operations"
	"github.com/rise-and-shine/eventhub/imagefs/types"
	"github.com/rise-and-shine/eventhub/logger"
)

func TestReaderInline(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	compressed := []byte("compressed-bytes")
	miniature := []byte("mini")
	_, err := store.Upload(ctx, "public/compressed/user-1.jpg", bytes.NewReader(compressed))
	require.NoError(t, err)
	_, err = store.Upload(ctx, "public/miniature/user-1.jpg", bytes.NewReader(miniature))
	require.NoError(t, err)
	_, err = store.Upload(ctx, "public/compressed/user-2.jpg", bytes.NewReader(compressed))
	require.NoError(t, err)

	r := operations.NewReader(store, logger.Nop())

	tests := []struct {
		name      string
		reference string
		variant   types.Variant
		want      *string
	}{
		{
			name:      "compressed variant",
			reference: "image/jpeg:public/compressed/user-1.jpg",
			variant:   types.Compressed,
			want:      ptr("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(compressed)),
		},
		{
			name:      "no variant reads the referenced file",
			reference: "image/jpeg:public/compressed/user-1.jpg",
			want:      ptr("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(compressed)),
		},
		{
			name:      "miniature variant",
			reference: "image/jpeg:public/compressed/user-1.jpg",
			variant:   types.Miniature,
			want:      ptr("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(miniature)),
		},
		{
			name:      "missing miniature yields nil",
			reference: "image/jpeg:public/compressed/user-2.jpg",
			variant:   types.Miniature,
		},
		{
			name:      "empty reference yields nil",
			reference: "",
			variant:   types.Compressed,
		},
		{
			name:      "malformed reference yields nil",
			reference: "no-delimiter-here",
			variant:   types.Compressed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Inline(ctx, tt.reference, tt.variant)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestDataURI(t *testing.T) {
	uri := operations.DataURI("image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.Equal(t, "data:image/png;base64,iVBORw==", uri)
}

func ptr(s string) *string { return &s }
