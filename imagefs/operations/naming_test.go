package operations_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/eventhub/imagefs/operations"
)

func TestStagedPathFormat(t *testing.T) {
	store := newStore(t)
	names := operations.NewNameGenerator(store, fixedClock)

	p, err := names.StagedPath(t.Context(), "public", "activity", "png")
	require.NoError(t, err)
	assert.Equal(t, "public/original/activity-1772366400000.png", p)
}

func TestStagedPathSkipsTakenNames(t *testing.T) {
	tests := []struct {
		name  string
		taken string
	}{
		{name: "staging file of a running upload", taken: "public/original/profileImage-1772366400000.jpg"},
		{name: "committed compressed variant", taken: "public/compressed/profileImage-1772366400000.jpg"},
		{name: "orphaned miniature variant", taken: "public/miniature/profileImage-1772366400000.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			ctx := t.Context()
			_, err := store.Upload(ctx, tt.taken, strings.NewReader("x"))
			require.NoError(t, err)

			p, err := operations.NewNameGenerator(store, fixedClock).StagedPath(ctx, "public", "profileImage", "jpg")
			require.NoError(t, err)
			assert.Equal(t, "public/original/profileImage-1772366400001.jpg", p)
		})
	}
}

func TestStagedPathConcurrentCallsAreUnique(t *testing.T) {
	store := newStore(t)
	names := operations.NewNameGenerator(store, fixedClock)

	const n = 64
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := names.StagedPath(t.Context(), "public", "event", "jpg")
			assert.NoError(t, err)
			paths[i] = p
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, p := range paths {
		seen[p] = struct{}{}
	}
	assert.Len(t, seen, n)
}
