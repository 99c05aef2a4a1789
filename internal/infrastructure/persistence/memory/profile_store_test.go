package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wodplate/v2/internal/domain/nutrition"
)

func TestProfileStore(t *testing.T) {
	store := NewProfileStore()
	ctx := context.Background()

	// A miss is (nil, nil), never an error.
	entry, err := store.Get(ctx, "banana")
	require.NoError(t, err)
	assert.Nil(t, entry)

	original := nutrition.Entry{
		NormalizedName: "banana",
		Profile:        nutrition.Profile{Calories: 89, ProteinG: 1.1, CarbsG: 22.8, FatG: 0.3},
		SourceID:       "173944",
		LastUpdated:    time.Now().UTC(),
	}
	require.NoError(t, store.Upsert(ctx, original))

	entry, err = store.Get(ctx, "banana")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, original, *entry)

	// Upsert overwrites the whole entry, timestamp included.
	refreshed := original
	refreshed.Profile.Calories = 90
	refreshed.LastUpdated = original.LastUpdated.Add(time.Hour)
	require.NoError(t, store.Upsert(ctx, refreshed))

	entry, err = store.Get(ctx, "banana")
	require.NoError(t, err)
	assert.Equal(t, refreshed, *entry)
}
