package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/model"
)

func TestLoader_SuccessAndError(t *testing.T) {
	l := NewLoader()
	assert.Equal(t, StateIdle, l.Snapshot().State)

	listing, applied, err := l.Load(context.Background(), func(context.Context) ([]model.MenuItem, error) {
		return sampleItems(), nil
	}, Filters{})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, listing.Items, 2)
	assert.Equal(t, StateSuccess, l.Snapshot().State)

	boom := errors.New("unreachable")
	_, applied, err = l.Load(context.Background(), func(context.Context) ([]model.MenuItem, error) {
		return nil, boom
	}, Filters{})
	assert.ErrorIs(t, err, boom)
	assert.True(t, applied)
	snap := l.Snapshot()
	assert.Equal(t, StateError, snap.State)
	assert.Nil(t, snap.Listing)
}

func TestLoader_DiscardsCancelledLoad(t *testing.T) {
	l := NewLoader()
	ctx, cancel := context.WithCancel(context.Background())

	_, applied, err := l.Load(ctx, func(context.Context) ([]model.MenuItem, error) {
		cancel()
		return sampleItems(), nil
	}, Filters{})

	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, StateLoading, l.Snapshot().State)
}

func TestLoader_DiscardsSupersededLoad(t *testing.T) {
	l := NewLoader()
	ctx := context.Background()

	var innerApplied bool
	_, outerApplied, _ := l.Load(ctx, func(context.Context) ([]model.MenuItem, error) {
		_, innerApplied, _ = l.Load(ctx, func(context.Context) ([]model.MenuItem, error) {
			return sampleItems()[:1], nil
		}, Filters{})
		return sampleItems(), nil
	}, Filters{})

	assert.True(t, innerApplied)
	assert.False(t, outerApplied)
	snap := l.Snapshot()
	assert.Equal(t, StateSuccess, snap.State)
	assert.Len(t, snap.Listing.Items, 1)
	assert.Equal(t, uint64(2), snap.Generation)
}
