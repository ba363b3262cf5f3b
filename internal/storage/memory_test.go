package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offerdesk/offerd/pkg/offer"
	"github.com/offerdesk/offerd/pkg/store"
)

func TestInMemoryCRUD(t *testing.T) {
	s := NewInMemoryOfferStore()
	ctx := context.Background()

	o := &offer.Offer{Name: "Tester", Amount: 100, MaximumRides: 100}
	require.NoError(t, s.Create(ctx, o))
	require.NotEmpty(t, o.ID)

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tester", got.Name)

	require.NoError(t, s.Upsert(ctx, &offer.Offer{ID: o.ID, Name: "Changed", Amount: 1, MaximumRides: 2}))
	got, err = s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Name)

	require.NoError(t, s.Delete(ctx, o.ID))
	_, err = s.Get(ctx, o.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInMemoryUpsertInserts(t *testing.T) {
	s := NewInMemoryOfferStore()
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, &offer.Offer{ID: "new-id", Name: "fresh"}))
	got, err := s.Get(ctx, "new-id")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Name)
}

func TestInMemoryListLimit(t *testing.T) {
	s := NewInMemoryOfferStore()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.Create(ctx, &offer.Offer{Name: name}))
	}

	two, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "a", two[0].Name)
	assert.Equal(t, "b", two[1].Name)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestInMemoryDeleteMissing(t *testing.T) {
	s := NewInMemoryOfferStore()
	err := s.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
