package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySaleStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySaleStore()
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	coffee := NewProduct("prod_coffee", "Coffee", 4)

	sales := DailySales(start, 5, 4, coffee)
	sales[1].UserID = "user_a"
	require.NoError(t, store.Add(ctx, sales...))

	t.Run("window filter", func(t *testing.T) {
		got, err := store.List(ctx, &types.SaleFilter{StartTime: start.AddDate(0, 0, 1), EndTime: start.AddDate(0, 0, 3)})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "sale_day_001", got[0].ID)
		assert.Equal(t, "sale_day_003", got[2].ID)
	})

	t.Run("user filter", func(t *testing.T) {
		got, err := store.List(ctx, &types.SaleFilter{UserID: "user_a"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "sale_day_001", got[0].ID)
		assert.Equal(t, "user_a", store.LastFilter().UserID)
	})

	t.Run("returned sales are copies", func(t *testing.T) {
		got, err := store.List(ctx, &types.SaleFilter{})
		require.NoError(t, err)
		got[0].Items[0].Product.Name = "changed"

		again, err := store.List(ctx, &types.SaleFilter{})
		require.NoError(t, err)
		assert.Equal(t, "Coffee", again[0].Items[0].Product.Name)
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := store.Add(ctx, sales[0])
		require.Error(t, err)
		assert.True(t, ierr.Is(err, ierr.ErrAlreadyExists))
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := store.List(ctx, &types.SaleFilter{StartTime: start, EndTime: start.Add(-time.Hour)})
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestInMemorySaleStore_TimeBoundsAndFailures(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySaleStore()

	bounds, err := store.GetTimeBounds(ctx, "")
	require.NoError(t, err)
	assert.True(t, bounds.IsEmpty())

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Add(ctx, DailySales(start, 3, 10, NewProduct("p", "P", 10))...))

	bounds, err = store.GetTimeBounds(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, start, bounds.Oldest)
	assert.Equal(t, start.AddDate(0, 0, 2), bounds.Newest)

	store.PingErr = errors.New("connection refused")
	assert.True(t, ierr.IsConnectivity(store.Ping(ctx)))

	store.BoundsErr = errors.New("timeout")
	_, err = store.GetTimeBounds(ctx, "")
	assert.True(t, ierr.Is(err, ierr.ErrDatabase))

	store.Clear()
	assert.Nil(t, store.LastFilter())
}
