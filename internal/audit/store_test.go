package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wajahat414/Forex-Order-Managment-Service/internal/order"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func storeOrder(id string) order.OrderRequest {
	return order.OrderRequest{
		OrderID:  id,
		ClientID: "CLIENT_A",
		Symbol:   "EURUSD",
		Side:     order.SideBuy,
		Type:     order.TypeLimit,
		Quantity: 1000,
		Price:    1.10,
	}
}

func TestRecord_FirstWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	dup, err := store.Record(ctx, storeOrder("S1"), order.StatusRouted, "ok", 1000)
	require.NoError(t, err)
	assert.False(t, dup)

	// a second record for the same order_id is ignored and flagged
	dup, err = store.Record(ctx, storeOrder("S1"), order.StatusRejected, "late", 2000)
	require.NoError(t, err)
	assert.True(t, dup)

	outcome, found, err := store.Outcome(ctx, "S1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, order.StatusRouted, outcome.Status)
	assert.Equal(t, "ok", outcome.Reason)
	assert.Equal(t, int64(1000), outcome.FirstSeenUnixMillis)
}

func TestSeen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seen, err := store.Seen(ctx, "S2")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = store.Record(ctx, storeOrder("S2"), order.StatusRejected, "Position limit exceeded for EURUSD", 1000)
	require.NoError(t, err)

	seen, err = store.Seen(ctx, "S2")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestOutcome_Missing(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Outcome(context.Background(), "never-recorded")
	require.NoError(t, err)
	assert.False(t, found)
}
