package chaos

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingPublisher struct {
	mu    sync.Mutex
	calls int
}

func (c *countingPublisher) Publish(context.Context, string, string, any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil
}

func TestParseProfile(t *testing.T) {
	dropPct, delayMin, delayMax, err := ParseProfile("drop-pct=30,delay=50-250")
	require.NoError(t, err)
	assert.Equal(t, 30, dropPct)
	assert.Equal(t, 50, delayMin)
	assert.Equal(t, 250, delayMax)

	_, _, _, err = ParseProfile("drop-pct=abc")
	assert.Error(t, err)

	dropPct, delayMin, delayMax, err = ParseProfile("")
	require.NoError(t, err)
	assert.Zero(t, dropPct)
	assert.Zero(t, delayMin)
	assert.Zero(t, delayMax)
}

func TestMaybeDrop_Disabled(t *testing.T) {
	c := New(&Config{Enabled: false, DropPct: 100, Seed: 1}, zap.NewNop())

	for i := 0; i < 10; i++ {
		assert.False(t, c.MaybeDrop("publish:test"))
	}
}

func TestMaybeDrop_AlwaysDrop(t *testing.T) {
	c := New(&Config{Enabled: true, DropPct: 100, Seed: 1}, zap.NewNop())

	for i := 0; i < 10; i++ {
		assert.True(t, c.MaybeDrop("publish:test"))
	}
}

func TestWrappedPublisher_DropSurfacesAsError(t *testing.T) {
	next := &countingPublisher{}
	pub := WrapPublisher(next, New(&Config{Enabled: true, DropPct: 100, Seed: 1}, zap.NewNop()))

	err := pub.Publish(context.Background(), "orders.responses", "k", "v")
	require.ErrorIs(t, err, ErrDropped)
	assert.Zero(t, next.calls)
}

func TestWrappedPublisher_PassThrough(t *testing.T) {
	next := &countingPublisher{}
	pub := WrapPublisher(next, New(&Config{Enabled: false}, zap.NewNop()))

	require.NoError(t, pub.Publish(context.Background(), "orders.responses", "k", "v"))
	assert.Equal(t, 1, next.calls)
}
