package stub

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-launch-alerts/internal/solana"
)

func TestSource_EmitsInOrder(t *testing.T) {
	want := []solana.LogNotification{
		{Signature: "a", Slot: 1},
		{Signature: "b", Slot: 2},
	}
	src := NewSource(want)

	ch, err := src.Subscribe(context.Background())
	require.NoError(t, err)

	var got []solana.LogNotification
	for n := range ch {
		got = append(got, n)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 1, src.Subscriptions())
}

func TestSource_FailSubscribe(t *testing.T) {
	src := NewSource(nil)
	src.FailSubscribe(errors.New("boom"))

	_, err := src.Subscribe(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Zero(t, src.Subscriptions())
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := NewSource([]solana.LogNotification{{Signature: "a"}, {Signature: "b"}})

	ch, err := src.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	for range ch {
	}
}
