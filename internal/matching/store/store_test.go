package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pennywise/internal/kv"
)

func TestStore_FindMatch(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())

	tick := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}

	require.NoError(t, s.CreateMapping(ctx, "UBER", "transport"))
	require.NoError(t, s.CreateMapping(ctx, "UBER EATS", "products"))
	require.NoError(t, s.CreateMapping(ctx, "bolt", "transport"))
	require.NoError(t, s.CreateMapping(ctx, "BOLT", "entertainment"))

	tests := []struct {
		description string
		want        string
	}{
		{description: "UBER   *TRIP HELP.UBER.COM", want: "transport"},
		{description: "uber eats lisboa", want: "products"},
		{description: "BOLT.EU O2403", want: "entertainment"},
		{description: "PINGO DOCE", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got, err := s.FindMatch(ctx, tt.description)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_Empty(t *testing.T) {
	got, err := New(kv.NewMemory()).FindMatch(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, Key, []byte("[")))

	_, err := New(mem).FindMatch(ctx, "x")
	assert.Error(t, err)
}
