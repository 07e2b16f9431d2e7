package storage

import (
	"errors"
	"fmt"
	"testing"

	"replicaset/pkg/crdt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newSet(replicaID uuid.UUID) func() (crdt.CRDT, error) {
	return func() (crdt.CRDT, error) {
		return crdt.NewFabric().New(crdt.AWSetName, replicaID)
	}
}

func TestNewEngine_ShardCount(t *testing.T) {
	require.Equal(t, 8, NewEngine(8).NumShards())
	require.Equal(t, defaultShards, NewEngine(0).NumShards())
	require.Equal(t, defaultShards, NewEngine(12).NumShards())
}

func TestEngine_GetOrCreate(t *testing.T) {
	e := NewEngine(2)

	_, ok := e.Get("k")
	require.False(t, ok)

	first, err := e.GetOrCreate("k", newSet(uuid.New()))
	require.NoError(t, err)

	second, err := e.GetOrCreate("k", func() (crdt.CRDT, error) {
		t.Fatal("create called for an existing key")
		return nil, nil
	})
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, e.Len())
}

func TestEngine_GetOrCreateError(t *testing.T) {
	e := NewEngine(2)
	boom := errors.New("boom")

	_, err := e.GetOrCreate("k", func() (crdt.CRDT, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	_, ok := e.Get("k")
	require.False(t, ok)
	require.Zero(t, e.Len())
}

func TestEngine_GrowShards(t *testing.T) {
	e := NewEngine(2)
	e.threshold = 3

	for i := 0; i < 20; i++ {
		entry, err := e.GetOrCreate(fmt.Sprintf("key-%d", i), newSet(uuid.New()))
		require.NoError(t, err)
		require.NoError(t, entry.Do(func(obj crdt.CRDT) error {
			obj.(*crdt.AWSet[string]).Add(fmt.Sprint(i))
			return nil
		}))
	}

	// growth runs in the background; force the remaining steps
	for e.Len()/e.NumShards() > 3 {
		e.growShards()
	}
	require.GreaterOrEqual(t, e.NumShards(), 8)

	keys := e.Keys()
	require.Len(t, keys, 20)
	for i := 0; i < 20; i++ {
		entry, ok := e.Get(fmt.Sprintf("key-%d", i))
		require.True(t, ok, "key-%d lost after growth", i)
		require.NoError(t, entry.Do(func(obj crdt.CRDT) error {
			require.True(t, obj.(*crdt.AWSet[string]).Has(fmt.Sprint(i)))
			return nil
		}))
	}
}
