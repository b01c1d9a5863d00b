package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRecordAndNavigate(t *testing.T) {
	eng := testEngine()
	state := eng.InitState(twoPlayers(), InitOptions{
		DeckOverride: []string{"AH", "KH", "AS", "KS"},
	})

	h := NewHistory()
	assert.Equal(t, 0, h.Size())
	assert.Nil(t, h.Latest())
	assert.Nil(t, h.Next())
	assert.Nil(t, h.Previous())

	h.Record(state)
	_, err := eng.ExecuteAction(state, "p1", "draw", nil)
	require.NoError(t, err)
	h.Record(state)

	require.Equal(t, 2, h.Size())

	h.Start()
	first := h.Next()
	require.NotNil(t, first)
	assert.False(t, first.Turn.HasDrawn)

	second := h.Next()
	require.NotNil(t, second)
	assert.True(t, second.Turn.HasDrawn)
	assert.Nil(t, h.Next())

	back := h.Previous()
	require.NotNil(t, back)
	assert.True(t, back.Turn.HasDrawn)
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	eng := testEngine()
	state := eng.InitState(twoPlayers(), InitOptions{
		DeckOverride: []string{"AH", "KH", "AS", "KS"},
	})

	h := NewHistory()
	h.Record(state)

	// Mutating the live state must not touch the snapshot, and restoring
	// from the snapshot undoes the mutation.
	_, err := eng.ExecuteAction(state, "p1", "draw", nil)
	require.NoError(t, err)
	require.True(t, state.Turn.HasDrawn)

	restored := h.Latest()
	require.NotNil(t, restored)
	assert.False(t, restored.Turn.HasDrawn)
	assert.Equal(t, []string{"AS", "KS"}, restored.Deck)

	// Returned snapshots are themselves clones.
	restored.Deck[0] = "XX"
	assert.Equal(t, "AS", h.Latest().Deck[0])
}
