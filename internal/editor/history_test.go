package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneforge/scene-backend/internal/scene"
)

func box(id string) scene.Object {
	return scene.Object{
		ID:    id,
		Type:  scene.TypeBox,
		Scale: [3]float64{1, 1, 1},
		Color: "#3b82f6",
	}
}

func ids(objects []scene.Object) []string {
	out := make([]string, len(objects))
	for i, o := range objects {
		out[i] = o.ID
	}
	return out
}

func checkHistoryInvariant(t *testing.T, h *History) {
	t.Helper()
	assert.GreaterOrEqual(t, h.Cursor(), 0)
	assert.Less(t, h.Cursor(), h.Len())
}

func TestHistory_RecordUndoRedo(t *testing.T) {
	h := NewHistory(nil)
	checkHistoryInvariant(t, h)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	h.Record([]scene.Object{box("a")})
	checkHistoryInvariant(t, h)
	h.Record([]scene.Object{box("a"), box("b")})
	checkHistoryInvariant(t, h)

	require.Equal(t, 3, h.Len())
	assert.Equal(t, 2, h.Cursor())

	st, ok := h.Undo()
	require.True(t, ok)
	checkHistoryInvariant(t, h)
	assert.Equal(t, []string{"a"}, ids(st))

	st, ok = h.Redo()
	require.True(t, ok)
	checkHistoryInvariant(t, h)
	assert.Equal(t, []string{"a", "b"}, ids(st))

	_, ok = h.Redo()
	assert.False(t, ok)

	_, ok = h.Undo()
	require.True(t, ok)
	st, ok = h.Undo()
	require.True(t, ok)
	assert.Empty(t, st)

	_, ok = h.Undo()
	assert.False(t, ok)
	checkHistoryInvariant(t, h)
}

func TestHistory_RecordAfterUndoTruncatesFuture(t *testing.T) {
	h := NewHistory(nil)
	h.Record([]scene.Object{box("a")})
	h.Record([]scene.Object{box("a"), box("b")})

	_, ok := h.Undo()
	require.True(t, ok)

	h.Record([]scene.Object{box("a"), box("c")})
	checkHistoryInvariant(t, h)

	// The b snapshot is gone: redo is a no-op and the cursor stays on c.
	assert.False(t, h.CanRedo())
	_, ok = h.Redo()
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "c"}, ids(h.Current()))
	assert.Equal(t, 3, h.Len())
}

func TestHistory_CapacityDropsOldest(t *testing.T) {
	h := NewHistoryWithCapacity(nil, 3)
	h.Record([]scene.Object{box("a")})
	h.Record([]scene.Object{box("a"), box("b")})
	h.Record([]scene.Object{box("a"), box("b"), box("c")})

	require.Equal(t, 3, h.Len())
	checkHistoryInvariant(t, h)

	// The empty initial snapshot was evicted; undo bottoms out at "a".
	_, ok := h.Undo()
	require.True(t, ok)
	st, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, ids(st))
	assert.False(t, h.CanUndo())
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(nil)
	h.Record([]scene.Object{box("a")})
	h.Record([]scene.Object{box("a"), box("b")})

	h.Reset([]scene.Object{box("x")})
	assert.Equal(t, 1, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
	assert.Equal(t, []string{"x"}, ids(h.Current()))
}

func TestHistory_SnapshotsAreIsolated(t *testing.T) {
	live := []scene.Object{box("a")}
	h := NewHistory(live)

	// Mutating the caller's slice must not reach into the snapshot.
	live[0].Color = "#000000"
	assert.Equal(t, "#3b82f6", h.Current()[0].Color)

	// Mutating a returned snapshot must not reach into the history.
	got := h.Current()
	got[0].ID = "tampered"
	assert.Equal(t, "a", h.Current()[0].ID)
}
