// Package editor holds the client-side editing core: the undo/redo history
// engine and the session shell that drives scene mutations and API calls.
package editor

import "github.com/sceneforge/scene-backend/internal/scene"

// Snapshot is a full copy of the scene's object sequence at one point in
// edit history.
type Snapshot []scene.Object

// History is the undo/redo stack: an ordered snapshot sequence plus a
// cursor marking the active state. The entry at the cursor always equals
// the live scene. With a positive capacity the oldest snapshot is dropped
// instead of growing past the bound; capacity 0 means unbounded.
type History struct {
	snapshots []Snapshot
	cursor    int
	capacity  int
}

// NewHistory starts an unbounded history with one snapshot of the given
// state.
func NewHistory(initial []scene.Object) *History {
	return NewHistoryWithCapacity(initial, 0)
}

func NewHistoryWithCapacity(initial []scene.Object, capacity int) *History {
	return &History{
		snapshots: []Snapshot{cloneObjects(initial)},
		capacity:  capacity,
	}
}

// Record is the sole mutation entry point: it discards any snapshots
// beyond the cursor, appends a snapshot of the new state, and moves the
// cursor to it.
func (h *History) Record(objects []scene.Object) {
	h.snapshots = append(h.snapshots[:h.cursor+1], cloneObjects(objects))
	if h.capacity > 0 && len(h.snapshots) > h.capacity {
		h.snapshots = append(h.snapshots[:0], h.snapshots[1:]...)
	}
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back and returns the state to restore. Reports
// false when there is nothing to undo; no snapshot is created or dropped.
func (h *History) Undo() ([]scene.Object, bool) {
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	return h.Current(), true
}

// Redo moves the cursor forward and returns the state to restore. Reports
// false when there is nothing to redo.
func (h *History) Redo() ([]scene.Object, bool) {
	if h.cursor >= len(h.snapshots)-1 {
		return nil, false
	}
	h.cursor++
	return h.Current(), true
}

// Reset replaces the whole history with one snapshot of the given state,
// as after loading a project.
func (h *History) Reset(objects []scene.Object) {
	h.snapshots = []Snapshot{cloneObjects(objects)}
	h.cursor = 0
}

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() []scene.Object {
	return cloneObjects(h.snapshots[h.cursor])
}

func (h *History) CanUndo() bool { return h.cursor > 0 }
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }
func (h *History) Len() int      { return len(h.snapshots) }
func (h *History) Cursor() int   { return h.cursor }

// scene.Object has only value fields, so copying the slice is a deep copy.
func cloneObjects(objects []scene.Object) Snapshot {
	out := make(Snapshot, len(objects))
	copy(out, objects)
	return out
}
