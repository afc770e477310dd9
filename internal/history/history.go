package history

import (
	"github.com/temirov/hencsv/internal/commands"
	"github.com/temirov/hencsv/internal/table"
)

// History pairs prior table snapshots with the invocations that replaced them.
// Both stacks always have the same depth; the most recent entry is last.
type History struct {
	snapshots   []*table.Table
	invocations []commands.Invocation
}

// Push records previous as the table replaced by invocation.
func (history *History) Push(previous *table.Table, invocation commands.Invocation) {
	history.snapshots = append(history.snapshots, previous)
	history.invocations = append(history.invocations, invocation)
}

// Pop removes the most recent entry from both stacks.
func (history *History) Pop() (*table.Table, commands.Invocation, bool) {
	depth := len(history.snapshots)
	if depth == 0 {
		return nil, commands.Invocation{}, false
	}
	previous := history.snapshots[depth-1]
	invocation := history.invocations[depth-1]
	history.snapshots = history.snapshots[:depth-1]
	history.invocations = history.invocations[:depth-1]
	return previous, invocation, true
}

// Depth reports the number of undoable entries.
func (history *History) Depth() int {
	return len(history.snapshots)
}

// Invocations returns the recorded invocations oldest first.
func (history *History) Invocations() []commands.Invocation {
	return append([]commands.Invocation{}, history.invocations...)
}

// State is the per-file session state the Engine operates on.
type State struct {
	Filename string
	Table    *table.Table
	History  History
}

// NewState starts an empty history for filename.
func NewState(filename string, initial *table.Table) *State {
	return &State{Filename: filename, Table: initial}
}
