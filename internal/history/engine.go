package history

import (
	"context"

	"github.com/temirov/hencsv/internal/commands"
)

// ResultKind describes what Apply did to the session state.
type ResultKind int

const (
	// ResultApplied means the table changed and the invocation was recorded.
	ResultApplied ResultKind = iota
	// ResultUnchanged means the command ran but left the table as it was.
	ResultUnchanged
	// ResultUndone means the most recent entry was reverted.
	ResultUndone
	// ResultNothingToUndo means undo was requested on an empty history.
	ResultNothingToUndo
)

// Result reports the effect of Apply.
type Result struct {
	Kind       ResultKind
	Invocation commands.Invocation
}

// Observer receives notifications about history changes.
type Observer interface {
	CommandApplied(filename string, invocation commands.Invocation, depth int)
	CommandUnchanged(filename string, key string)
	CommandUndone(filename string, invocation commands.Invocation, depth int)
	NothingToUndo(filename string)
	CommandFailed(filename string, key string, failure error)
}

// Engine runs transformations with undo bookkeeping.
type Engine struct {
	registry *commands.Registry
	observer Observer
}

// NewEngine constructs an Engine dispatching through registry. observer may be nil.
func NewEngine(registry *commands.Registry, observer Observer) *Engine {
	return &Engine{registry: registry, observer: observer}
}

// Apply handles the undo key or executes the transformation under key against state.
// A failing command leaves state untouched.
func (engine *Engine) Apply(executionContext context.Context, environment *commands.Environment, key string, state *State) (Result, error) {
	if engine.registry.Resolve(key).Kind == commands.ResolutionUndo {
		return engine.undo(state), nil
	}

	previous := state.Table
	updated, invocation, executeError := engine.registry.Execute(executionContext, environment, key, previous, state.Filename)
	if executeError != nil {
		if engine.observer != nil {
			engine.observer.CommandFailed(state.Filename, commands.NormalizeKey(key), executeError)
		}
		return Result{}, executeError
	}

	if previous.Equal(updated) {
		if engine.observer != nil {
			engine.observer.CommandUnchanged(state.Filename, invocation.Key)
		}
		return Result{Kind: ResultUnchanged, Invocation: invocation}, nil
	}

	state.History.Push(previous, invocation)
	state.Table = updated
	if engine.observer != nil {
		engine.observer.CommandApplied(state.Filename, invocation, state.History.Depth())
	}
	return Result{Kind: ResultApplied, Invocation: invocation}, nil
}

func (engine *Engine) undo(state *State) Result {
	previous, invocation, popped := state.History.Pop()
	if !popped {
		if engine.observer != nil {
			engine.observer.NothingToUndo(state.Filename)
		}
		return Result{Kind: ResultNothingToUndo}
	}
	state.Table = previous
	if engine.observer != nil {
		engine.observer.CommandUndone(state.Filename, invocation, state.History.Depth())
	}
	return Result{Kind: ResultUndone, Invocation: invocation}
}
