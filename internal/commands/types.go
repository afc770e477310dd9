package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/hencsv/internal/prompt"
	"github.com/temirov/hencsv/internal/table"
	"github.com/temirov/hencsv/internal/workspace"
)

// Arguments holds the typed argument value of a transformation.
type Arguments any

// Invocation records a transformation key together with the arguments it ran with.
type Invocation struct {
	Key       string
	Arguments Arguments
}

// Outcome tells the batch whether to continue after a control command.
type Outcome int

const (
	// OutcomeContinue moves on to the next file.
	OutcomeContinue Outcome = iota
	// OutcomeStop aborts the remaining batch.
	OutcomeStop
)

// Workspace exposes the file operations commands rely on.
type Workspace interface {
	Paths(filename string) workspace.FilePaths
	InputFiles() ([]string, error)
	LoadPristine(filename string) (*table.Table, error)
	LoadWorking(filename string) (*table.Table, error)
	SaveScratch(filename string, current *table.Table) error
	RestorePristine(filename string) (*table.Table, error)
	LoadSecondary(reference string) (*table.Table, error)
	SecondaryDirectory() string
}

// PreviewRenderer draws a table excerpt for the user.
type PreviewRenderer interface {
	RenderPreview(source *table.Table, label string, rowLimit int)
}

// Reporter shows status messages to the user.
type Reporter interface {
	Info(message string)
	Success(message string)
	Warning(message string)
	Error(failure error)
}

// Environment carries the collaborators shared by every command.
type Environment struct {
	Workspace Workspace
	Prompter  prompt.Prompter
	Preview   PreviewRenderer
	Reporter  Reporter
	Logger    *zap.Logger
}

// Transformation is a command that maps a table to a possibly modified table.
type Transformation interface {
	Key() string
	Name() string
	// CollectArguments asks the user for the values Apply needs.
	CollectArguments(executionContext context.Context, environment *Environment) (Arguments, error)
	// DecodeArguments builds typed arguments from a generic map, as read from a recipe.
	DecodeArguments(raw map[string]any) (Arguments, error)
	// Apply returns the transformed table and never mutates current.
	Apply(executionContext context.Context, environment *Environment, current *table.Table, filename string, arguments Arguments) (*table.Table, error)
}

// ControlRequest describes the session state handed to a control command.
type ControlRequest struct {
	Table       *table.Table
	Filename    string
	Invocations []Invocation
}

// Control is a command that steers the batch instead of editing the table.
type Control interface {
	Key() string
	Name() string
	Execute(executionContext context.Context, environment *Environment, registry *Registry, request ControlRequest) (Outcome, error)
}

func (environment *Environment) logger() *zap.Logger {
	if environment == nil || environment.Logger == nil {
		return zap.NewNop()
	}
	return environment.Logger
}

func (environment *Environment) info(message string) {
	if environment != nil && environment.Reporter != nil {
		environment.Reporter.Info(message)
	}
}

func (environment *Environment) success(message string) {
	if environment != nil && environment.Reporter != nil {
		environment.Reporter.Success(message)
	}
}

func (environment *Environment) warning(message string) {
	if environment != nil && environment.Reporter != nil {
		environment.Reporter.Warning(message)
	}
}
