package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/hencsv/internal/commands"
	editerrors "github.com/temirov/hencsv/internal/errors"
	"github.com/temirov/hencsv/internal/history"
	"github.com/temirov/hencsv/internal/prompt"
	"github.com/temirov/hencsv/internal/table"
)

const (
	scratchFoundPromptTemplate     = "\nTmp file found for: %s\n  edit original? (y/n): "
	restoringOriginalTemplate      = "Restoring original input file %s"
	editOriginalAnswerConstant     = "y"
	commandPromptConstant          = "> "
	undidMessageConstant           = "Undid last command"
	nothingToUndoMessageConstant   = "Nothing to undo!"
	autosaveErrorTemplateConstant  = "autosave %s: %w"
	logMessageSessionStarted       = "session started"
	logMessageSessionEnded         = "session ended"
	logMessageInputExhausted       = "input exhausted at command prompt"
	logMessageAutosaveFailed       = "autosave failed"
	logMessageControlCommandFailed = "control command failed"
	logFieldFilenameConstant       = "filename"
	logFieldCommandKeyConstant     = "command_key"
	logFieldOutcomeConstant        = "outcome"
	logFieldScratchResetConstant   = "scratch_reset"
)

// Workspace exposes the scratch lifecycle operations a session needs on top of the command workspace.
type Workspace interface {
	commands.Workspace
	HasScratch(filename string) (bool, error)
	ResetScratch(filename string) error
	EnsureScratch(filename string) (bool, error)
	LoadScratch(filename string) (*table.Table, error)
}

// Screen draws session output.
type Screen interface {
	commands.PreviewRenderer
	commands.Reporter
	ClearScreen()
}

// Dependencies groups the collaborators of a Loop.
type Dependencies struct {
	Registry  *commands.Registry
	Workspace Workspace
	Prompter  prompt.Prompter
	Screen    Screen
	Sleeper   Sleeper
	Observer  history.Observer
	Logger    *zap.Logger
}

// Loop runs interactive editing sessions.
type Loop struct {
	configuration Configuration
	dependencies  Dependencies
	engine        *history.Engine
}

// NewLoop constructs a Loop. A nil Sleeper disables pauses and a nil Logger discards logs.
func NewLoop(configuration Configuration, dependencies Dependencies) *Loop {
	if dependencies.Sleeper == nil {
		dependencies.Sleeper = NoopSleeper{}
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Loop{
		configuration: configuration.Sanitize(),
		dependencies:  dependencies,
		engine:        history.NewEngine(dependencies.Registry, dependencies.Observer),
	}
}

// Run edits filename until a control command ends the session and returns that command's outcome.
// Exhausted input at the command prompt ends the session with OutcomeStop.
func (loop *Loop) Run(executionContext context.Context, filename string) (commands.Outcome, error) {
	current, openError := loop.open(filename)
	if openError != nil {
		return commands.OutcomeStop, openError
	}

	state := history.NewState(filename, current)
	environment := &commands.Environment{
		Workspace: loop.dependencies.Workspace,
		Prompter:  loop.dependencies.Prompter,
		Preview:   loop.dependencies.Screen,
		Reporter:  loop.dependencies.Screen,
		Logger:    loop.dependencies.Logger,
	}
	scratchPath := loop.dependencies.Workspace.Paths(filename).Scratch
	menu := FormatMenu(loop.dependencies.Registry)

	for {
		if contextError := executionContext.Err(); contextError != nil {
			return commands.OutcomeStop, contextError
		}

		loop.dependencies.Screen.ClearScreen()
		loop.dependencies.Screen.RenderPreview(state.Table, scratchPath, loop.configuration.PreviewRows)
		loop.dependencies.Screen.Info(menu)

		response, readError := loop.dependencies.Prompter.ReadLine(commandPromptConstant)
		if readError != nil {
			if errors.Is(readError, io.EOF) {
				loop.dependencies.Logger.Info(logMessageInputExhausted, zap.String(logFieldFilenameConstant, filename))
				return commands.OutcomeStop, nil
			}
			return commands.OutcomeStop, readError
		}

		resolution := loop.dependencies.Registry.Resolve(response)
		switch resolution.Kind {
		case commands.ResolutionTransformation, commands.ResolutionUndo:
			loop.applyTransformation(executionContext, environment, resolution.Key, state)
		case commands.ResolutionControl:
			request := commands.ControlRequest{Table: state.Table, Filename: filename, Invocations: state.History.Invocations()}
			outcome, controlError := loop.dependencies.Registry.ExecuteControl(executionContext, environment, resolution.Key, request)
			if controlError == nil {
				loop.dependencies.Logger.Debug(
					logMessageSessionEnded,
					zap.String(logFieldFilenameConstant, filename),
					zap.String(logFieldOutcomeConstant, outcome.String()),
				)
				return outcome, nil
			}
			loop.dependencies.Logger.Warn(logMessageControlCommandFailed, zap.String(logFieldCommandKeyConstant, resolution.Key), zap.Error(controlError))
			loop.dependencies.Screen.Error(controlError)
		default:
			loop.dependencies.Screen.Error(editerrors.UnknownCommandError{Key: resolution.Key})
		}

		loop.dependencies.Sleeper.Sleep(executionContext, loop.configuration.CommandPause)
	}
}

func (loop *Loop) open(filename string) (*table.Table, error) {
	workspace := loop.dependencies.Workspace
	hasScratch, scratchError := workspace.HasScratch(filename)
	if scratchError != nil {
		return nil, scratchError
	}

	loop.dependencies.Screen.ClearScreen()
	scratchReset := false
	if hasScratch {
		answer, readError := loop.dependencies.Prompter.ReadLine(fmt.Sprintf(scratchFoundPromptTemplate, filename))
		if readError != nil && !errors.Is(readError, io.EOF) {
			return nil, readError
		}
		if commands.NormalizeKey(answer) == editOriginalAnswerConstant {
			loop.dependencies.Screen.Info(fmt.Sprintf(restoringOriginalTemplate, filename))
			if resetError := workspace.ResetScratch(filename); resetError != nil {
				return nil, resetError
			}
			scratchReset = true
		}
	} else {
		if _, ensureError := workspace.EnsureScratch(filename); ensureError != nil {
			return nil, ensureError
		}
		scratchReset = true
	}

	loop.dependencies.Logger.Debug(logMessageSessionStarted, zap.String(logFieldFilenameConstant, filename), zap.Bool(logFieldScratchResetConstant, scratchReset))
	return workspace.LoadScratch(filename)
}

func (loop *Loop) applyTransformation(executionContext context.Context, environment *commands.Environment, key string, state *history.State) {
	result, applyError := loop.engine.Apply(executionContext, environment, key, state)
	if applyError != nil {
		loop.dependencies.Screen.Error(applyError)
		return
	}

	switch result.Kind {
	case history.ResultUndone:
		loop.dependencies.Screen.Info(undidMessageConstant)
	case history.ResultNothingToUndo:
		loop.dependencies.Screen.Info(nothingToUndoMessageConstant)
		return
	case history.ResultUnchanged:
		return
	}

	if !loop.configuration.Autosave {
		return
	}
	if saveError := loop.dependencies.Workspace.SaveScratch(state.Filename, state.Table); saveError != nil {
		loop.dependencies.Logger.Warn(logMessageAutosaveFailed, zap.String(logFieldFilenameConstant, state.Filename), zap.Error(saveError))
		loop.dependencies.Screen.Error(fmt.Errorf(autosaveErrorTemplateConstant, state.Filename, saveError))
	}
}
