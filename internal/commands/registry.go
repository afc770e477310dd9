package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	editerrors "github.com/temirov/hencsv/internal/errors"
	"github.com/temirov/hencsv/internal/table"
)

const (
	// UndoKey is reserved for the undo engine and cannot be registered.
	UndoKey = "u"

	registryEmptyKeyMessageConstant      = "command keys must be non-empty"
	registryNilCommandMessageConstant    = "command definitions must be non-nil"
	registryReservedKeyTemplateConstant  = "command key '%s' is reserved for undo"
	registryDuplicateKeyTemplateConstant = "command key '%s' is registered more than once"
	replayStepErrorTemplateConstant      = "replay step %d (%s): %w"
	commandCollectErrorTemplateConstant  = "%s: %w"
	logMessageTransformationApplied      = "transformation applied"
	logMessageControlExecuted            = "control command executed"
	logFieldCommandKey                   = "command_key"
	logFieldFilename                     = "filename"
	logFieldOutcome                      = "outcome"
	outcomeContinueLabelConstant         = "continue"
	outcomeStopLabelConstant             = "stop"
)

// ResolutionKind classifies a command key.
type ResolutionKind int

const (
	// ResolutionUnknown marks keys without a registered command.
	ResolutionUnknown ResolutionKind = iota
	// ResolutionTransformation marks table-editing commands.
	ResolutionTransformation
	// ResolutionControl marks session-steering commands.
	ResolutionControl
	// ResolutionUndo marks the reserved undo key.
	ResolutionUndo
)

// Resolution is the result of looking up a command key.
type Resolution struct {
	Kind           ResolutionKind
	Key            string
	Transformation Transformation
	Control        Control
}

// Registry maps command keys to commands. It is immutable once constructed.
type Registry struct {
	transformations     []Transformation
	controls            []Control
	transformationByKey map[string]Transformation
	controlByKey        map[string]Control
}

// NewRegistry validates keys and builds a registry preserving registration order.
func NewRegistry(transformations []Transformation, controls []Control) (*Registry, error) {
	registry := &Registry{
		transformationByKey: make(map[string]Transformation, len(transformations)),
		controlByKey:        make(map[string]Control, len(controls)),
	}
	seenKeys := make(map[string]struct{}, len(transformations)+len(controls))

	claimKey := func(rawKey string) (string, error) {
		key := NormalizeKey(rawKey)
		switch {
		case len(key) == 0:
			return "", errors.New(registryEmptyKeyMessageConstant)
		case key == UndoKey:
			return "", fmt.Errorf(registryReservedKeyTemplateConstant, key)
		}
		if _, duplicate := seenKeys[key]; duplicate {
			return "", fmt.Errorf(registryDuplicateKeyTemplateConstant, key)
		}
		seenKeys[key] = struct{}{}
		return key, nil
	}

	for _, transformation := range transformations {
		if transformation == nil {
			return nil, errors.New(registryNilCommandMessageConstant)
		}
		key, keyError := claimKey(transformation.Key())
		if keyError != nil {
			return nil, keyError
		}
		registry.transformations = append(registry.transformations, transformation)
		registry.transformationByKey[key] = transformation
	}

	for _, control := range controls {
		if control == nil {
			return nil, errors.New(registryNilCommandMessageConstant)
		}
		key, keyError := claimKey(control.Key())
		if keyError != nil {
			return nil, keyError
		}
		registry.controls = append(registry.controls, control)
		registry.controlByKey[key] = control
	}

	return registry, nil
}

// NormalizeKey trims and lowercases a key as typed by the user.
func NormalizeKey(rawKey string) string {
	return strings.ToLower(strings.TrimSpace(rawKey))
}

// Resolve classifies key.
func (registry *Registry) Resolve(rawKey string) Resolution {
	key := NormalizeKey(rawKey)
	if key == UndoKey {
		return Resolution{Kind: ResolutionUndo, Key: key}
	}
	if transformation, exists := registry.transformationByKey[key]; exists {
		return Resolution{Kind: ResolutionTransformation, Key: key, Transformation: transformation}
	}
	if control, exists := registry.controlByKey[key]; exists {
		return Resolution{Kind: ResolutionControl, Key: key, Control: control}
	}
	return Resolution{Kind: ResolutionUnknown, Key: key}
}

// Transformation looks up a transformation by key.
func (registry *Registry) Transformation(rawKey string) (Transformation, bool) {
	transformation, exists := registry.transformationByKey[NormalizeKey(rawKey)]
	return transformation, exists
}

// Transformations lists transformations in registration order.
func (registry *Registry) Transformations() []Transformation {
	return append([]Transformation{}, registry.transformations...)
}

// Controls lists control commands in registration order.
func (registry *Registry) Controls() []Control {
	return append([]Control{}, registry.controls...)
}

// Execute collects arguments for the transformation under key and applies it to current.
func (registry *Registry) Execute(executionContext context.Context, environment *Environment, rawKey string, current *table.Table, filename string) (*table.Table, Invocation, error) {
	key := NormalizeKey(rawKey)
	transformation, exists := registry.transformationByKey[key]
	if !exists {
		return nil, Invocation{}, editerrors.UnknownCommandError{Key: key}
	}

	arguments, collectError := transformation.CollectArguments(executionContext, environment)
	if collectError != nil {
		return nil, Invocation{}, fmt.Errorf(commandCollectErrorTemplateConstant, transformation.Name(), collectError)
	}

	updated, applyError := transformation.Apply(executionContext, environment, current, filename, arguments)
	if applyError != nil {
		return nil, Invocation{}, applyError
	}

	environment.logger().Debug(logMessageTransformationApplied, zap.String(logFieldCommandKey, key), zap.String(logFieldFilename, filename))
	return updated, Invocation{Key: key, Arguments: arguments}, nil
}

// ExecuteControl runs the control command under key.
func (registry *Registry) ExecuteControl(executionContext context.Context, environment *Environment, rawKey string, request ControlRequest) (Outcome, error) {
	key := NormalizeKey(rawKey)
	control, exists := registry.controlByKey[key]
	if !exists {
		return OutcomeContinue, editerrors.UnknownCommandError{Key: key}
	}

	outcome, executeError := control.Execute(executionContext, environment, registry, request)
	if executeError != nil {
		return outcome, executeError
	}

	environment.logger().Debug(
		logMessageControlExecuted,
		zap.String(logFieldCommandKey, key),
		zap.String(logFieldFilename, request.Filename),
		zap.String(logFieldOutcome, outcome.String()),
	)
	return outcome, nil
}

// Replay applies invocations in order to current without prompting for arguments.
// Nothing is written to disk while replaying; the caller persists the result once every step succeeded.
func (registry *Registry) Replay(executionContext context.Context, environment *Environment, current *table.Table, filename string, invocations []Invocation) (*table.Table, error) {
	environment = environment.forReplay()
	replayed := current
	for stepIndex, invocation := range invocations {
		if contextError := executionContext.Err(); contextError != nil {
			return nil, contextError
		}
		transformation, exists := registry.transformationByKey[NormalizeKey(invocation.Key)]
		if !exists {
			return nil, fmt.Errorf(replayStepErrorTemplateConstant, stepIndex+1, invocation.Key, editerrors.UnknownCommandError{Key: invocation.Key})
		}
		updated, applyError := transformation.Apply(executionContext, environment, replayed, filename, invocation.Arguments)
		if applyError != nil {
			return nil, fmt.Errorf(replayStepErrorTemplateConstant, stepIndex+1, invocation.Key, applyError)
		}
		replayed = updated
	}
	return replayed, nil
}

// replayWorkspace serves restore-original from the pristine input without resetting the scratch copy.
type replayWorkspace struct {
	Workspace
}

func (workspace replayWorkspace) RestorePristine(filename string) (*table.Table, error) {
	return workspace.LoadPristine(filename)
}

func (environment *Environment) forReplay() *Environment {
	if environment == nil || environment.Workspace == nil {
		return environment
	}
	if _, alreadyWrapped := environment.Workspace.(replayWorkspace); alreadyWrapped {
		return environment
	}
	replayEnvironment := *environment
	replayEnvironment.Workspace = replayWorkspace{Workspace: environment.Workspace}
	return &replayEnvironment
}

func (outcome Outcome) String() string {
	if outcome == OutcomeStop {
		return outcomeStopLabelConstant
	}
	return outcomeContinueLabelConstant
}
