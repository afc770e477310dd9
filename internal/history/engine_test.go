package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hencsv/internal/commands"
	editerrors "github.com/temirov/hencsv/internal/errors"
	"github.com/temirov/hencsv/internal/history"
	"github.com/temirov/hencsv/internal/table"
)

const (
	testFilenameConstant   = "people.csv"
	appendKeyConstant      = "ap"
	identityKeyConstant    = "id"
	failingKeyConstant     = "fl"
	appendedColumnConstant = "added"
)

var errStubFailure = errors.New("stub failure")

type stubTransformation struct {
	key   string
	apply func(current *table.Table) (*table.Table, error)
}

func (transformation stubTransformation) Key() string  { return transformation.key }
func (transformation stubTransformation) Name() string { return transformation.key }

func (transformation stubTransformation) CollectArguments(context.Context, *commands.Environment) (commands.Arguments, error) {
	return commands.NoArguments{}, nil
}

func (transformation stubTransformation) DecodeArguments(map[string]any) (commands.Arguments, error) {
	return commands.NoArguments{}, nil
}

func (transformation stubTransformation) Apply(_ context.Context, _ *commands.Environment, current *table.Table, _ string, _ commands.Arguments) (*table.Table, error) {
	return transformation.apply(current)
}

type recordingObserver struct {
	events []string
}

func (observer *recordingObserver) CommandApplied(_ string, invocation commands.Invocation, _ int) {
	observer.events = append(observer.events, "applied:"+invocation.Key)
}

func (observer *recordingObserver) CommandUnchanged(_ string, key string) {
	observer.events = append(observer.events, "unchanged:"+key)
}

func (observer *recordingObserver) CommandUndone(_ string, invocation commands.Invocation, _ int) {
	observer.events = append(observer.events, "undone:"+invocation.Key)
}

func (observer *recordingObserver) NothingToUndo(string) {
	observer.events = append(observer.events, "nothing")
}

func (observer *recordingObserver) CommandFailed(_ string, key string, _ error) {
	observer.events = append(observer.events, "failed:"+key)
}

func newTestEngine(testInstance *testing.T, observer history.Observer) *history.Engine {
	testInstance.Helper()
	registry, registryError := commands.NewRegistry([]commands.Transformation{
		stubTransformation{key: appendKeyConstant, apply: func(current *table.Table) (*table.Table, error) {
			values := make([]string, current.RowCount())
			return current.WithColumns(current.ColumnCount(), []table.Column{{Name: appendedColumnConstant, Values: values}})
		}},
		stubTransformation{key: identityKeyConstant, apply: func(current *table.Table) (*table.Table, error) {
			return current.Clone(), nil
		}},
		stubTransformation{key: failingKeyConstant, apply: func(*table.Table) (*table.Table, error) {
			return nil, errStubFailure
		}},
	}, []commands.Control{commands.Quit{}})
	require.NoError(testInstance, registryError)
	return history.NewEngine(registry, observer)
}

func newInitialTable(testInstance *testing.T) *table.Table {
	testInstance.Helper()
	initial, createError := table.New([]string{"name"}, [][]string{{"Ada"}})
	require.NoError(testInstance, createError)
	return initial
}

func TestEngineKeepsStacksAligned(testInstance *testing.T) {
	observer := &recordingObserver{}
	engine := newTestEngine(testInstance, observer)
	initial := newInitialTable(testInstance)
	state := history.NewState(testFilenameConstant, initial)

	testCases := []struct {
		key           string
		expectedKind  history.ResultKind
		expectedDepth int
		expectedError bool
	}{
		{key: "u", expectedKind: history.ResultNothingToUndo, expectedDepth: 0},
		{key: appendKeyConstant, expectedKind: history.ResultApplied, expectedDepth: 1},
		{key: identityKeyConstant, expectedKind: history.ResultUnchanged, expectedDepth: 1},
		{key: "AP", expectedKind: history.ResultApplied, expectedDepth: 2},
		{key: failingKeyConstant, expectedDepth: 2, expectedError: true},
		{key: "q", expectedDepth: 2, expectedError: true},
		{key: "U", expectedKind: history.ResultUndone, expectedDepth: 1},
		{key: "u", expectedKind: history.ResultUndone, expectedDepth: 0},
		{key: "u", expectedKind: history.ResultNothingToUndo, expectedDepth: 0},
	}

	for stepIndex, testCase := range testCases {
		result, applyError := engine.Apply(context.Background(), &commands.Environment{}, testCase.key, state)
		if testCase.expectedError {
			require.Error(testInstance, applyError, stepIndex)
		} else {
			require.NoError(testInstance, applyError, stepIndex)
			require.Equal(testInstance, testCase.expectedKind, result.Kind, stepIndex)
		}
		require.Equal(testInstance, testCase.expectedDepth, state.History.Depth(), stepIndex)
		require.Len(testInstance, state.History.Invocations(), testCase.expectedDepth, stepIndex)
	}

	require.Same(testInstance, initial, state.Table)
	require.Equal(testInstance, []string{
		"nothing",
		"applied:ap",
		"unchanged:id",
		"applied:ap",
		"failed:fl",
		"failed:q",
		"undone:ap",
		"undone:ap",
		"nothing",
	}, observer.events)
}

func TestEngineUndoRestoresPriorTable(testInstance *testing.T) {
	engine := newTestEngine(testInstance, nil)
	initial := newInitialTable(testInstance)
	state := history.NewState(testFilenameConstant, initial)

	_, firstError := engine.Apply(context.Background(), &commands.Environment{}, appendKeyConstant, state)
	require.NoError(testInstance, firstError)
	afterFirst := state.Table

	_, secondError := engine.Apply(context.Background(), &commands.Environment{}, appendKeyConstant, state)
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, []string{"name", appendedColumnConstant, appendedColumnConstant}, state.Table.Header())
	require.Equal(testInstance, []commands.Invocation{
		{Key: appendKeyConstant, Arguments: commands.NoArguments{}},
		{Key: appendKeyConstant, Arguments: commands.NoArguments{}},
	}, state.History.Invocations())

	result, undoError := engine.Apply(context.Background(), &commands.Environment{}, "u", state)
	require.NoError(testInstance, undoError)
	require.Equal(testInstance, history.ResultUndone, result.Kind)
	require.Same(testInstance, afterFirst, state.Table)
	require.Equal(testInstance, []string{"name"}, initial.Header())
}

func TestEngineFailureLeavesTable(testInstance *testing.T) {
	engine := newTestEngine(testInstance, nil)
	initial := newInitialTable(testInstance)
	state := history.NewState(testFilenameConstant, initial)

	_, applyError := engine.Apply(context.Background(), &commands.Environment{}, failingKeyConstant, state)
	require.ErrorIs(testInstance, applyError, errStubFailure)
	require.Same(testInstance, initial, state.Table)

	_, unknownError := engine.Apply(context.Background(), &commands.Environment{}, "missing", state)
	require.True(testInstance, editerrors.IsUnknownCommand(unknownError))
	require.Zero(testInstance, state.History.Depth())
}
