package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/hencsv/internal/commands"
	"github.com/temirov/hencsv/internal/ui"
)

const (
	testEventFilenameConstant             = "people.csv"
	testFailureReasonConstant             = "column range is invalid"
	testAppliedMessageExpectation         = "Applied srp {Pattern:a/b} to people.csv (undo depth 2)"
	testUnchangedMessageExpectation       = "dsp left people.csv unchanged"
	testUndoneMessageExpectation          = "Undid rst on people.csv (undo depth 0)"
	testNothingToUndoMessageExpectation   = "Nothing to undo on people.csv"
	testFailureMessageExpectationConstant = "mc failed on people.csv: " + testFailureReasonConstant
	testUnknownFailureMessageExpectation  = "mc failed on people.csv: unknown error"
)

func TestCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	replaceInvocation := commands.Invocation{Key: "srp", Arguments: commands.StringReplaceArguments{Pattern: "a/b"}}
	restoreInvocation := commands.Invocation{Key: "rst", Arguments: commands.NoArguments{}}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.CommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_applied",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandApplied(testEventFilenameConstant, replaceInvocation, 2)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testAppliedMessageExpectation,
		},
		{
			name: "command_unchanged",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandUnchanged(testEventFilenameConstant, "dsp")
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: testUnchangedMessageExpectation,
		},
		{
			name: "command_undone",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandUndone(testEventFilenameConstant, restoreInvocation, 0)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testUndoneMessageExpectation,
		},
		{
			name: "nothing_to_undo",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.NothingToUndo(testEventFilenameConstant)
			},
			expectedLevel:   zapcore.DebugLevel,
			expectedMessage: testNothingToUndoMessageExpectation,
		},
		{
			name: "command_failed",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandFailed(testEventFilenameConstant, "mc", errors.New(testFailureReasonConstant))
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testFailureMessageExpectationConstant,
		},
		{
			name: "command_failed_without_error",
			invoke: func(logger *ui.CommandEventLogger) {
				logger.CommandFailed(testEventFilenameConstant, "mc", nil)
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testUnknownFailureMessageExpectation,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewCommandEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
			require.Equal(testInstance, testEventFilenameConstant, entries[0].ContextMap()["filename"])
		})
	}
}

func TestNilCommandEventLoggerIsSafe(testInstance *testing.T) {
	var eventLogger *ui.CommandEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.CommandApplied(testEventFilenameConstant, commands.Invocation{}, 1)
		eventLogger.NothingToUndo(testEventFilenameConstant)
	})
}
