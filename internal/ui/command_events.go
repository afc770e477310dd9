package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/hencsv/internal/commands"
)

const (
	commandAppliedMessageTemplateConstant   = "Applied %s to %s (undo depth %d)"
	commandUnchangedMessageTemplateConstant = "%s left %s unchanged"
	commandUndoneMessageTemplateConstant    = "Undid %s on %s (undo depth %d)"
	nothingToUndoMessageTemplateConstant    = "Nothing to undo on %s"
	commandFailedMessageTemplateConstant    = "%s failed on %s: %s"
	commandLabelTemplateConstant            = "%s %+v"
	unknownFailureMessageConstant           = "unknown error"
	logFieldCommandKeyConstant              = "command_key"
	logFieldFilenameConstant                = "filename"
	logFieldUndoDepthConstant               = "undo_depth"
)

// CommandEventFormatter builds human-readable messages for editing session events.
type CommandEventFormatter struct{}

// BuildAppliedMessage formats the message describing a command that changed the table.
func (formatter CommandEventFormatter) BuildAppliedMessage(filename string, invocation commands.Invocation, depth int) string {
	return fmt.Sprintf(commandAppliedMessageTemplateConstant, formatter.formatInvocationLabel(invocation), filename, depth)
}

// BuildUnchangedMessage formats the message describing a command that left the table as it was.
func (formatter CommandEventFormatter) BuildUnchangedMessage(filename string, key string) string {
	return fmt.Sprintf(commandUnchangedMessageTemplateConstant, key, filename)
}

// BuildUndoneMessage formats the message describing a reverted command.
func (formatter CommandEventFormatter) BuildUndoneMessage(filename string, invocation commands.Invocation, depth int) string {
	return fmt.Sprintf(commandUndoneMessageTemplateConstant, formatter.formatInvocationLabel(invocation), filename, depth)
}

// BuildNothingToUndoMessage formats the message describing an undo on an empty history.
func (formatter CommandEventFormatter) BuildNothingToUndoMessage(filename string) string {
	return fmt.Sprintf(nothingToUndoMessageTemplateConstant, filename)
}

// BuildFailureMessage formats the message describing a command that returned an error.
func (formatter CommandEventFormatter) BuildFailureMessage(filename string, key string, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(commandFailedMessageTemplateConstant, key, filename, failureMessage)
}

func (formatter CommandEventFormatter) formatInvocationLabel(invocation commands.Invocation) string {
	if _, noArguments := invocation.Arguments.(commands.NoArguments); noArguments || invocation.Arguments == nil {
		return invocation.Key
	}
	return strings.TrimSpace(fmt.Sprintf(commandLabelTemplateConstant, invocation.Key, invocation.Arguments))
}

// CommandEventLogger records editing session events through a zap logger.
type CommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewCommandEventLogger constructs an event logger backed by the provided zap logger.
func NewCommandEventLogger(logger *zap.Logger) *CommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandApplied logs a command that changed the table.
func (eventLogger *CommandEventLogger) CommandApplied(filename string, invocation commands.Invocation, depth int) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(
		eventLogger.formatter.BuildAppliedMessage(filename, invocation, depth),
		zap.String(logFieldFilenameConstant, filename),
		zap.String(logFieldCommandKeyConstant, invocation.Key),
		zap.Int(logFieldUndoDepthConstant, depth),
	)
}

// CommandUnchanged logs a command that produced an equal table.
func (eventLogger *CommandEventLogger) CommandUnchanged(filename string, key string) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(
		eventLogger.formatter.BuildUnchangedMessage(filename, key),
		zap.String(logFieldFilenameConstant, filename),
		zap.String(logFieldCommandKeyConstant, key),
	)
}

// CommandUndone logs a reverted command.
func (eventLogger *CommandEventLogger) CommandUndone(filename string, invocation commands.Invocation, depth int) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(
		eventLogger.formatter.BuildUndoneMessage(filename, invocation, depth),
		zap.String(logFieldFilenameConstant, filename),
		zap.String(logFieldCommandKeyConstant, invocation.Key),
		zap.Int(logFieldUndoDepthConstant, depth),
	)
}

// NothingToUndo logs an undo request on an empty history.
func (eventLogger *CommandEventLogger) NothingToUndo(filename string) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Debug(eventLogger.formatter.BuildNothingToUndoMessage(filename), zap.String(logFieldFilenameConstant, filename))
}

// CommandFailed logs a command error.
func (eventLogger *CommandEventLogger) CommandFailed(filename string, key string, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Warn(
		eventLogger.formatter.BuildFailureMessage(filename, key, failure),
		zap.String(logFieldFilenameConstant, filename),
		zap.String(logFieldCommandKeyConstant, key),
	)
}
