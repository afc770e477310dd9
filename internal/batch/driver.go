package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/hencsv/internal/commands"
	"github.com/temirov/hencsv/internal/prompt"
	"github.com/temirov/hencsv/internal/session"
)

const (
	continuePromptConstant         = "\nPress any key to continue or 'q' to quit... "
	quitAnswerConstant             = "q"
	copiedMessageTemplateConstant  = "Copied file to %s"
	sessionFailedTemplateConstant  = "%s: %w"
	logMessageBatchStarted         = "batch started"
	logMessageBatchStopped         = "batch stopped"
	logMessageBatchCompleted       = "batch completed"
	logMessageSessionFailed        = "session failed; file skipped"
	logFieldFilenameConstant       = "filename"
	logFieldFileCountConstant      = "file_count"
	logFieldPromotedCountConstant  = "promoted_count"
	logFieldInputDirectoryConstant = "input_directory"
)

// Workspace lists input files and promotes finished scratch copies.
type Workspace interface {
	InputFiles() ([]string, error)
	Promote(filename string) (string, error)
}

// SessionRunner edits one file and reports whether the batch continues.
type SessionRunner interface {
	Run(executionContext context.Context, filename string) (commands.Outcome, error)
}

// Screen draws the batch screens.
type Screen interface {
	ClearScreen()
	RenderFileList(directory string, filenames []string, current string)
	Info(message string)
	Error(failure error)
}

// Summary reports what a batch run did.
type Summary struct {
	Promoted []string
	Failed   []string
	Stopped  bool
}

// Driver iterates the input files through editing sessions.
type Driver struct {
	InputDirectory string
	FilePause      time.Duration
	Workspace      Workspace
	Sessions       SessionRunner
	Prompter       prompt.Prompter
	Screen         Screen
	Sleeper        session.Sleeper
	Logger         *zap.Logger
}

// Run processes files in enumeration order until all are done or the user quits.
// A file whose session fails is reported and skipped.
func (driver *Driver) Run(executionContext context.Context) (Summary, error) {
	logger := driver.logger()
	sleeper := driver.Sleeper
	if sleeper == nil {
		sleeper = session.NoopSleeper{}
	}

	filenames, listError := driver.Workspace.InputFiles()
	if listError != nil {
		return Summary{}, listError
	}
	logger.Info(logMessageBatchStarted, zap.String(logFieldInputDirectoryConstant, driver.InputDirectory), zap.Int(logFieldFileCountConstant, len(filenames)))

	summary := Summary{}
	for _, filename := range filenames {
		if contextError := executionContext.Err(); contextError != nil {
			summary.Stopped = true
			return summary, contextError
		}

		driver.Screen.ClearScreen()
		driver.Screen.RenderFileList(driver.InputDirectory, filenames, filename)
		answer, readError := driver.Prompter.ReadLine(continuePromptConstant)
		if readError != nil && !errors.Is(readError, io.EOF) {
			return summary, readError
		}
		if errors.Is(readError, io.EOF) || commands.NormalizeKey(answer) == quitAnswerConstant {
			summary.Stopped = true
			break
		}

		outcome, sessionError := driver.Sessions.Run(executionContext, filename)
		if sessionError != nil {
			if errors.Is(sessionError, context.Canceled) || errors.Is(sessionError, context.DeadlineExceeded) {
				summary.Stopped = true
				return summary, sessionError
			}
			logger.Warn(logMessageSessionFailed, zap.String(logFieldFilenameConstant, filename), zap.Error(sessionError))
			driver.Screen.Error(fmt.Errorf(sessionFailedTemplateConstant, filename, sessionError))
			summary.Failed = append(summary.Failed, filename)
			continue
		}
		if outcome == commands.OutcomeStop {
			summary.Stopped = true
			break
		}

		destination, promoteError := driver.Workspace.Promote(filename)
		if promoteError != nil {
			return summary, promoteError
		}
		summary.Promoted = append(summary.Promoted, filename)
		driver.Screen.Info(fmt.Sprintf(copiedMessageTemplateConstant, destination))
		sleeper.Sleep(executionContext, driver.FilePause)
	}

	if summary.Stopped {
		logger.Info(logMessageBatchStopped, zap.Int(logFieldPromotedCountConstant, len(summary.Promoted)))
	} else {
		logger.Info(logMessageBatchCompleted, zap.Int(logFieldPromotedCountConstant, len(summary.Promoted)))
	}
	return summary, nil
}

func (driver *Driver) logger() *zap.Logger {
	if driver.Logger == nil {
		return zap.NewNop()
	}
	return driver.Logger
}
