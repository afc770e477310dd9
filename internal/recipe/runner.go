package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/hencsv/internal/commands"
	editerrors "github.com/temirov/hencsv/internal/errors"
)

const (
	controlStepReasonTemplateConstant = "step %d uses control command '%s'; recipes accept transformations only"
	undoStepReasonTemplateConstant    = "step %d uses the undo key; recipes accept transformations only"
	decodeStepErrorTemplateConstant   = "step %d (%s): %w"
	recipeCommandLabelConstant        = "recipe"
	failedFilesTemplateConstant       = "recipe failed for %d files: %s"
	failedFileEntryTemplateConstant   = "%s (%v)"
	failedFilesSeparatorConstant      = "; "
	fileReplayedMessageTemplate       = "Saved to %s"
	filePromotedMessageTemplate       = "Copied file to %s"
	fileFailedMessageTemplate         = "Skipped %s: %v"
	recipeSummaryMessageTemplate      = "Applied %d steps to %d files"
	logMessageRecipeFileFailed        = "recipe replay failed"
	logMessageRecipeFileReplayed      = "recipe replayed"
	logMessageRecipeCompleted         = "recipe completed"
	logFieldFilenameConstant          = "filename"
	logFieldStepCountConstant         = "step_count"
	logFieldFailedFileCountConstant   = "failed_file_count"
	logFieldReplayedFileCountConstant = "replayed_file_count"
)

// Workspace exposes the file operations a recipe run needs.
type Workspace interface {
	commands.Workspace
	Promote(filename string) (string, error)
}

// FileFailure pairs a file with the error that stopped its replay.
type FileFailure struct {
	Filename string
	Cause    error
}

// RunError aggregates the files a recipe could not be applied to.
type RunError struct {
	Failures []FileFailure
}

func (failure RunError) Error() string {
	entries := make([]string, 0, len(failure.Failures))
	for _, fileFailure := range failure.Failures {
		entries = append(entries, fmt.Sprintf(failedFileEntryTemplateConstant, fileFailure.Filename, fileFailure.Cause))
	}
	return fmt.Sprintf(failedFilesTemplateConstant, len(failure.Failures), strings.Join(entries, failedFilesSeparatorConstant))
}

// Unwrap exposes every per-file cause to errors.Is and errors.As.
func (failure RunError) Unwrap() []error {
	causes := make([]error, 0, len(failure.Failures))
	for _, fileFailure := range failure.Failures {
		causes = append(causes, fileFailure.Cause)
	}
	return causes
}

// Options controls a recipe run.
type Options struct {
	Commit bool
}

// Summary lists what a run touched.
type Summary struct {
	Replayed []string
	Promoted []string
	Failed   []string
}

// Runner applies recipes through a command registry.
type Runner struct {
	Registry  *commands.Registry
	Workspace Workspace
	Reporter  commands.Reporter
	Logger    *zap.Logger
}

// Compile resolves every step to a registered transformation and decodes its arguments.
func (runner *Runner) Compile(configuration Configuration) ([]commands.Invocation, error) {
	invocations := make([]commands.Invocation, 0, len(configuration.Steps))
	for stepIndex, step := range configuration.Steps {
		stepNumber := stepIndex + 1
		resolution := runner.Registry.Resolve(step.Command)
		switch resolution.Kind {
		case commands.ResolutionUnknown:
			return nil, fmt.Errorf(decodeStepErrorTemplateConstant, stepNumber, resolution.Key, editerrors.UnknownCommandError{Key: resolution.Key})
		case commands.ResolutionUndo:
			return nil, editerrors.NewInvalidArgument(recipeCommandLabelConstant, fmt.Sprintf(undoStepReasonTemplateConstant, stepNumber))
		case commands.ResolutionControl:
			return nil, editerrors.NewInvalidArgument(recipeCommandLabelConstant, fmt.Sprintf(controlStepReasonTemplateConstant, stepNumber, resolution.Key))
		}

		arguments, decodeError := resolution.Transformation.DecodeArguments(step.Arguments)
		if decodeError != nil {
			return nil, fmt.Errorf(decodeStepErrorTemplateConstant, stepNumber, resolution.Key, decodeError)
		}
		invocations = append(invocations, commands.Invocation{Key: resolution.Key, Arguments: arguments})
	}
	return invocations, nil
}

// Run replays the recipe against every input file. Files that fail are reported and skipped;
// the returned error is a RunError naming them.
func (runner *Runner) Run(executionContext context.Context, configuration Configuration, options Options) (Summary, error) {
	summary := Summary{}
	invocations, compileError := runner.Compile(configuration)
	if compileError != nil {
		return summary, compileError
	}

	filenames, listError := runner.Workspace.InputFiles()
	if listError != nil {
		return summary, listError
	}

	environment := &commands.Environment{
		Workspace: runner.Workspace,
		Reporter:  stepReporter{target: runner.Reporter},
		Logger:    runner.logger(),
	}

	failures := make([]FileFailure, 0)
	for _, filename := range filenames {
		if contextError := executionContext.Err(); contextError != nil {
			return summary, contextError
		}

		replayError := runner.replayFile(executionContext, environment, filename, invocations)
		if replayError != nil {
			if errors.Is(replayError, context.Canceled) {
				return summary, replayError
			}
			failures = append(failures, FileFailure{Filename: filename, Cause: replayError})
			summary.Failed = append(summary.Failed, filename)
			runner.logger().Warn(logMessageRecipeFileFailed, zap.String(logFieldFilenameConstant, filename), zap.Error(replayError))
			runner.warning(fmt.Sprintf(fileFailedMessageTemplate, filename, replayError))
			continue
		}
		summary.Replayed = append(summary.Replayed, filename)

		if !options.Commit {
			continue
		}
		destination, promoteError := runner.Workspace.Promote(filename)
		if promoteError != nil {
			failures = append(failures, FileFailure{Filename: filename, Cause: promoteError})
			summary.Failed = append(summary.Failed, filename)
			runner.warning(fmt.Sprintf(fileFailedMessageTemplate, filename, promoteError))
			continue
		}
		summary.Promoted = append(summary.Promoted, filename)
		runner.info(fmt.Sprintf(filePromotedMessageTemplate, destination))
	}

	runner.logger().Info(
		logMessageRecipeCompleted,
		zap.Int(logFieldStepCountConstant, len(invocations)),
		zap.Int(logFieldReplayedFileCountConstant, len(summary.Replayed)),
		zap.Int(logFieldFailedFileCountConstant, len(failures)),
	)
	if runner.Reporter != nil {
		runner.Reporter.Success(fmt.Sprintf(recipeSummaryMessageTemplate, len(invocations), len(summary.Replayed)))
	}

	if len(failures) > 0 {
		return summary, RunError{Failures: failures}
	}
	return summary, nil
}

func (runner *Runner) replayFile(executionContext context.Context, environment *commands.Environment, filename string, invocations []commands.Invocation) error {
	working, loadError := runner.Workspace.LoadWorking(filename)
	if loadError != nil {
		return loadError
	}
	replayed, replayError := runner.Registry.Replay(executionContext, environment, working, filename, invocations)
	if replayError != nil {
		return replayError
	}
	if saveError := runner.Workspace.SaveScratch(filename, replayed); saveError != nil {
		return saveError
	}
	runner.logger().Debug(logMessageRecipeFileReplayed, zap.String(logFieldFilenameConstant, filename))
	runner.info(fmt.Sprintf(fileReplayedMessageTemplate, runner.Workspace.Paths(filename).Scratch))
	return nil
}

// stepReporter forwards step messages to the run reporter except per-step success lines,
// which the run summary stands in for.
type stepReporter struct {
	target commands.Reporter
}

func (reporter stepReporter) Info(message string) {
	if reporter.target != nil {
		reporter.target.Info(message)
	}
}

func (stepReporter) Success(string) {}

func (reporter stepReporter) Warning(message string) {
	if reporter.target != nil {
		reporter.target.Warning(message)
	}
}

func (reporter stepReporter) Error(failure error) {
	if reporter.target != nil {
		reporter.target.Error(failure)
	}
}

func (runner *Runner) logger() *zap.Logger {
	if runner.Logger == nil {
		return zap.NewNop()
	}
	return runner.Logger
}

func (runner *Runner) info(message string) {
	if runner.Reporter != nil {
		runner.Reporter.Info(message)
	}
}

func (runner *Runner) warning(message string) {
	if runner.Reporter != nil {
		runner.Reporter.Warning(message)
	}
}
