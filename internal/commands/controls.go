package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	saveKeyConstant                  = "s"
	saveNameConstant                 = "save"
	applyAllKeyConstant              = "a"
	applyAllNameConstant             = "apply-all"
	skipKeyConstant                  = "sk"
	skipNameConstant                 = "skip"
	quitKeyConstant                  = "q"
	quitNameConstant                 = "quit"
	savedMessageTemplate             = "Saved to %s"
	applyAllFailureTemplate          = "Skipped %s: %v"
	applyAllSummaryTemplate          = "Applied %d commands to %d other files"
	logMessageApplyAllFileFailed     = "apply-all replay failed"
	logFieldInvocationCount          = "invocation_count"
	logFieldApplyAllSkippedFileCount = "skipped_file_count"
	logMessageApplyAllCompleted      = "apply-all completed"
)

// Save persists the current table to the scratch copy.
type Save struct{}

func (Save) Key() string  { return saveKeyConstant }
func (Save) Name() string { return saveNameConstant }

func (Save) Execute(_ context.Context, environment *Environment, _ *Registry, request ControlRequest) (Outcome, error) {
	if saveError := saveCurrent(environment, request); saveError != nil {
		return OutcomeContinue, saveError
	}
	return OutcomeContinue, nil
}

// ApplyAll replays the session's command stack against every other input file and saves the results.
type ApplyAll struct{}

func (ApplyAll) Key() string  { return applyAllKeyConstant }
func (ApplyAll) Name() string { return applyAllNameConstant }

// Execute skips files whose replay fails, reporting each one, and always saves the current file last.
func (ApplyAll) Execute(executionContext context.Context, environment *Environment, registry *Registry, request ControlRequest) (Outcome, error) {
	filenames, listError := environment.Workspace.InputFiles()
	if listError != nil {
		return OutcomeContinue, listError
	}

	appliedCount := 0
	skippedCount := 0
	for _, filename := range filenames {
		if filename == request.Filename {
			continue
		}
		if contextError := executionContext.Err(); contextError != nil {
			return OutcomeStop, contextError
		}

		replayError := replayInto(executionContext, environment, registry, filename, request.Invocations)
		if replayError != nil {
			skippedCount++
			environment.logger().Warn(logMessageApplyAllFileFailed, zap.String(logFieldFilename, filename), zap.Error(replayError))
			environment.warning(fmt.Sprintf(applyAllFailureTemplate, filename, replayError))
			continue
		}
		appliedCount++
	}

	if saveError := saveCurrent(environment, request); saveError != nil {
		return OutcomeContinue, saveError
	}

	environment.logger().Info(
		logMessageApplyAllCompleted,
		zap.Int(logFieldInvocationCount, len(request.Invocations)),
		zap.Int(logFieldApplyAllSkippedFileCount, skippedCount),
	)
	environment.info(fmt.Sprintf(applyAllSummaryTemplate, len(request.Invocations), appliedCount))
	return OutcomeContinue, nil
}

// Skip leaves the file as it is and moves on.
type Skip struct{}

func (Skip) Key() string  { return skipKeyConstant }
func (Skip) Name() string { return skipNameConstant }

func (Skip) Execute(context.Context, *Environment, *Registry, ControlRequest) (Outcome, error) {
	return OutcomeContinue, nil
}

// Quit stops the batch.
type Quit struct{}

func (Quit) Key() string  { return quitKeyConstant }
func (Quit) Name() string { return quitNameConstant }

func (Quit) Execute(context.Context, *Environment, *Registry, ControlRequest) (Outcome, error) {
	return OutcomeStop, nil
}

func replayInto(executionContext context.Context, environment *Environment, registry *Registry, filename string, invocations []Invocation) error {
	working, loadError := environment.Workspace.LoadWorking(filename)
	if loadError != nil {
		return loadError
	}
	replayed, replayError := registry.Replay(executionContext, environment, working, filename, invocations)
	if replayError != nil {
		return replayError
	}
	if saveError := environment.Workspace.SaveScratch(filename, replayed); saveError != nil {
		return saveError
	}
	environment.info(fmt.Sprintf(savedMessageTemplate, environment.Workspace.Paths(filename).Scratch))
	return nil
}

func saveCurrent(environment *Environment, request ControlRequest) error {
	if saveError := environment.Workspace.SaveScratch(request.Filename, request.Table); saveError != nil {
		return saveError
	}
	environment.info(fmt.Sprintf(savedMessageTemplate, environment.Workspace.Paths(request.Filename).Scratch))
	return nil
}
