package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hencsv/internal/commands"
	"github.com/temirov/hencsv/internal/prompt"
	"github.com/temirov/hencsv/internal/session"
	"github.com/temirov/hencsv/internal/ui"
	"github.com/temirov/hencsv/internal/utils/flags"
	"github.com/temirov/hencsv/internal/workspace"
)

const (
	commandUseConstant                  = "edit"
	commandShortDescriptionConstant     = "Interactively edit every CSV file of the input directory"
	commandLongDescriptionConstant      = "edit steps through each CSV file of the input directory, applies transformation commands with undo support, and copies finished files to the output directory."
	inputDirectoryFlagNameConstant      = "input-dir"
	inputDirectoryFlagUsageConstant     = "Directory holding the CSV files to edit"
	secondaryDirectoryFlagNameConstant  = "secondary-dir"
	secondaryDirectoryFlagUsageConstant = "Directory searched for join sources"
	outputDirectoryFlagNameConstant     = "output-dir"
	outputDirectoryFlagUsageConstant    = "Directory receiving finished files"
	scratchDirectoryFlagNameConstant    = "scratch-dir"
	scratchDirectoryFlagUsageConstant   = "Directory holding in-progress copies"
	autosaveFlagNameConstant            = "autosave"
	autosaveFlagUsageConstant           = "Save the scratch copy after every change"
	clearScreenFlagNameConstant         = "clear-screen"
	clearScreenFlagUsageConstant        = "Clear the terminal before each screen"
	workspacePreparationErrorTemplate   = "unable to prepare workspace: %w"
	registryConstructionErrorTemplate   = "unable to build command registry: %w"
	batchExecutionErrorTemplate         = "edit failed: %w"
	logMessageBatchInterrupted          = "batch interrupted"
	logFieldPromotedFilesConstant       = "promoted_files"
	logFieldFailedFilesConstant         = "failed_files"
	logMessageBatchSummaryConstant      = "batch summary"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the edit cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Registry              *commands.Registry
	Sleeper               session.Sleeper
}

type commandOptions struct {
	inputDirectory     string
	secondaryDirectory string
	outputDirectory    string
	scratchDirectory   string
	autosave           bool
	clearScreen        bool
}

// Build constructs the edit command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	options := &commandOptions{}
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, options)
		},
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().StringVar(&options.inputDirectory, inputDirectoryFlagNameConstant, defaults.Workspace.InputDirectory, inputDirectoryFlagUsageConstant)
	command.Flags().StringVar(&options.secondaryDirectory, secondaryDirectoryFlagNameConstant, defaults.Workspace.SecondaryDirectory, secondaryDirectoryFlagUsageConstant)
	command.Flags().StringVar(&options.outputDirectory, outputDirectoryFlagNameConstant, defaults.Workspace.OutputDirectory, outputDirectoryFlagUsageConstant)
	command.Flags().StringVar(&options.scratchDirectory, scratchDirectoryFlagNameConstant, defaults.Workspace.ScratchDirectory, scratchDirectoryFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &options.autosave, autosaveFlagNameConstant, defaults.Session.Autosave, autosaveFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), &options.clearScreen, clearScreenFlagNameConstant, defaults.Session.ClearScreen, clearScreenFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, options *commandOptions) error {
	configuration := builder.resolveConfiguration(command, options)
	logger := builder.resolveLogger()

	editWorkspace := workspace.New(configuration.Workspace, logger)
	if prepareError := editWorkspace.Prepare(); prepareError != nil {
		return fmt.Errorf(workspacePreparationErrorTemplate, prepareError)
	}

	registry, registryError := builder.resolveRegistry()
	if registryError != nil {
		return fmt.Errorf(registryConstructionErrorTemplate, registryError)
	}

	output := command.OutOrStdout()
	console := ui.NewConsole(output, ui.ConsoleOptions{ClearScreen: configuration.Session.ClearScreen})
	prompter := resolvePrompter(command.InOrStdin(), output)
	sleeper := builder.resolveSleeper()

	loop := session.NewLoop(configuration.Session, session.Dependencies{
		Registry:  registry,
		Workspace: editWorkspace,
		Prompter:  prompter,
		Screen:    console,
		Sleeper:   sleeper,
		Observer:  ui.NewCommandEventLogger(logger),
		Logger:    logger,
	})

	driver := &Driver{
		InputDirectory: editWorkspace.Configuration().InputDirectory,
		FilePause:      configuration.Session.FilePause,
		Workspace:      editWorkspace,
		Sessions:       loop,
		Prompter:       prompter,
		Screen:         console,
		Sleeper:        sleeper,
		Logger:         logger,
	}

	summary, runError := driver.Run(command.Context())
	logger.Debug(
		logMessageBatchSummaryConstant,
		zap.Strings(logFieldPromotedFilesConstant, summary.Promoted),
		zap.Strings(logFieldFailedFilesConstant, summary.Failed),
	)
	if runError != nil {
		if errors.Is(runError, context.Canceled) {
			logger.Info(logMessageBatchInterrupted)
			return nil
		}
		return fmt.Errorf(batchExecutionErrorTemplate, runError)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command, options *commandOptions) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(inputDirectoryFlagNameConstant) {
		configuration.Workspace.InputDirectory = options.inputDirectory
	}
	if flagSet.Changed(secondaryDirectoryFlagNameConstant) {
		configuration.Workspace.SecondaryDirectory = options.secondaryDirectory
	}
	if flagSet.Changed(outputDirectoryFlagNameConstant) {
		configuration.Workspace.OutputDirectory = options.outputDirectory
	}
	if flagSet.Changed(scratchDirectoryFlagNameConstant) {
		configuration.Workspace.ScratchDirectory = options.scratchDirectory
	}
	if flagSet.Changed(autosaveFlagNameConstant) {
		configuration.Session.Autosave = options.autosave
	}
	if flagSet.Changed(clearScreenFlagNameConstant) {
		configuration.Session.ClearScreen = options.clearScreen
	}
	return configuration
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveRegistry() (*commands.Registry, error) {
	if builder.Registry != nil {
		return builder.Registry, nil
	}
	return commands.DefaultRegistry()
}

func (builder *CommandBuilder) resolveSleeper() session.Sleeper {
	if builder.Sleeper != nil {
		return builder.Sleeper
	}
	return session.TimerSleeper{}
}

func resolvePrompter(input io.Reader, output io.Writer) prompt.Prompter {
	if inputFile, isFile := input.(*os.File); isFile {
		return prompt.NewPrompter(inputFile, output)
	}
	return prompt.NewIOPrompter(input, output)
}
