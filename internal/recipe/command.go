package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hencsv/internal/commands"
	"github.com/temirov/hencsv/internal/ui"
	"github.com/temirov/hencsv/internal/workspace"
)

const (
	commandUseConstant                  = "recipe <file>"
	commandShortDescriptionConstant     = "Replay a recipe of transformations against every input file"
	commandLongDescriptionConstant      = "recipe reads an ordered list of transformation steps from a YAML file, applies them to the scratch copy of every input file, and with --commit copies the results to the output directory."
	commitFlagNameConstant              = "commit"
	commitFlagUsageConstant             = "Copy replayed files to the output directory"
	inputDirectoryFlagNameConstant      = "input-dir"
	inputDirectoryFlagUsageConstant     = "Directory holding the CSV files to edit"
	secondaryDirectoryFlagNameConstant  = "secondary-dir"
	secondaryDirectoryFlagUsageConstant = "Directory searched for join sources"
	outputDirectoryFlagNameConstant     = "output-dir"
	outputDirectoryFlagUsageConstant    = "Directory receiving finished files"
	scratchDirectoryFlagNameConstant    = "scratch-dir"
	scratchDirectoryFlagUsageConstant   = "Directory holding in-progress copies"
	recipePathRequiredMessageConstant   = "recipe path required; provide it as the first argument"
	loadRecipeErrorTemplateConstant     = "unable to load recipe: %w"
	workspacePreparationErrorTemplate   = "unable to prepare workspace: %w"
	registryConstructionErrorTemplate   = "unable to build command registry: %w"
	logMessageRecipeInterruptedConstant = "recipe interrupted"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandConfiguration captures the settings of the recipe command.
type CommandConfiguration struct {
	Workspace workspace.Configuration
	Commit    bool
}

// DefaultCommandConfiguration leaves results in scratch.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Workspace: workspace.DefaultConfiguration(), Commit: false}
}

// CommandBuilder assembles the recipe cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Registry              *commands.Registry
}

// Build constructs the recipe command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().Bool(commitFlagNameConstant, defaults.Commit, commitFlagUsageConstant)
	command.Flags().String(inputDirectoryFlagNameConstant, defaults.Workspace.InputDirectory, inputDirectoryFlagUsageConstant)
	command.Flags().String(secondaryDirectoryFlagNameConstant, defaults.Workspace.SecondaryDirectory, secondaryDirectoryFlagUsageConstant)
	command.Flags().String(outputDirectoryFlagNameConstant, defaults.Workspace.OutputDirectory, outputDirectoryFlagUsageConstant)
	command.Flags().String(scratchDirectoryFlagNameConstant, defaults.Workspace.ScratchDirectory, scratchDirectoryFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	recipePath := ""
	if len(arguments) > 0 {
		recipePath = strings.TrimSpace(arguments[0])
	}
	if len(recipePath) == 0 {
		if helpError := command.Help(); helpError != nil {
			return helpError
		}
		return errors.New(recipePathRequiredMessageConstant)
	}

	recipeConfiguration, loadError := LoadConfiguration(recipePath)
	if loadError != nil {
		return fmt.Errorf(loadRecipeErrorTemplateConstant, loadError)
	}

	configuration := builder.resolveConfiguration(command)
	logger := builder.resolveLogger()

	recipeWorkspace := workspace.New(configuration.Workspace, logger)
	if prepareError := recipeWorkspace.Prepare(); prepareError != nil {
		return fmt.Errorf(workspacePreparationErrorTemplate, prepareError)
	}

	registry := builder.Registry
	if registry == nil {
		defaultRegistry, registryError := commands.DefaultRegistry()
		if registryError != nil {
			return fmt.Errorf(registryConstructionErrorTemplate, registryError)
		}
		registry = defaultRegistry
	}

	runner := &Runner{
		Registry:  registry,
		Workspace: recipeWorkspace,
		Reporter:  ui.NewConsole(command.OutOrStdout(), ui.ConsoleOptions{}),
		Logger:    logger,
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	_, runError := runner.Run(executionContext, recipeConfiguration, Options{Commit: configuration.Commit})
	if errors.Is(runError, context.Canceled) {
		logger.Info(logMessageRecipeInterruptedConstant)
		return nil
	}
	return runError
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(commitFlagNameConstant) {
		configuration.Commit, _ = flagSet.GetBool(commitFlagNameConstant)
	}
	directoryOverrides := []struct {
		flagName string
		target   *string
	}{
		{flagName: inputDirectoryFlagNameConstant, target: &configuration.Workspace.InputDirectory},
		{flagName: secondaryDirectoryFlagNameConstant, target: &configuration.Workspace.SecondaryDirectory},
		{flagName: outputDirectoryFlagNameConstant, target: &configuration.Workspace.OutputDirectory},
		{flagName: scratchDirectoryFlagNameConstant, target: &configuration.Workspace.ScratchDirectory},
	}
	for _, override := range directoryOverrides {
		if flagSet.Changed(override.flagName) {
			*override.target, _ = flagSet.GetString(override.flagName)
		}
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
