package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/hencsv/internal/batch"
	"github.com/temirov/hencsv/internal/commands"
	"github.com/temirov/hencsv/internal/recipe"
	"github.com/temirov/hencsv/internal/session"
	"github.com/temirov/hencsv/internal/utils"
	"github.com/temirov/hencsv/internal/utils/flags"
	"github.com/temirov/hencsv/internal/workspace"
)

const (
	applicationNameConstant                 = "hencsv"
	applicationShortDescriptionConstant     = "Batch-edit a directory of CSV files"
	applicationLongDescriptionConstant      = "hencsv steps through the CSV files of an input directory, applies named transformations with undo support, and copies the results to an output directory."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	initFlagNameConstant                    = "init"
	initFlagUsageConstant                   = "Write the default configuration to ./config.yaml and exit."
	forceFlagNameConstant                   = "force"
	forceFlagUsageConstant                  = "Overwrite an existing config.yaml when used with --init."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	workspaceConfigurationKeyConstant       = "workspace"
	sessionConfigurationKeyConstant         = "session"
	recipeCommitConfigKeyConstant           = "recipe.commit"
	environmentPrefixConstant               = "HENCSV"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
	configurationWrittenTemplateConstant    = "Wrote default configuration to %s\n"
	rootCommandDebugMessageConstant         = "hencsv CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentsConstant               = "arguments"
	defaultConfigurationSearchPathConstant  = "."
	editCommandNameConstant                 = "edit"
	recipeCommandNameConstant               = "recipe"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Workspace workspace.Configuration        `mapstructure:"workspace"`
	Session   session.Configuration          `mapstructure:"session"`
	Recipe    ApplicationRecipeConfiguration `mapstructure:"recipe"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationRecipeConfiguration stores recipe command defaults.
type ApplicationRecipeConfiguration struct {
	Commit bool `mapstructure:"commit"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand             *cobra.Command
	configurationLoader     *utils.ConfigurationLoader
	loggerFactory           *utils.LoggerFactory
	logger                  *zap.Logger
	configuration           ApplicationConfiguration
	configurationMetadata   utils.LoadedConfiguration
	configurationFilePath   string
	logLevelFlagValue       string
	logFormatFlagValue      string
	initializeRequested     bool
	forceInitialization     bool
	initializationDirectory string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() (*Application, error) {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:     configurationLoader,
		loggerFactory:           utils.NewLoggerFactory(),
		logger:                  zap.NewNop(),
		initializationDirectory: defaultConfigurationSearchPathConstant,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flags.AddChoiceFlag(persistentFlags, &application.logLevelFlagValue, logLevelFlagNameConstant, string(utils.LogLevelError), utils.LogLevelNames, logLevelFlagUsageConstant)
	flags.AddChoiceFlag(persistentFlags, &application.logFormatFlagValue, logFormatFlagNameConstant, string(utils.LogFormatStructured), utils.LogFormatNames, logFormatFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.initializeRequested, initFlagNameConstant, false, initFlagUsageConstant)
	cobraCommand.Flags().BoolVar(&application.forceInitialization, forceFlagNameConstant, false, forceFlagUsageConstant)

	registry, registryError := commands.DefaultRegistry()
	if registryError != nil {
		return nil, registryError
	}

	editBuilder := batch.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: application.editConfiguration,
		Registry:              registry,
	}
	editCommand, editBuildError := editBuilder.Build()
	if editBuildError != nil {
		return nil, fmt.Errorf(commandBuildErrorTemplateConstant, editCommandNameConstant, editBuildError)
	}
	cobraCommand.AddCommand(editCommand)

	recipeBuilder := recipe.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: application.recipeConfiguration,
		Registry:              registry,
	}
	recipeCommand, recipeBuildError := recipeBuilder.Build()
	if recipeBuildError != nil {
		return nil, fmt.Errorf(commandBuildErrorTemplateConstant, recipeCommandNameConstant, recipeBuildError)
	}
	cobraCommand.AddCommand(recipeCommand)

	application.rootCommand = cobraCommand

	return application, nil
}

// Execute runs the configured Cobra command hierarchy until completion or an interrupt and flushes the logger.
func (application *Application) Execute() error {
	signalContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	executionError := application.rootCommand.ExecuteContext(signalContext)
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	application, applicationError := NewApplication()
	if applicationError != nil {
		return applicationError
	}
	return application.Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelError),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
		recipeCommitConfigKeyConstant:    false,
	}
	for configurationKey, configurationValue := range workspace.DefaultConfigurationValues(workspaceConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range session.DefaultConfigurationValues(sessionConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) editConfiguration() batch.CommandConfiguration {
	return batch.CommandConfiguration{
		Workspace: application.configuration.Workspace,
		Session:   application.configuration.Session.Sanitize(),
	}
}

func (application *Application) recipeConfiguration() recipe.CommandConfiguration {
	return recipe.CommandConfiguration{
		Workspace: application.configuration.Workspace,
		Commit:    application.configuration.Recipe.Commit,
	}
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if !application.initializeRequested {
		return command.Help()
	}

	writtenPath, writeError := WriteDefaultConfiguration(application.initializationDirectory, application.forceInitialization)
	if writeError != nil {
		return writeError
	}
	_, printError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenTemplateConstant, writtenPath)
	return printError
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
