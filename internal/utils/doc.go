// Package utils exposes reusable helpers consumed by the CLI commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// environment variables through Viper. LoggerFactory builds zap loggers that
// write to standard error so interactive screens on standard output stay clean.
package utils
