// Package cli constructs the hencsv command-line interface, wiring the Cobra
// command hierarchy, the configuration loader, and structured logging. The
// edit and recipe subcommands share one configuration tree loaded from the
// embedded defaults, an optional config.yaml, and HENCSV_* environment variables.
package cli
