package workspace

import (
	"strings"

	pathutils "github.com/temirov/hencsv/internal/utils/path"
)

const (
	defaultInputDirectoryConstant     = "csv_files"
	defaultSecondaryDirectoryConstant = "csv_files_2"
	defaultOutputDirectoryConstant    = "csv_output_files"
	defaultScratchDirectoryConstant   = "tmp_csv_files"
)

var homeExpander = pathutils.NewHomeExpander()

// Configuration names the four sibling directories an editing batch works across.
type Configuration struct {
	InputDirectory     string `mapstructure:"input_directory"`
	SecondaryDirectory string `mapstructure:"secondary_directory"`
	OutputDirectory    string `mapstructure:"output_directory"`
	ScratchDirectory   string `mapstructure:"scratch_directory"`
}

// DefaultConfiguration returns the conventional directory layout.
func DefaultConfiguration() Configuration {
	return Configuration{
		InputDirectory:     defaultInputDirectoryConstant,
		SecondaryDirectory: defaultSecondaryDirectoryConstant,
		OutputDirectory:    defaultOutputDirectoryConstant,
		ScratchDirectory:   defaultScratchDirectoryConstant,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + ".input_directory":     defaults.InputDirectory,
		prefix + ".secondary_directory": defaults.SecondaryDirectory,
		prefix + ".output_directory":    defaults.OutputDirectory,
		prefix + ".scratch_directory":   defaults.ScratchDirectory,
	}
}

// sanitize trims directory names, expands a leading "~", and falls back to defaults for blank entries.
func (configuration Configuration) sanitize() Configuration {
	defaults := DefaultConfiguration()
	return Configuration{
		InputDirectory:     directoryOrDefault(configuration.InputDirectory, defaults.InputDirectory),
		SecondaryDirectory: directoryOrDefault(configuration.SecondaryDirectory, defaults.SecondaryDirectory),
		OutputDirectory:    directoryOrDefault(configuration.OutputDirectory, defaults.OutputDirectory),
		ScratchDirectory:   directoryOrDefault(configuration.ScratchDirectory, defaults.ScratchDirectory),
	}
}

func directoryOrDefault(candidate string, fallback string) string {
	trimmed := strings.TrimSpace(candidate)
	if len(trimmed) == 0 {
		return fallback
	}
	return homeExpander.Expand(trimmed)
}
