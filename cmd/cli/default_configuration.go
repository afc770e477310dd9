package cli

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	defaultConfigurationFileNameConstant        = configurationNameConstant + "." + configurationTypeConstant
	defaultConfigurationFilePermissionsConstant = 0o644
	configurationExistsTemplateConstant         = "%s already exists; rerun with --force to overwrite it"
	configurationInspectErrorTemplateConstant   = "unable to inspect %s: %w"
	configurationWriteErrorTemplateConstant     = "unable to write %s: %w"
)

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns the embedded default configuration data and type identifier.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent, configurationTypeConstant
}

// WriteDefaultConfiguration stores the embedded defaults as config.yaml inside directory and returns its path.
// An existing file is kept unless force is set.
func WriteDefaultConfiguration(directory string, force bool) (string, error) {
	destinationPath := filepath.Join(directory, defaultConfigurationFileNameConstant)

	_, statError := os.Stat(destinationPath)
	switch {
	case statError == nil && !force:
		return "", fmt.Errorf(configurationExistsTemplateConstant, destinationPath)
	case statError != nil && !errors.Is(statError, fs.ErrNotExist):
		return "", fmt.Errorf(configurationInspectErrorTemplateConstant, destinationPath, statError)
	}

	content, _ := EmbeddedDefaultConfiguration()
	if writeError := os.WriteFile(destinationPath, content, defaultConfigurationFilePermissionsConstant); writeError != nil {
		return "", fmt.Errorf(configurationWriteErrorTemplateConstant, destinationPath, writeError)
	}
	return destinationPath, nil
}
