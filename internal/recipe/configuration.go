package recipe

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configurationLoadErrorTemplateConstant      = "failed to load recipe: %w"
	configurationParseErrorTemplateConstant     = "failed to parse recipe: %w"
	configurationPathRequiredMessageConstant    = "recipe path must be provided"
	configurationEmptyStepsMessageConstant      = "recipe must define at least one step"
	configurationCommandMissingTemplateConstant = "recipe step %d missing command key"
)

// Configuration lists the steps of a recipe in execution order.
type Configuration struct {
	Steps []StepConfiguration `yaml:"steps"`
}

// StepConfiguration names a transformation and the arguments it runs with.
type StepConfiguration struct {
	Command   string         `yaml:"command"`
	Arguments map[string]any `yaml:"with"`
}

// LoadConfiguration reads a recipe from disk. Steps may sit at the top level or under a recipe key.
func LoadConfiguration(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(configurationPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}

	return ParseConfiguration(contentBytes)
}

// ParseConfiguration decodes and validates recipe YAML.
func ParseConfiguration(contentBytes []byte) (Configuration, error) {
	var document struct {
		Steps  []StepConfiguration `yaml:"steps"`
		Recipe *Configuration      `yaml:"recipe"`
	}
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}

	configuration := Configuration{Steps: document.Steps}
	if len(configuration.Steps) == 0 && document.Recipe != nil {
		configuration = *document.Recipe
	}

	if len(configuration.Steps) == 0 {
		return Configuration{}, errors.New(configurationEmptyStepsMessageConstant)
	}

	for stepIndex := range configuration.Steps {
		trimmedCommand := strings.TrimSpace(configuration.Steps[stepIndex].Command)
		if len(trimmedCommand) == 0 {
			return Configuration{}, fmt.Errorf(configurationCommandMissingTemplateConstant, stepIndex+1)
		}
		configuration.Steps[stepIndex].Command = trimmedCommand
		if configuration.Steps[stepIndex].Arguments == nil {
			configuration.Steps[stepIndex].Arguments = map[string]any{}
		}
	}

	return configuration, nil
}
