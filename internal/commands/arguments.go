package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	editerrors "github.com/temirov/hencsv/internal/errors"
)

const (
	argumentsTagNameConstant            = "mapstructure"
	argumentsDecodeReasonConstant       = "unable to decode arguments"
	argumentsTypeReasonTemplateConstant = "unexpected arguments of type %T"
	integerReasonTemplateConstant       = "%q is not an integer"
)

// NoArguments is the argument value of transformations that take no input.
type NoArguments struct{}

func decodeArguments[Target any](commandName string, raw map[string]any) (Target, error) {
	var target Target
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          argumentsTagNameConstant,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &target,
	})
	if decoderError != nil {
		return target, decoderError
	}
	if decodeError := decoder.Decode(raw); decodeError != nil {
		return target, editerrors.InvalidArgumentError{Command: commandName, Reason: argumentsDecodeReasonConstant, Cause: decodeError}
	}
	return target, nil
}

func expectArguments[Target any](commandName string, arguments Arguments) (Target, error) {
	switch typed := arguments.(type) {
	case Target:
		return typed, nil
	case *Target:
		if typed != nil {
			return *typed, nil
		}
	}
	var zero Target
	return zero, editerrors.NewInvalidArgument(commandName, fmt.Sprintf(argumentsTypeReasonTemplateConstant, arguments))
}

func promptInteger(environment *Environment, commandName string, prompt string) (int, error) {
	response, readError := environment.Prompter.ReadLine(prompt)
	if readError != nil {
		return 0, readError
	}
	trimmed := strings.TrimSpace(response)
	value, parseError := strconv.Atoi(trimmed)
	if parseError != nil {
		return 0, editerrors.NewInvalidArgument(commandName, fmt.Sprintf(integerReasonTemplateConstant, trimmed))
	}
	return value, nil
}
