package commands

import (
	"context"
	"fmt"
	"strings"

	editerrors "github.com/temirov/hencsv/internal/errors"
	"github.com/temirov/hencsv/internal/table"
)

const (
	stringReplaceKeyConstant            = "srp"
	stringReplaceNameConstant           = "string-replace"
	stringReplacePatternPrompt          = "Enter the target and replacement strings separated by a slash (/): "
	stringReplacePatternSeparator       = "/"
	stringReplacePatternReasonTemplate  = "pattern %q must contain exactly one %q"
	stringReplaceSuccessMessageTemplate = "Replaced %s with %s"
)

// StringReplaceArguments carries a "target/replacement" pattern.
type StringReplaceArguments struct {
	Pattern string `mapstructure:"pattern"`
}

// StringReplace overwrites every cell containing a target substring with a replacement value.
// The whole cell is replaced, not only the matching substring.
type StringReplace struct{}

func (StringReplace) Key() string  { return stringReplaceKeyConstant }
func (StringReplace) Name() string { return stringReplaceNameConstant }

func (StringReplace) CollectArguments(_ context.Context, environment *Environment) (Arguments, error) {
	pattern, readError := environment.Prompter.ReadLine(stringReplacePatternPrompt)
	if readError != nil {
		return nil, readError
	}
	return StringReplaceArguments{Pattern: pattern}, nil
}

func (command StringReplace) DecodeArguments(raw map[string]any) (Arguments, error) {
	return decodeArguments[StringReplaceArguments](command.Name(), raw)
}

func (command StringReplace) Apply(_ context.Context, environment *Environment, current *table.Table, _ string, arguments Arguments) (*table.Table, error) {
	replaceArguments, argumentsError := expectArguments[StringReplaceArguments](command.Name(), arguments)
	if argumentsError != nil {
		return nil, argumentsError
	}

	target, replacement, parseError := splitReplacePattern(command.Name(), replaceArguments.Pattern)
	if parseError != nil {
		return nil, parseError
	}

	replaced := current.MapCells(func(cell string) string {
		if strings.Contains(cell, target) {
			return replacement
		}
		return cell
	})

	environment.success(fmt.Sprintf(stringReplaceSuccessMessageTemplate, target, replacement))
	return replaced, nil
}

func splitReplacePattern(commandName string, pattern string) (string, string, error) {
	parts := strings.Split(pattern, stringReplacePatternSeparator)
	if len(parts) != 2 {
		return "", "", editerrors.NewInvalidArgument(commandName, fmt.Sprintf(stringReplacePatternReasonTemplate, pattern, stringReplacePatternSeparator))
	}
	return parts[0], parts[1], nil
}
