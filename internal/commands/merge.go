package commands

import (
	"context"
	"fmt"
	"strings"

	editerrors "github.com/temirov/hencsv/internal/errors"
	"github.com/temirov/hencsv/internal/table"
)

const (
	mergeColumnsKeyConstant            = "mc"
	mergeColumnsNameConstant           = "merge-columns"
	mergeColumnsStartPrompt            = "Enter the 0-indexed start column to merge: "
	mergeColumnsEndPrompt              = "Enter the 0-indexed end column to merge: "
	mergeColumnsNamePrompt             = "Enter the new column name: "
	mergeColumnsRangeReasonTemplate    = "column range [%d, %d] is outside the %d available columns"
	mergeColumnsReversedReasonTemplate = "start column %d is after end column %d"
	mergeColumnsSuccessMessage         = "Successfully merged columns"
)

// MergeColumnsArguments selects the inclusive column range [Start, End] and names the merged column.
type MergeColumnsArguments struct {
	Start int    `mapstructure:"start"`
	End   int    `mapstructure:"end"`
	Name  string `mapstructure:"name"`
}

// MergeColumns concatenates a range of columns row by row into a single column.
type MergeColumns struct{}

func (MergeColumns) Key() string  { return mergeColumnsKeyConstant }
func (MergeColumns) Name() string { return mergeColumnsNameConstant }

func (command MergeColumns) CollectArguments(_ context.Context, environment *Environment) (Arguments, error) {
	start, startError := promptInteger(environment, command.Name(), mergeColumnsStartPrompt)
	if startError != nil {
		return nil, startError
	}
	end, endError := promptInteger(environment, command.Name(), mergeColumnsEndPrompt)
	if endError != nil {
		return nil, endError
	}
	name, nameError := environment.Prompter.ReadLine(mergeColumnsNamePrompt)
	if nameError != nil {
		return nil, nameError
	}
	return MergeColumnsArguments{Start: start, End: end, Name: name}, nil
}

func (command MergeColumns) DecodeArguments(raw map[string]any) (Arguments, error) {
	return decodeArguments[MergeColumnsArguments](command.Name(), raw)
}

// Apply removes columns Start..End inclusive and inserts their per-row concatenation at Start.
func (command MergeColumns) Apply(_ context.Context, environment *Environment, current *table.Table, _ string, arguments Arguments) (*table.Table, error) {
	mergeArguments, argumentsError := expectArguments[MergeColumnsArguments](command.Name(), arguments)
	if argumentsError != nil {
		return nil, argumentsError
	}

	start, end := mergeArguments.Start, mergeArguments.End
	if start < 0 || end < 0 || start >= current.ColumnCount() || end >= current.ColumnCount() {
		return nil, editerrors.NewInvalidArgument(command.Name(), fmt.Sprintf(mergeColumnsRangeReasonTemplate, start, end, current.ColumnCount()))
	}
	if start > end {
		return nil, editerrors.NewInvalidArgument(command.Name(), fmt.Sprintf(mergeColumnsReversedReasonTemplate, start, end))
	}

	sourceColumns, columnsError := current.Columns(start, end+1)
	if columnsError != nil {
		return nil, editerrors.InvalidArgumentError{Command: command.Name(), Reason: columnsError.Error()}
	}

	mergedValues := make([]string, current.RowCount())
	for rowIndex := range mergedValues {
		var builder strings.Builder
		for _, column := range sourceColumns {
			builder.WriteString(column.Values[rowIndex])
		}
		mergedValues[rowIndex] = builder.String()
	}

	remaining, removeError := current.WithoutColumns(start, end+1)
	if removeError != nil {
		return nil, editerrors.InvalidArgumentError{Command: command.Name(), Reason: removeError.Error()}
	}
	merged, insertError := remaining.WithColumns(start, []table.Column{{Name: mergeArguments.Name, Values: mergedValues}})
	if insertError != nil {
		return nil, editerrors.InvalidArgumentError{Command: command.Name(), Reason: insertError.Error()}
	}

	environment.success(mergeColumnsSuccessMessage)
	return merged, nil
}
