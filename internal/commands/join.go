package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	editerrors "github.com/temirov/hencsv/internal/errors"
	"github.com/temirov/hencsv/internal/table"
)

const (
	joinColumnsKeyConstant               = "jn"
	joinColumnsNameConstant              = "join-columns"
	joinColumnsPreviewRowsConstant       = 10
	joinColumnsFilePromptTemplate        = "Enter a csv file from %s (use tab completion): "
	joinColumnsInsertionPrompt           = "Enter the 0-indexed insertion point for file1: "
	joinColumnsStartPrompt               = "Enter the 0-index start column for file2: "
	joinColumnsEndPrompt                 = "Enter the 0-index end column for file2: "
	joinColumnsMissingFileReasonTemplate = "join source %s does not exist"
	joinColumnsEmptyFileReason           = "join source must be provided"
	joinColumnsInsertionReasonTemplate   = "insertion point %d is outside [0, %d]"
	joinColumnsRangeReasonTemplate       = "column range [%d, %d) is outside the %d columns of %s"
	joinColumnsSuccessMessageTemplate    = "Joined %d columns from %s"
)

// JoinColumnsArguments selects the half-open column range [Start, End) of File and where to insert it.
type JoinColumnsArguments struct {
	File      string `mapstructure:"file"`
	Insertion int    `mapstructure:"insertion"`
	Start     int    `mapstructure:"start"`
	End       int    `mapstructure:"end"`
}

// JoinColumns splices columns of a second CSV file into the current table.
type JoinColumns struct{}

func (JoinColumns) Key() string  { return joinColumnsKeyConstant }
func (JoinColumns) Name() string { return joinColumnsNameConstant }

func (command JoinColumns) CollectArguments(_ context.Context, environment *Environment) (Arguments, error) {
	secondaryDirectory := environment.Workspace.SecondaryDirectory()
	reference, readError := environment.Prompter.ReadPath(fmt.Sprintf(joinColumnsFilePromptTemplate, secondaryDirectory), secondaryDirectory)
	if readError != nil {
		return nil, readError
	}
	reference = strings.TrimSpace(reference)

	other, loadError := command.loadSource(environment, reference)
	if loadError != nil {
		return nil, loadError
	}
	if environment.Preview != nil {
		environment.Preview.RenderPreview(other, reference, joinColumnsPreviewRowsConstant)
	}

	insertion, insertionError := promptInteger(environment, command.Name(), joinColumnsInsertionPrompt)
	if insertionError != nil {
		return nil, insertionError
	}
	start, startError := promptInteger(environment, command.Name(), joinColumnsStartPrompt)
	if startError != nil {
		return nil, startError
	}
	end, endError := promptInteger(environment, command.Name(), joinColumnsEndPrompt)
	if endError != nil {
		return nil, endError
	}

	return JoinColumnsArguments{File: reference, Insertion: insertion, Start: start, End: end}, nil
}

func (command JoinColumns) DecodeArguments(raw map[string]any) (Arguments, error) {
	return decodeArguments[JoinColumnsArguments](command.Name(), raw)
}

func (command JoinColumns) Apply(_ context.Context, environment *Environment, current *table.Table, _ string, arguments Arguments) (*table.Table, error) {
	joinArguments, argumentsError := expectArguments[JoinColumnsArguments](command.Name(), arguments)
	if argumentsError != nil {
		return nil, argumentsError
	}

	other, loadError := command.loadSource(environment, joinArguments.File)
	if loadError != nil {
		return nil, loadError
	}

	if joinArguments.Insertion < 0 || joinArguments.Insertion > current.ColumnCount() {
		return nil, editerrors.NewInvalidArgument(command.Name(), fmt.Sprintf(joinColumnsInsertionReasonTemplate, joinArguments.Insertion, current.ColumnCount()))
	}
	if joinArguments.Start < 0 || joinArguments.End < joinArguments.Start || joinArguments.End > other.ColumnCount() {
		return nil, editerrors.NewInvalidArgument(command.Name(), fmt.Sprintf(joinColumnsRangeReasonTemplate, joinArguments.Start, joinArguments.End, other.ColumnCount(), joinArguments.File))
	}

	columns, columnsError := other.Columns(joinArguments.Start, joinArguments.End)
	if columnsError != nil {
		return nil, editerrors.InvalidArgumentError{Command: command.Name(), Reason: columnsError.Error()}
	}
	joined, joinError := current.WithColumns(joinArguments.Insertion, columns)
	if joinError != nil {
		return nil, editerrors.InvalidArgumentError{Command: command.Name(), Reason: joinError.Error()}
	}

	environment.success(fmt.Sprintf(joinColumnsSuccessMessageTemplate, len(columns), joinArguments.File))
	return joined, nil
}

func (command JoinColumns) loadSource(environment *Environment, reference string) (*table.Table, error) {
	if len(reference) == 0 {
		return nil, editerrors.NewInvalidArgument(command.Name(), joinColumnsEmptyFileReason)
	}
	other, loadError := environment.Workspace.LoadSecondary(reference)
	if loadError != nil {
		if errors.Is(loadError, fs.ErrNotExist) {
			return nil, editerrors.InvalidArgumentError{
				Command: command.Name(),
				Reason:  fmt.Sprintf(joinColumnsMissingFileReasonTemplate, reference),
				Cause:   loadError,
			}
		}
		return nil, loadError
	}
	return other, nil
}
