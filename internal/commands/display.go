package commands

import (
	"context"
	"errors"
	"io"

	"github.com/temirov/hencsv/internal/table"
)

const (
	displayOriginalKeyConstant         = "dsp"
	displayOriginalNameConstant        = "display-original"
	displayOriginalPreviewRowsConstant = 10
	displayOriginalContinuePrompt      = "Press any key to continue..."
)

// DisplayOriginal shows the pristine input of the current file without touching the edited table.
type DisplayOriginal struct{}

func (DisplayOriginal) Key() string  { return displayOriginalKeyConstant }
func (DisplayOriginal) Name() string { return displayOriginalNameConstant }

func (DisplayOriginal) CollectArguments(context.Context, *Environment) (Arguments, error) {
	return NoArguments{}, nil
}

func (command DisplayOriginal) DecodeArguments(raw map[string]any) (Arguments, error) {
	return decodeArguments[NoArguments](command.Name(), raw)
}

// Apply renders the pristine file and waits for acknowledgement; current is returned unchanged.
func (DisplayOriginal) Apply(_ context.Context, environment *Environment, current *table.Table, filename string, _ Arguments) (*table.Table, error) {
	original, loadError := environment.Workspace.LoadPristine(filename)
	if loadError != nil {
		return nil, loadError
	}

	if environment.Preview != nil {
		environment.Preview.RenderPreview(original, environment.Workspace.Paths(filename).Input, displayOriginalPreviewRowsConstant)
	}
	if environment.Prompter != nil {
		if _, readError := environment.Prompter.ReadLine(displayOriginalContinuePrompt); readError != nil && !errors.Is(readError, io.EOF) {
			return nil, readError
		}
	}
	return current, nil
}
