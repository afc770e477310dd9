package commands

import (
	"context"
	"fmt"

	"github.com/temirov/hencsv/internal/table"
)

const (
	restoreOriginalKeyConstant     = "rst"
	restoreOriginalNameConstant    = "restore-original"
	restoreOriginalMessageTemplate = "Restored to original file: %s"
)

// RestoreOriginal replaces the scratch copy with the pristine input and reloads it.
type RestoreOriginal struct{}

func (RestoreOriginal) Key() string  { return restoreOriginalKeyConstant }
func (RestoreOriginal) Name() string { return restoreOriginalNameConstant }

func (RestoreOriginal) CollectArguments(context.Context, *Environment) (Arguments, error) {
	return NoArguments{}, nil
}

func (command RestoreOriginal) DecodeArguments(raw map[string]any) (Arguments, error) {
	return decodeArguments[NoArguments](command.Name(), raw)
}

func (RestoreOriginal) Apply(_ context.Context, environment *Environment, _ *table.Table, filename string, _ Arguments) (*table.Table, error) {
	restored, restoreError := environment.Workspace.RestorePristine(filename)
	if restoreError != nil {
		return nil, restoreError
	}
	environment.info(fmt.Sprintf(restoreOriginalMessageTemplate, environment.Workspace.Paths(filename).Input))
	return restored, nil
}
