package session

import (
	"fmt"
	"strings"

	"github.com/temirov/hencsv/internal/commands"
)

const (
	menuHeadingConstant          = "Select command:"
	menuLinePrefixConstant       = "- "
	menuTransformationTemplate   = "%-*s for %s"
	menuControlTemplate          = "'%s' to %s"
	menuControlSeparatorConstant = ", "
	menuControlsTemplateConstant = "(%s)"
	menuUndoNameConstant         = "undo"
	menuLineSeparatorConstant    = "\n"
)

// FormatMenu lists transformations one per line followed by a single line of control keys.
func FormatMenu(registry *commands.Registry) string {
	transformations := registry.Transformations()
	keyWidth := 0
	for _, transformation := range transformations {
		if len(transformation.Key()) > keyWidth {
			keyWidth = len(transformation.Key())
		}
	}

	lines := []string{menuHeadingConstant}
	for _, transformation := range transformations {
		lines = append(lines, menuLinePrefixConstant+fmt.Sprintf(menuTransformationTemplate, keyWidth+1, transformation.Key(), transformation.Name()))
	}

	controlLabels := []string{fmt.Sprintf(menuControlTemplate, commands.UndoKey, menuUndoNameConstant)}
	for _, control := range registry.Controls() {
		controlLabels = append(controlLabels, fmt.Sprintf(menuControlTemplate, control.Key(), control.Name()))
	}
	lines = append(lines, menuLinePrefixConstant+fmt.Sprintf(menuControlsTemplateConstant, strings.Join(controlLabels, menuControlSeparatorConstant)))

	return strings.Join(lines, menuLineSeparatorConstant)
}
