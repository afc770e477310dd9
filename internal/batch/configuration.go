package batch

import (
	"github.com/temirov/hencsv/internal/session"
	"github.com/temirov/hencsv/internal/workspace"
)

// CommandConfiguration combines the directory layout and session tuning used by the edit command.
type CommandConfiguration struct {
	Workspace workspace.Configuration
	Session   session.Configuration
}

// DefaultCommandConfiguration returns the conventional layout with interactive session defaults.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Workspace: workspace.DefaultConfiguration(),
		Session:   session.DefaultConfiguration(),
	}
}
