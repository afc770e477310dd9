package session

import "time"

const (
	defaultPreviewRowsConstant  = 20
	defaultCommandPauseConstant = 600 * time.Millisecond
	defaultFilePauseConstant    = 400 * time.Millisecond
)

// Configuration tunes pacing and presentation of editing sessions.
type Configuration struct {
	PreviewRows  int           `mapstructure:"preview_rows"`
	CommandPause time.Duration `mapstructure:"command_pause"`
	FilePause    time.Duration `mapstructure:"file_pause"`
	ClearScreen  bool          `mapstructure:"clear_screen"`
	Autosave     bool          `mapstructure:"autosave"`
}

// DefaultConfiguration returns the interactive defaults.
func DefaultConfiguration() Configuration {
	return Configuration{
		PreviewRows:  defaultPreviewRowsConstant,
		CommandPause: defaultCommandPauseConstant,
		FilePause:    defaultFilePauseConstant,
		ClearScreen:  true,
		Autosave:     true,
	}
}

// DefaultConfigurationValues exposes defaults keyed for the configuration loader under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + ".preview_rows":  defaults.PreviewRows,
		prefix + ".command_pause": defaults.CommandPause.String(),
		prefix + ".file_pause":    defaults.FilePause.String(),
		prefix + ".clear_screen":  defaults.ClearScreen,
		prefix + ".autosave":      defaults.Autosave,
	}
}

// Sanitize replaces non-positive row counts and negative pauses with defaults.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration
	if sanitized.PreviewRows <= 0 {
		sanitized.PreviewRows = defaults.PreviewRows
	}
	if sanitized.CommandPause < 0 {
		sanitized.CommandPause = defaults.CommandPause
	}
	if sanitized.FilePause < 0 {
		sanitized.FilePause = defaults.FilePause
	}
	return sanitized
}
