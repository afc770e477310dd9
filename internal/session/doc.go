// Package session runs the interactive editing loop for a single CSV file.
//
// A Loop loads the scratch copy of the file, shows a preview and the command
// menu, and dispatches each typed key: transformations and undo go through the
// history engine, control commands end the session with their outcome.
package session
