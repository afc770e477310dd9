// Package prompt reads user responses for interactive editing sessions.
//
// IOPrompter works over any reader and writer, which keeps sessions
// scriptable in tests and pipelines. TerminalPrompter drives a raw terminal
// line editor that completes filenames on Tab. NewPrompter picks between them.
package prompt
