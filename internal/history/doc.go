// Package history implements single-step undo for an editing session.
//
// A History keeps two stacks of equal depth: the table as it was before each
// effective command, and the invocation that changed it. The Engine dispatches
// command keys through a commands.Registry and records only invocations that
// actually changed the table.
package history
