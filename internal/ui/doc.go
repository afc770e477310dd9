// Package ui renders the console screens of an editing session.
//
// Console draws table previews, the batch file list, and status messages for
// people at the terminal, while CommandEventLogger mirrors the same command
// lifecycle into the structured logger.
package ui
