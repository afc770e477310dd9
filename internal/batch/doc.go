// Package batch walks every file of the input directory through an editing
// session and promotes finished files to the output directory. It also
// provides the cobra command that starts the interactive editor.
package batch
