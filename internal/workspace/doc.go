// Package workspace resolves where each CSV file lives during a batch and
// manages its scratch copy.
//
// A logical filename maps to four paths: the pristine input, the secondary
// input used for joins, the committed output, and the scratch copy holding
// in-progress edits. Workspace is the only component that touches those
// directories.
package workspace
