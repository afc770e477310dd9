// Package commands defines the transformation and control commands of an
// editing session and the registry that resolves command keys to them.
//
// A Transformation pairs interactive argument collection with a pure
// table-to-table function, so the same arguments can be replayed against other
// files by apply-all or a recipe. A Control ends or redirects the session and
// never participates in undo. DefaultRegistry builds the built-in set.
package commands
