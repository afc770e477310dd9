// Package recipe replays a stored list of transformation steps against every
// file of the input directory without prompting.
package recipe
