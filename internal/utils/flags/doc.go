// Package flags provides pflag values shared by the CLI commands: yes/no
// toggles and string flags restricted to a fixed set of choices.
package flags
