package prompt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	promptLineSeparatorConstant = "\n"
	completionKeyConstant       = '\t'
	interruptByteConstant       = 0x03
)

// ErrInterrupted reports Ctrl-C typed while the terminal is in raw mode and no signal is raised.
var ErrInterrupted = fmt.Errorf("input interrupted: %w", context.Canceled)

// TerminalPrompter reads lines through a raw-mode terminal editor so that Tab can complete filenames.
type TerminalPrompter struct {
	input  *os.File
	output io.Writer
}

type terminalReadWriter struct {
	io.Reader
	io.Writer
}

func (readWriter terminalReadWriter) Read(buffer []byte) (int, error) {
	count, readError := readWriter.Reader.Read(buffer)
	if bytes.IndexByte(buffer[:count], interruptByteConstant) >= 0 {
		return 0, ErrInterrupted
	}
	return count, readError
}

// NewTerminalPrompter constructs a prompter bound to the provided terminal.
func NewTerminalPrompter(input *os.File, output io.Writer) *TerminalPrompter {
	return &TerminalPrompter{input: input, output: output}
}

// ReadLine writes the prompt and reads one edited line.
func (prompter *TerminalPrompter) ReadLine(prompt string) (string, error) {
	return prompter.read(prompt, nil)
}

// ReadPath reads one edited line, completing names from directory on Tab.
func (prompter *TerminalPrompter) ReadPath(prompt string, directory string) (string, error) {
	return prompter.read(prompt, completionCallback(directory))
}

func (prompter *TerminalPrompter) read(prompt string, callback func(string, int, rune) (string, int, bool)) (string, error) {
	fileDescriptor := int(prompter.input.Fd())
	previousState, rawError := term.MakeRaw(fileDescriptor)
	if rawError != nil {
		return "", rawError
	}
	defer term.Restore(fileDescriptor, previousState)

	terminal := term.NewTerminal(terminalReadWriter{Reader: prompter.input, Writer: prompter.output}, "")
	terminal.AutoCompleteCallback = callback

	// The line editor only redraws the final prompt line; earlier lines are written once.
	promptLines := strings.Split(prompt, promptLineSeparatorConstant)
	leadingLines := strings.Join(promptLines[:len(promptLines)-1], promptLineSeparatorConstant)
	if len(promptLines) > 1 {
		if _, writeError := terminal.Write([]byte(leadingLines + promptLineSeparatorConstant)); writeError != nil {
			return "", writeError
		}
	}
	terminal.SetPrompt(promptLines[len(promptLines)-1])

	return terminal.ReadLine()
}

func completionCallback(directory string) func(string, int, rune) (string, int, bool) {
	return func(line string, position int, key rune) (string, int, bool) {
		if key != completionKeyConstant {
			return "", 0, false
		}
		completedPrefix, completed := CompletePath(directory, line[:position])
		if !completed {
			return "", 0, false
		}
		return completedPrefix + line[position:], len(completedPrefix), true
	}
}

// CompletePath extends prefix to the longest name shared by the entries of directory that start with it.
// It reports false when no entry matches or the prefix cannot be extended.
func CompletePath(directory string, prefix string) (string, bool) {
	entries, readError := os.ReadDir(directory)
	if readError != nil {
		return "", false
	}

	var candidates []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), prefix) {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	shared := candidates[0]
	for _, candidate := range candidates[1:] {
		shared = commonPrefix(shared, candidate)
	}
	if len(shared) <= len(prefix) {
		return "", false
	}
	return shared, true
}

func commonPrefix(first string, second string) string {
	limit := len(first)
	if len(second) < limit {
		limit = len(second)
	}
	for index := 0; index < limit; index++ {
		if first[index] != second[index] {
			return first[:index]
		}
	}
	return first[:limit]
}
