package prompt

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const lineTerminatorCharactersConstant = "\r\n"

// Prompter collects a single line of input after writing a prompt.
type Prompter interface {
	ReadLine(prompt string) (string, error)
	// ReadPath behaves like ReadLine and offers completion against entries of directory when supported.
	ReadPath(prompt string, directory string) (string, error)
}

// IOPrompter reads responses line by line from an io.Reader.
type IOPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOPrompter constructs a prompter from the provided reader and writer.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), writer: output}
}

// ReadLine writes the prompt and returns the next line without its terminator.
// io.EOF is returned only when the input is exhausted before any character was read.
func (prompter *IOPrompter) ReadLine(prompt string) (string, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return "", writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil {
		if readError != io.EOF {
			return "", readError
		}
		if len(response) == 0 {
			return "", io.EOF
		}
	}

	return strings.TrimRight(response, lineTerminatorCharactersConstant), nil
}

// ReadPath reads a line; IOPrompter offers no completion.
func (prompter *IOPrompter) ReadPath(prompt string, directory string) (string, error) {
	return prompter.ReadLine(prompt)
}

// NewPrompter returns a TerminalPrompter when input is an interactive terminal and an IOPrompter otherwise.
func NewPrompter(input *os.File, output io.Writer) Prompter {
	if input != nil && term.IsTerminal(int(input.Fd())) {
		return NewTerminalPrompter(input, output)
	}
	return NewIOPrompter(input, output)
}
