package ui

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	lipglosstable "github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/muesli/termenv"

	"github.com/temirov/hencsv/internal/table"
)

const (
	previewHeadingTemplateConstant       = "\nFirst %d lines of %s:\n"
	fileListHeadingTemplateConstant      = "Editing files in %s/:\n"
	currentFileTemplateConstant          = "> %s"
	otherFileTemplateConstant            = "  %s\n"
	messageLineTemplateConstant          = "%s\n"
	errorMessageTemplateConstant         = "Error: %v\n"
	previewIndexHeaderConstant           = ""
	previewCellHorizontalPaddingConstant = 1
)

var (
	currentFileColor = color.New(color.Bold)
	successColor     = color.New(color.FgGreen)
	warningColor     = color.New(color.FgYellow)
	errorColor       = color.New(color.FgRed)

	previewHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, previewCellHorizontalPaddingConstant)
	previewCellStyle   = lipgloss.NewStyle().Padding(0, previewCellHorizontalPaddingConstant)
)

// ConsoleOptions tunes console behavior.
type ConsoleOptions struct {
	ClearScreen bool
}

// Console writes human-facing screens and messages to a terminal or any writer.
type Console struct {
	output       io.Writer
	terminal     *termenv.Output
	clearEnabled bool
}

// NewConsole constructs a Console writing to output.
func NewConsole(output io.Writer, options ConsoleOptions) *Console {
	if output == nil {
		output = io.Discard
	}
	return &Console{output: output, terminal: termenv.NewOutput(output), clearEnabled: options.ClearScreen}
}

// Writer exposes the underlying output for prompts.
func (console *Console) Writer() io.Writer {
	return console.output
}

// ClearScreen blanks the terminal when clearing is enabled.
func (console *Console) ClearScreen() {
	if !console.clearEnabled {
		return
	}
	console.terminal.ClearScreen()
}

// RenderPreview draws the first rowLimit rows of source under a heading naming label.
func (console *Console) RenderPreview(source *table.Table, label string, rowLimit int) {
	fmt.Fprintf(console.output, previewHeadingTemplateConstant, rowLimit, label)
	fmt.Fprintln(console.output, FormatPreview(source, rowLimit))
}

// RenderFileList lists filenames of directory with current highlighted.
func (console *Console) RenderFileList(directory string, filenames []string, current string) {
	fmt.Fprintf(console.output, fileListHeadingTemplateConstant, directory)
	for _, filename := range filenames {
		if filename == current {
			currentFileColor.Fprintf(console.output, currentFileTemplateConstant, filename)
			fmt.Fprintln(console.output)
			continue
		}
		fmt.Fprintf(console.output, otherFileTemplateConstant, filename)
	}
}

// Info prints a plain status line.
func (console *Console) Info(message string) {
	fmt.Fprintf(console.output, messageLineTemplateConstant, message)
}

// Success prints a status line signalling a completed change.
func (console *Console) Success(message string) {
	successColor.Fprintf(console.output, messageLineTemplateConstant, message)
}

// Warning prints a status line signalling a skipped or partial step.
func (console *Console) Warning(message string) {
	warningColor.Fprintf(console.output, messageLineTemplateConstant, message)
}

// Error prints a failure.
func (console *Console) Error(failure error) {
	errorColor.Fprintf(console.output, errorMessageTemplateConstant, failure)
}

// FormatPreview renders the first rowLimit rows of source as a bordered grid with a leading row-number column.
func FormatPreview(source *table.Table, rowLimit int) string {
	limited := source.Head(rowLimit)

	headers := append([]string{previewIndexHeaderConstant}, limited.Header()...)
	rows := limited.Rows()
	numberedRows := make([][]string, len(rows))
	for rowIndex, row := range rows {
		numberedRows[rowIndex] = append([]string{strconv.Itoa(rowIndex)}, row...)
	}

	grid := lipglosstable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(numberedRows...).
		StyleFunc(func(row int, column int) lipgloss.Style {
			if row == lipglosstable.HeaderRow {
				return previewHeaderStyle
			}
			return previewCellStyle
		})

	return grid.String()
}
