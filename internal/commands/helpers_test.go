package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hencsv/internal/commands"
	"github.com/temirov/hencsv/internal/prompt"
	"github.com/temirov/hencsv/internal/table"
	"github.com/temirov/hencsv/internal/workspace"
)

type recordingReporter struct {
	infoMessages    []string
	successMessages []string
	warningMessages []string
	failures        []error
}

func (reporter *recordingReporter) Info(message string) {
	reporter.infoMessages = append(reporter.infoMessages, message)
}

func (reporter *recordingReporter) Success(message string) {
	reporter.successMessages = append(reporter.successMessages, message)
}

func (reporter *recordingReporter) Warning(message string) {
	reporter.warningMessages = append(reporter.warningMessages, message)
}

func (reporter *recordingReporter) Error(failure error) {
	reporter.failures = append(reporter.failures, failure)
}

type recordingPreview struct {
	labels []string
}

func (preview *recordingPreview) RenderPreview(_ *table.Table, label string, _ int) {
	preview.labels = append(preview.labels, label)
}

type testFixture struct {
	workspace     *workspace.Workspace
	configuration workspace.Configuration
	reporter      *recordingReporter
	preview       *recordingPreview
}

func newTestFixture(testInstance *testing.T) *testFixture {
	testInstance.Helper()
	rootDirectory := testInstance.TempDir()
	configuration := workspace.Configuration{
		InputDirectory:     filepath.Join(rootDirectory, "input"),
		SecondaryDirectory: filepath.Join(rootDirectory, "secondary"),
		OutputDirectory:    filepath.Join(rootDirectory, "output"),
		ScratchDirectory:   filepath.Join(rootDirectory, "scratch"),
	}
	require.NoError(testInstance, os.MkdirAll(configuration.InputDirectory, 0o755))
	require.NoError(testInstance, os.MkdirAll(configuration.SecondaryDirectory, 0o755))

	instance := workspace.New(configuration, nil)
	require.NoError(testInstance, instance.Prepare())

	return &testFixture{
		workspace:     instance,
		configuration: configuration,
		reporter:      &recordingReporter{},
		preview:       &recordingPreview{},
	}
}

func (fixture *testFixture) environment(script string) *commands.Environment {
	return &commands.Environment{
		Workspace: fixture.workspace,
		Prompter:  prompt.NewIOPrompter(strings.NewReader(script), nil),
		Preview:   fixture.preview,
		Reporter:  fixture.reporter,
	}
}

func (fixture *testFixture) writeInput(testInstance *testing.T, filename string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.WriteFile(filepath.Join(fixture.configuration.InputDirectory, filename), []byte(content), 0o644))
}

func (fixture *testFixture) writeSecondary(testInstance *testing.T, filename string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.WriteFile(filepath.Join(fixture.configuration.SecondaryDirectory, filename), []byte(content), 0o644))
}

func (fixture *testFixture) readScratch(testInstance *testing.T, filename string) string {
	testInstance.Helper()
	content, readError := os.ReadFile(filepath.Join(fixture.configuration.ScratchDirectory, filename))
	require.NoError(testInstance, readError)
	return string(content)
}

func mustTable(testInstance *testing.T, header []string, rows ...[]string) *table.Table {
	testInstance.Helper()
	created, createError := table.New(header, rows)
	require.NoError(testInstance, createError)
	return created
}
