package batch_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hencsv/internal/batch"
	"github.com/temirov/hencsv/internal/commands"
	"github.com/temirov/hencsv/internal/prompt"
)

const (
	testInputDirectoryConstant = "csv_files"
	testFirstFilenameConstant  = "b.csv"
	testSecondFilenameConstant = "a.csv"
	testThirdFilenameConstant  = "c.csv"
)

var errStubSession = errors.New("unreadable csv")

type stubWorkspace struct {
	filenames []string
	promoted  []string
}

func (workspace *stubWorkspace) InputFiles() ([]string, error) {
	return workspace.filenames, nil
}

func (workspace *stubWorkspace) Promote(filename string) (string, error) {
	workspace.promoted = append(workspace.promoted, filename)
	return "out/" + filename, nil
}

type scriptedSessions struct {
	outcomes map[string]commands.Outcome
	failures map[string]error
	visited  []string
}

func (sessions *scriptedSessions) Run(_ context.Context, filename string) (commands.Outcome, error) {
	sessions.visited = append(sessions.visited, filename)
	if failure, failing := sessions.failures[filename]; failing {
		return commands.OutcomeStop, failure
	}
	return sessions.outcomes[filename], nil
}

type recordingScreen struct {
	fileListCurrents []string
	infoMessages     []string
	failures         []error
}

func (screen *recordingScreen) ClearScreen() {}

func (screen *recordingScreen) RenderFileList(_ string, _ []string, current string) {
	screen.fileListCurrents = append(screen.fileListCurrents, current)
}

func (screen *recordingScreen) Info(message string) {
	screen.infoMessages = append(screen.infoMessages, message)
}

func (screen *recordingScreen) Error(failure error) {
	screen.failures = append(screen.failures, failure)
}

type countingSleeper struct {
	count int
}

func (sleeper *countingSleeper) Sleep(context.Context, time.Duration) {
	sleeper.count++
}

func TestDriverRun(testInstance *testing.T) {
	filenames := []string{testFirstFilenameConstant, testSecondFilenameConstant, testThirdFilenameConstant}

	testCases := []struct {
		name             string
		script           string
		outcomes         map[string]commands.Outcome
		failures         map[string]error
		expectedVisited  []string
		expectedPromoted []string
		expectedFailed   []string
		expectedStopped  bool
	}{
		{
			name:             "all files continue",
			script:           "\n\n\n",
			expectedVisited:  filenames,
			expectedPromoted: filenames,
		},
		{
			name:             "quit at file prompt",
			script:           "\nQ\n",
			expectedVisited:  []string{testFirstFilenameConstant},
			expectedPromoted: []string{testFirstFilenameConstant},
			expectedStopped:  true,
		},
		{
			name:             "session stop skips promotion",
			script:           "\n\n\n",
			outcomes:         map[string]commands.Outcome{testSecondFilenameConstant: commands.OutcomeStop},
			expectedVisited:  []string{testFirstFilenameConstant, testSecondFilenameConstant},
			expectedPromoted: []string{testFirstFilenameConstant},
			expectedStopped:  true,
		},
		{
			name:             "failing session is skipped",
			script:           "\n\n\n",
			failures:         map[string]error{testFirstFilenameConstant: errStubSession},
			expectedVisited:  filenames,
			expectedPromoted: []string{testSecondFilenameConstant, testThirdFilenameConstant},
			expectedFailed:   []string{testFirstFilenameConstant},
		},
		{
			name:            "exhausted input stops",
			script:          "",
			expectedStopped: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workspace := &stubWorkspace{filenames: filenames}
			sessions := &scriptedSessions{outcomes: testCase.outcomes, failures: testCase.failures}
			screen := &recordingScreen{}
			sleeper := &countingSleeper{}

			driver := &batch.Driver{
				InputDirectory: testInputDirectoryConstant,
				FilePause:      400 * time.Millisecond,
				Workspace:      workspace,
				Sessions:       sessions,
				Prompter:       prompt.NewIOPrompter(strings.NewReader(testCase.script), nil),
				Screen:         screen,
				Sleeper:        sleeper,
			}

			summary, runError := driver.Run(context.Background())
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedVisited, nilIfEmpty(sessions.visited))
			require.Equal(testInstance, testCase.expectedPromoted, nilIfEmpty(workspace.promoted))
			require.Equal(testInstance, testCase.expectedPromoted, nilIfEmpty(summary.Promoted))
			require.Equal(testInstance, testCase.expectedFailed, summary.Failed)
			require.Equal(testInstance, testCase.expectedStopped, summary.Stopped)
			require.Equal(testInstance, len(testCase.expectedPromoted), sleeper.count)
			require.Len(testInstance, screen.failures, len(testCase.expectedFailed))
		})
	}
}

func TestDriverRunPreservesEnumerationOrder(testInstance *testing.T) {
	filenames := []string{testThirdFilenameConstant, testFirstFilenameConstant, testSecondFilenameConstant}
	screen := &recordingScreen{}
	driver := &batch.Driver{
		InputDirectory: testInputDirectoryConstant,
		Workspace:      &stubWorkspace{filenames: filenames},
		Sessions:       &scriptedSessions{},
		Prompter:       prompt.NewIOPrompter(strings.NewReader("\n\n\n"), nil),
		Screen:         screen,
	}

	_, runError := driver.Run(context.Background())
	require.NoError(testInstance, runError)
	require.Equal(testInstance, filenames, screen.fileListCurrents)
	require.Equal(testInstance, []string{"Copied file to out/c.csv", "Copied file to out/b.csv", "Copied file to out/a.csv"}, screen.infoMessages)
}

func TestDriverRunHonoursCancellation(testInstance *testing.T) {
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	driver := &batch.Driver{
		Workspace: &stubWorkspace{filenames: []string{testFirstFilenameConstant}},
		Sessions:  &scriptedSessions{},
		Prompter:  prompt.NewIOPrompter(strings.NewReader("\n"), nil),
		Screen:    &recordingScreen{},
	}

	summary, runError := driver.Run(cancelledContext)
	require.ErrorIs(testInstance, runError, context.Canceled)
	require.True(testInstance, summary.Stopped)
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}
