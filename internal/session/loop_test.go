package session_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hencsv/internal/commands"
	editerrors "github.com/temirov/hencsv/internal/errors"
	"github.com/temirov/hencsv/internal/prompt"
	"github.com/temirov/hencsv/internal/session"
	"github.com/temirov/hencsv/internal/table"
	"github.com/temirov/hencsv/internal/workspace"
)

const (
	testFilenameConstant        = "people.csv"
	testPristineContentConstant = "first,last\nAda,Lovelace\nAlan,Turing\n"
	testScratchContentConstant  = "first,last\nGrace,Hopper\n"
)

type recordingScreen struct {
	clearCount    int
	previewLabels []string
	infoMessages  []string
	failures      []error
}

func (screen *recordingScreen) ClearScreen() { screen.clearCount++ }

func (screen *recordingScreen) RenderPreview(_ *table.Table, label string, _ int) {
	screen.previewLabels = append(screen.previewLabels, label)
}

func (screen *recordingScreen) Info(message string) {
	screen.infoMessages = append(screen.infoMessages, message)
}

func (screen *recordingScreen) Success(message string) {
	screen.infoMessages = append(screen.infoMessages, message)
}

func (screen *recordingScreen) Warning(message string) {
	screen.infoMessages = append(screen.infoMessages, message)
}

func (screen *recordingScreen) Error(failure error) {
	screen.failures = append(screen.failures, failure)
}

type countingSleeper struct {
	durations []time.Duration
}

func (sleeper *countingSleeper) Sleep(_ context.Context, duration time.Duration) {
	sleeper.durations = append(sleeper.durations, duration)
}

type sessionFixture struct {
	workspace *workspace.Workspace
	screen    *recordingScreen
	sleeper   *countingSleeper
}

func newSessionFixture(testInstance *testing.T) *sessionFixture {
	testInstance.Helper()
	rootDirectory := testInstance.TempDir()
	configuration := workspace.Configuration{
		InputDirectory:     filepath.Join(rootDirectory, "input"),
		SecondaryDirectory: filepath.Join(rootDirectory, "secondary"),
		OutputDirectory:    filepath.Join(rootDirectory, "output"),
		ScratchDirectory:   filepath.Join(rootDirectory, "scratch"),
	}
	require.NoError(testInstance, os.MkdirAll(configuration.InputDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(configuration.InputDirectory, testFilenameConstant), []byte(testPristineContentConstant), 0o644))

	instance := workspace.New(configuration, nil)
	require.NoError(testInstance, instance.Prepare())
	return &sessionFixture{workspace: instance, screen: &recordingScreen{}, sleeper: &countingSleeper{}}
}

func (fixture *sessionFixture) run(testInstance *testing.T, configuration session.Configuration, script string) (commands.Outcome, error) {
	testInstance.Helper()
	registry, registryError := commands.DefaultRegistry()
	require.NoError(testInstance, registryError)

	loop := session.NewLoop(configuration, session.Dependencies{
		Registry:  registry,
		Workspace: fixture.workspace,
		Prompter:  prompt.NewIOPrompter(strings.NewReader(script), nil),
		Screen:    fixture.screen,
		Sleeper:   fixture.sleeper,
	})
	return loop.Run(context.Background(), testFilenameConstant)
}

func (fixture *sessionFixture) scratchContent(testInstance *testing.T) string {
	testInstance.Helper()
	content, readError := os.ReadFile(fixture.workspace.Paths(testFilenameConstant).Scratch)
	require.NoError(testInstance, readError)
	return string(content)
}

func TestLoopRunOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name                   string
		script                 string
		expectedOutcome        commands.Outcome
		expectedScratch        string
		expectedFailureCount   int
		expectedUnknownCommand bool
	}{
		{
			name:            "merge then save",
			script:          "mc\n0\n1\nname\ns\n",
			expectedOutcome: commands.OutcomeContinue,
			expectedScratch: "name\nAdaLovelace\nAlanTuring\n",
		},
		{
			name:            "uppercase keys are accepted",
			script:          "SRP\nTuring/T\nQ\n",
			expectedOutcome: commands.OutcomeStop,
			expectedScratch: "first,last\nAda,Lovelace\nAlan,T\n",
		},
		{
			name:            "undo restores prior table",
			script:          "srp\nAda/Grace\nu\ns\n",
			expectedOutcome: commands.OutcomeContinue,
			expectedScratch: testPristineContentConstant,
		},
		{
			name:                   "unknown command re-prompts",
			script:                 "zz\nsk\n",
			expectedOutcome:        commands.OutcomeContinue,
			expectedScratch:        testPristineContentConstant,
			expectedFailureCount:   1,
			expectedUnknownCommand: true,
		},
		{
			name:                 "failing command leaves table",
			script:               "mc\n0\n9\nX\ns\n",
			expectedOutcome:      commands.OutcomeContinue,
			expectedScratch:      testPristineContentConstant,
			expectedFailureCount: 1,
		},
		{
			name:            "exhausted input stops",
			script:          "",
			expectedOutcome: commands.OutcomeStop,
			expectedScratch: testPristineContentConstant,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newSessionFixture(testInstance)

			outcome, runError := fixture.run(testInstance, session.DefaultConfiguration(), testCase.script)
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedOutcome, outcome)
			require.Equal(testInstance, testCase.expectedScratch, fixture.scratchContent(testInstance))
			require.Len(testInstance, fixture.screen.failures, testCase.expectedFailureCount)
			if testCase.expectedUnknownCommand {
				require.True(testInstance, editerrors.IsUnknownCommand(fixture.screen.failures[0]))
			}
		})
	}
}

func TestLoopReportsUndoAndPauses(testInstance *testing.T) {
	fixture := newSessionFixture(testInstance)

	_, runError := fixture.run(testInstance, session.DefaultConfiguration(), "u\nsrp\na/b\nu\nsk\n")
	require.NoError(testInstance, runError)
	require.Contains(testInstance, fixture.screen.infoMessages, "Nothing to undo!")
	require.Contains(testInstance, fixture.screen.infoMessages, "Undid last command")
	require.Equal(testInstance, []time.Duration{600 * time.Millisecond, 600 * time.Millisecond, 600 * time.Millisecond}, fixture.sleeper.durations)
	require.Equal(testInstance, fixture.workspace.Paths(testFilenameConstant).Scratch, fixture.screen.previewLabels[0])
}

func TestLoopAutosaveDisabledKeepsScratchUntilSave(testInstance *testing.T) {
	fixture := newSessionFixture(testInstance)
	configuration := session.DefaultConfiguration()
	configuration.Autosave = false

	outcome, runError := fixture.run(testInstance, configuration, "srp\nAda/Grace\nq\n")
	require.NoError(testInstance, runError)
	require.Equal(testInstance, commands.OutcomeStop, outcome)
	require.Equal(testInstance, testPristineContentConstant, fixture.scratchContent(testInstance))
}

func TestLoopExistingScratchPrompt(testInstance *testing.T) {
	testCases := []struct {
		name            string
		answer          string
		expectedScratch string
	}{
		{name: "edit original resets scratch", answer: "y", expectedScratch: testPristineContentConstant},
		{name: "keep scratch edits", answer: "n", expectedScratch: testScratchContentConstant},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newSessionFixture(testInstance)
			require.NoError(testInstance, os.WriteFile(fixture.workspace.Paths(testFilenameConstant).Scratch, []byte(testScratchContentConstant), 0o644))

			outcome, runError := fixture.run(testInstance, session.DefaultConfiguration(), testCase.answer+"\nsk\n")
			require.NoError(testInstance, runError)
			require.Equal(testInstance, commands.OutcomeContinue, outcome)
			require.Equal(testInstance, testCase.expectedScratch, fixture.scratchContent(testInstance))
		})
	}
}

func TestLoopStopsOnCancelledContext(testInstance *testing.T) {
	fixture := newSessionFixture(testInstance)
	registry, registryError := commands.DefaultRegistry()
	require.NoError(testInstance, registryError)
	loop := session.NewLoop(session.DefaultConfiguration(), session.Dependencies{
		Registry:  registry,
		Workspace: fixture.workspace,
		Prompter:  prompt.NewIOPrompter(strings.NewReader("sk\n"), nil),
		Screen:    fixture.screen,
	})

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, runError := loop.Run(cancelledContext, testFilenameConstant)
	require.ErrorIs(testInstance, runError, context.Canceled)
	require.Equal(testInstance, commands.OutcomeStop, outcome)
}

func TestFormatMenu(testInstance *testing.T) {
	registry, registryError := commands.DefaultRegistry()
	require.NoError(testInstance, registryError)

	expectedMenu := strings.Join([]string{
		"Select command:",
		"- dsp  for display-original",
		"- rst  for restore-original",
		"- mc   for merge-columns",
		"- srp  for string-replace",
		"- jn   for join-columns",
		"- ('u' to undo, 's' to save, 'a' to apply-all, 'sk' to skip, 'q' to quit)",
	}, "\n")
	require.Equal(testInstance, expectedMenu, session.FormatMenu(registry))
}

func TestConfigurationSanitize(testInstance *testing.T) {
	sanitized := session.Configuration{PreviewRows: 0, CommandPause: -time.Second, FilePause: time.Second}.Sanitize()
	require.Equal(testInstance, 20, sanitized.PreviewRows)
	require.Equal(testInstance, 600*time.Millisecond, sanitized.CommandPause)
	require.Equal(testInstance, time.Second, sanitized.FilePause)
}
