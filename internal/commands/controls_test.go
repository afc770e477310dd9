package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/hencsv/internal/commands"
)

const (
	testBrokenFilenameConstant      = "broken.csv"
	testBrokenContentConstant       = "only\nvalue\n"
	testOtherContentConstant        = "first,last\nGrace,Hopper\n"
	testOtherScratchContentConstant = "first,last\nEdsger,Dijkstra\n"
)

func TestSimpleControlOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name            string
		control         commands.Control
		expectedOutcome commands.Outcome
	}{
		{name: "skip continues", control: commands.Skip{}, expectedOutcome: commands.OutcomeContinue},
		{name: "quit stops", control: commands.Quit{}, expectedOutcome: commands.OutcomeStop},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outcome, executeError := testCase.control.Execute(context.Background(), &commands.Environment{}, nil, commands.ControlRequest{})
			require.NoError(testInstance, executeError)
			require.Equal(testInstance, testCase.expectedOutcome, outcome)
		})
	}
}

func TestSavePersistsCurrentTable(testInstance *testing.T) {
	fixture := newTestFixture(testInstance)
	current := mustTable(testInstance, []string{"full"}, []string{"AdaLovelace"})

	outcome, executeError := commands.Save{}.Execute(context.Background(), fixture.environment(""), nil, commands.ControlRequest{Table: current, Filename: testFilenameConstant})
	require.NoError(testInstance, executeError)
	require.Equal(testInstance, commands.OutcomeContinue, outcome)
	require.Equal(testInstance, "full\nAdaLovelace\n", fixture.readScratch(testInstance, testFilenameConstant))
	require.Equal(testInstance, []string{"Saved to " + fixture.workspace.Paths(testFilenameConstant).Scratch}, fixture.reporter.infoMessages)
}

func TestApplyAllReplaysAcrossFiles(testInstance *testing.T) {
	fixture := newTestFixture(testInstance)
	fixture.writeInput(testInstance, testFilenameConstant, testPristineContentConstant)
	fixture.writeInput(testInstance, testOtherFilenameConstant, testOtherContentConstant)
	fixture.writeInput(testInstance, testBrokenFilenameConstant, testBrokenContentConstant)
	require.NoError(testInstance, os.Mkdir(filepath.Join(fixture.configuration.InputDirectory, "nested"), 0o755))

	registry, registryError := commands.DefaultRegistry()
	require.NoError(testInstance, registryError)

	current := mustTable(testInstance, []string{"name"}, []string{"AdaLovelace"}, []string{"AlanTuring"})
	request := commands.ControlRequest{
		Table:    current,
		Filename: testFilenameConstant,
		Invocations: []commands.Invocation{
			{Key: "mc", Arguments: commands.MergeColumnsArguments{Start: 0, End: 1, Name: "name"}},
		},
	}

	outcome, executeError := registry.ExecuteControl(context.Background(), fixture.environment(""), "A", request)
	require.NoError(testInstance, executeError)
	require.Equal(testInstance, commands.OutcomeContinue, outcome)

	require.Equal(testInstance, "name\nGraceHopper\n", fixture.readScratch(testInstance, testOtherFilenameConstant))
	require.Equal(testInstance, "name\nAdaLovelace\nAlanTuring\n", fixture.readScratch(testInstance, testFilenameConstant))

	hasBrokenScratch, statError := fixture.workspace.HasScratch(testBrokenFilenameConstant)
	require.NoError(testInstance, statError)
	require.False(testInstance, hasBrokenScratch)
	require.Len(testInstance, fixture.reporter.warningMessages, 1)
	require.Contains(testInstance, fixture.reporter.warningMessages[0], testBrokenFilenameConstant)
}

func TestApplyAllPrefersScratchCopies(testInstance *testing.T) {
	fixture := newTestFixture(testInstance)
	fixture.writeInput(testInstance, testFilenameConstant, testPristineContentConstant)
	fixture.writeInput(testInstance, testOtherFilenameConstant, testOtherContentConstant)
	require.NoError(testInstance, os.WriteFile(fixture.workspace.Paths(testOtherFilenameConstant).Scratch, []byte(testOtherScratchContentConstant), 0o644))

	registry, registryError := commands.DefaultRegistry()
	require.NoError(testInstance, registryError)

	request := commands.ControlRequest{
		Table:       mustTable(testInstance, []string{"first", "last"}, []string{"Ada", "Lovelace"}),
		Filename:    testFilenameConstant,
		Invocations: []commands.Invocation{{Key: "srp", Arguments: commands.StringReplaceArguments{Pattern: "Dijk/D"}}},
	}

	_, executeError := registry.ExecuteControl(context.Background(), fixture.environment(""), "a", request)
	require.NoError(testInstance, executeError)
	require.Equal(testInstance, "first,last\nEdsger,D\n", fixture.readScratch(testInstance, testOtherFilenameConstant))
}

func TestApplyAllRestoreOriginalWritesOnlyAfterFullReplay(testInstance *testing.T) {
	testCases := []struct {
		name            string
		invocations     []commands.Invocation
		expectedScratch string
		expectWarning   bool
	}{
		{
			name:            "failing later step keeps scratch edits",
			invocations:     []commands.Invocation{{Key: "rst", Arguments: commands.NoArguments{}}, {Key: "mc", Arguments: commands.MergeColumnsArguments{Start: 0, End: 5, Name: "name"}}},
			expectedScratch: testOtherScratchContentConstant,
			expectWarning:   true,
		},
		{
			name:            "successful replay persists restored table",
			invocations:     []commands.Invocation{{Key: "rst", Arguments: commands.NoArguments{}}},
			expectedScratch: testOtherContentConstant,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newTestFixture(testInstance)
			fixture.writeInput(testInstance, testFilenameConstant, testPristineContentConstant)
			fixture.writeInput(testInstance, testOtherFilenameConstant, testOtherContentConstant)
			require.NoError(testInstance, os.WriteFile(fixture.workspace.Paths(testOtherFilenameConstant).Scratch, []byte(testOtherScratchContentConstant), 0o644))

			registry, registryError := commands.DefaultRegistry()
			require.NoError(testInstance, registryError)

			request := commands.ControlRequest{
				Table:       mustTable(testInstance, []string{"first", "last"}, []string{"Ada", "Lovelace"}),
				Filename:    testFilenameConstant,
				Invocations: testCase.invocations,
			}

			_, executeError := registry.ExecuteControl(context.Background(), fixture.environment(""), "a", request)
			require.NoError(testInstance, executeError)
			require.Equal(testInstance, testCase.expectedScratch, fixture.readScratch(testInstance, testOtherFilenameConstant))
			if testCase.expectWarning {
				require.Len(testInstance, fixture.reporter.warningMessages, 1)
				require.Contains(testInstance, fixture.reporter.warningMessages[0], testOtherFilenameConstant)
				return
			}
			require.Empty(testInstance, fixture.reporter.warningMessages)
		})
	}
}
