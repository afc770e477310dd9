package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/hencsv/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/editor"

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "bare tilde", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde prefix", input: "~/data/csv_files", expectedPath: filepath.Join(testHomeDirectoryConstant, "data", "csv_files")},
		{name: "relative path", input: "csv_files", expectedPath: "csv_files"},
		{name: "other user", input: "~other/csv_files", expectedPath: "~other/csv_files"},
		{name: "empty", input: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderWithoutHome(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/csv_files", expander.Expand("~/csv_files"))

	var nilExpander *pathutils.HomeExpander
	require.Equal(testInstance, "~", nilExpander.Expand("~"))
}
