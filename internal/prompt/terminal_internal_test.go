package prompt

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminalReadWriterInterrupt(testInstance *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedBytes string
		expectedError error
	}{
		{name: "plain_input", input: "mc\r", expectedBytes: "mc\r"},
		{name: "ctrl_c", input: "m\x03", expectedError: ErrInterrupted},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			readWriter := terminalReadWriter{Reader: strings.NewReader(testCase.input), Writer: io.Discard}
			buffer := make([]byte, 16)
			count, readError := readWriter.Read(buffer)
			if testCase.expectedError != nil {
				require.ErrorIs(subtest, readError, testCase.expectedError)
				require.ErrorIs(subtest, readError, context.Canceled)
				require.Zero(subtest, count)
				return
			}
			require.NoError(subtest, readError)
			require.Equal(subtest, testCase.expectedBytes, string(buffer[:count]))
		})
	}
}
