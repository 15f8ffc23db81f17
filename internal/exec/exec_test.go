package exec_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/venvx/internal/exec"
	"github.com/slok/venvx/internal/model"
)

func TestLocalExecutorExecute(t *testing.T) {
	tests := map[string]struct {
		command     model.Command
		expErr      bool
		expSentinel error
		expExitCode int
		expOutput   string
	}{
		"A successful command should report exit code zero and its output": {
			command:     model.Command{"sh", "-c", "echo hello"},
			expExitCode: 0,
			expOutput:   "hello\n",
		},

		"A failing command should report its exit code without an error": {
			command:     model.Command{"sh", "-c", "exit 3"},
			expExitCode: 3,
		},

		"A command that cannot be started should fail": {
			command: model.Command{"/nonexistent/binary/for/sure"},
			expErr:  true,
		},

		"An empty command should fail as not valid": {
			command:     model.Command{},
			expErr:      true,
			expSentinel: model.ErrNotValid,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			executor, err := exec.NewLocalExecutor(exec.LocalExecutorConfig{})
			require.NoError(t, err)

			res, err := executor.Execute(context.Background(), tt.command)

			if tt.expErr {
				require.Error(t, err)
				if tt.expSentinel != nil {
					assert.True(t, errors.Is(err, tt.expSentinel))
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expExitCode, res.ExitCode)
			if tt.expOutput != "" {
				assert.Equal(t, tt.expOutput, res.CombinedOutput)
			}
		})
	}
}
