// Package exec defines the process execution port used by the provisioning
// services and its local implementation.
package exec

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"

	"github.com/slok/venvx/internal/log"
	"github.com/slok/venvx/internal/model"
)

// Executor knows how to run a command and report its exit status and
// captured output. Cancellation and timeouts are the executor's concern,
// driven by the passed context.
type Executor interface {
	Execute(ctx context.Context, cmd model.Command) (*model.ExecResult, error)
}

// LocalExecutorConfig is the configuration for the local executor.
type LocalExecutorConfig struct {
	Logger log.Logger
}

func (c *LocalExecutorConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "exec.Local"})
	return nil
}

// LocalExecutor runs commands as local child processes. Commands are spawned
// from their argument vector directly, never through a shell.
type LocalExecutor struct {
	logger log.Logger
}

// NewLocalExecutor creates a new local executor.
func NewLocalExecutor(cfg LocalExecutorConfig) (*LocalExecutor, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &LocalExecutor{logger: cfg.Logger}, nil
}

// Execute runs the command and blocks until it finishes. A non-zero exit is
// not an error at this level: the result carries the exit code and the
// combined output, and the caller decides.
func (e *LocalExecutor) Execute(ctx context.Context, cmd model.Command) (*model.ExecResult, error) {
	if len(cmd) == 0 {
		return nil, fmt.Errorf("command is empty: %w", model.ErrNotValid)
	}

	e.logger.Debugf("Executing command: %s", cmd)

	osCmd := osexec.CommandContext(ctx, cmd.Program(), cmd.Args()...)
	output, err := osCmd.CombinedOutput()
	if err != nil {
		var exitErr *osexec.ExitError
		if errors.As(err, &exitErr) {
			return &model.ExecResult{
				ExitCode:       exitErr.ExitCode(),
				CombinedOutput: string(output),
			}, nil
		}
		return nil, fmt.Errorf("could not start command %s: %w", cmd, err)
	}

	return &model.ExecResult{
		ExitCode:       0,
		CombinedOutput: string(output),
	}, nil
}
