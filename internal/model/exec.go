package model

// ExecResult contains the result of executing a command.
type ExecResult struct {
	// ExitCode is the exit code of the executed command.
	ExitCode int
	// CombinedOutput is the captured stdout and stderr of the command.
	CombinedOutput string
}
