// Package execmock contains mocks for the exec package.
package execmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/venvx/internal/model"
)

// MockExecutor is a mock implementation of exec.Executor.
type MockExecutor struct {
	mock.Mock
}

// Execute mocks exec.Executor.Execute.
func (m *MockExecutor) Execute(ctx context.Context, cmd model.Command) (*model.ExecResult, error) {
	args := m.Called(ctx, cmd)

	var res *model.ExecResult
	if args.Get(0) != nil {
		res = args.Get(0).(*model.ExecResult)
	}
	return res, args.Error(1)
}
