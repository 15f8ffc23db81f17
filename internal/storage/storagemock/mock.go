// Package storagemock contains mocks for the storage package.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/slok/venvx/internal/model"
)

// MockRepository is a mock implementation of storage.Repository.
type MockRepository struct {
	mock.Mock
}

// CreateEnvironment mocks storage.Repository.CreateEnvironment.
func (m *MockRepository) CreateEnvironment(ctx context.Context, env model.Environment) error {
	args := m.Called(ctx, env)
	return args.Error(0)
}

// GetEnvironment mocks storage.Repository.GetEnvironment.
func (m *MockRepository) GetEnvironment(ctx context.Context, id string) (*model.Environment, error) {
	args := m.Called(ctx, id)

	var env *model.Environment
	if args.Get(0) != nil {
		env = args.Get(0).(*model.Environment)
	}
	return env, args.Error(1)
}

// GetEnvironmentByPath mocks storage.Repository.GetEnvironmentByPath.
func (m *MockRepository) GetEnvironmentByPath(ctx context.Context, path string) (*model.Environment, error) {
	args := m.Called(ctx, path)

	var env *model.Environment
	if args.Get(0) != nil {
		env = args.Get(0).(*model.Environment)
	}
	return env, args.Error(1)
}

// ListEnvironments mocks storage.Repository.ListEnvironments.
func (m *MockRepository) ListEnvironments(ctx context.Context) ([]model.Environment, error) {
	args := m.Called(ctx)

	var envs []model.Environment
	if args.Get(0) != nil {
		envs = args.Get(0).([]model.Environment)
	}
	return envs, args.Error(1)
}

// DeleteEnvironment mocks storage.Repository.DeleteEnvironment.
func (m *MockRepository) DeleteEnvironment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
