package storage

import (
	"context"

	"github.com/slok/venvx/internal/model"
)

// Repository is the interface for environment record persistence.
type Repository interface {
	CreateEnvironment(ctx context.Context, env model.Environment) error
	GetEnvironment(ctx context.Context, id string) (*model.Environment, error)
	GetEnvironmentByPath(ctx context.Context, path string) (*model.Environment, error)
	ListEnvironments(ctx context.Context) ([]model.Environment, error)
	DeleteEnvironment(ctx context.Context, id string) error
}
