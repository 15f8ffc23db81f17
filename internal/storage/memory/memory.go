package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/venvx/internal/log"
	"github.com/slok/venvx/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	environments map[string]model.Environment
	mu           sync.RWMutex
	logger       log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		environments: make(map[string]model.Environment),
		logger:       cfg.Logger,
	}, nil
}

// CreateEnvironment creates a new environment record in the repository.
func (r *Repository) CreateEnvironment(ctx context.Context, env model.Environment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.environments[env.ID]; ok {
		return fmt.Errorf("environment with id %s: %w", env.ID, model.ErrAlreadyExists)
	}

	for _, existing := range r.environments {
		if existing.Path == env.Path {
			return fmt.Errorf("environment at path %s: %w", env.Path, model.ErrAlreadyExists)
		}
	}

	r.environments[env.ID] = env
	r.logger.Debugf("Created environment in repository: %s", env.ID)

	return nil
}

// GetEnvironment retrieves an environment record by ID.
func (r *Repository) GetEnvironment(ctx context.Context, id string) (*model.Environment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	env, ok := r.environments[id]
	if !ok {
		return nil, fmt.Errorf("environment %s: %w", id, model.ErrNotFound)
	}

	envCopy := env
	return &envCopy, nil
}

// GetEnvironmentByPath retrieves an environment record by its directory path.
func (r *Repository) GetEnvironmentByPath(ctx context.Context, path string) (*model.Environment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, env := range r.environments {
		if env.Path == path {
			envCopy := env
			return &envCopy, nil
		}
	}

	return nil, fmt.Errorf("environment at %s: %w", path, model.ErrNotFound)
}

// ListEnvironments retrieves all environment records, newest first.
func (r *Repository) ListEnvironments(ctx context.Context) ([]model.Environment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	envs := make([]model.Environment, 0, len(r.environments))
	for _, env := range r.environments {
		envs = append(envs, env)
	}

	sort.Slice(envs, func(i, j int) bool {
		return envs[i].CreatedAt.After(envs[j].CreatedAt)
	})

	return envs, nil
}

// DeleteEnvironment deletes an environment record by ID.
func (r *Repository) DeleteEnvironment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.environments[id]; !ok {
		return fmt.Errorf("environment %s: %w", id, model.ErrNotFound)
	}

	delete(r.environments, id)
	r.logger.Debugf("Deleted environment from repository: %s", id)

	return nil
}
