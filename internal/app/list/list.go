package list

import (
	"context"
	"fmt"

	"github.com/slok/venvx/internal/log"
	"github.com/slok/venvx/internal/model"
	"github.com/slok/venvx/internal/storage"
)

// ServiceConfig is the configuration for the list service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists recorded environments with optional filtering.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	// InstallerFilter is an optional filter to only show environments
	// provisioned with this installer.
	InstallerFilter *model.Installer
}

// Run lists all recorded environments, optionally filtered by installer.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Environment, error) {
	s.logger.Debugf("listing environments with filter: %v", req.InstallerFilter)

	envs, err := s.repo.ListEnvironments(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list environments: %w", err)
	}

	if req.InstallerFilter != nil {
		filtered := make([]model.Environment, 0, len(envs))
		for _, env := range envs {
			if env.Installer == *req.InstallerFilter {
				filtered = append(filtered, env)
			}
		}
		envs = filtered
	}

	s.logger.Debugf("found %d environments", len(envs))
	return envs, nil
}
