// Package renderscript implements the script materialization service.
package renderscript

import (
	"context"
	"fmt"

	"github.com/slok/venvx/internal/log"
	"github.com/slok/venvx/internal/script"
)

// ServiceConfig is the configuration for the render script service.
type ServiceConfig struct {
	Renderer *script.Service
	Logger   log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Renderer == nil {
		return fmt.Errorf("renderer is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.RenderScript"})
	return nil
}

// Service materializes script templates for execution inside prepared
// environments.
type Service struct {
	renderer *script.Service
	logger   log.Logger
}

// NewService creates a new render script service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
	}, nil
}

// Run renders the named template with the given context into the output file.
func (s *Service) Run(ctx context.Context, req script.RenderRequest) (*script.RenderResult, error) {
	res, err := s.renderer.Render(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("could not render script: %w", err)
	}

	if req.OutputPath != "" {
		s.logger.Infof("Rendered script %q to %s", req.TemplateName, req.OutputPath)
	}

	return res, nil
}
