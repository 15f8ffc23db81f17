// Package prepare implements the virtual environment provisioning service.
package prepare

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/venvx/internal/conventions"
	"github.com/slok/venvx/internal/exec"
	"github.com/slok/venvx/internal/log"
	"github.com/slok/venvx/internal/model"
	"github.com/slok/venvx/internal/storage"
	"github.com/slok/venvx/internal/venv"
)

// ServiceConfig is the configuration for the prepare service.
type ServiceConfig struct {
	Executor   exec.Executor
	Repository storage.Repository
	Logger     log.Logger

	// WriteFile writes the index configuration file. Defaults to os.WriteFile.
	WriteFile func(path string, content []byte, perm os.FileMode) error
}

func (c *ServiceConfig) defaults() error {
	if c.Executor == nil {
		return fmt.Errorf("executor is required")
	}
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.WriteFile == nil {
		c.WriteFile = os.WriteFile
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Prepare"})
	return nil
}

// Service handles virtual environment provisioning business logic.
type Service struct {
	executor  exec.Executor
	repo      storage.Repository
	writeFile func(path string, content []byte, perm os.FileMode) error
	logger    log.Logger
}

// NewService creates a new prepare service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		executor:  cfg.Executor,
		repo:      cfg.Repository,
		writeFile: cfg.WriteFile,
		logger:    cfg.Logger,
	}, nil
}

// PrepareOptions are the options for provisioning a virtual environment.
type PrepareOptions struct {
	Config model.EnvironmentConfig
}

// Run provisions a virtual environment: it validates the request, optionally
// writes the index configuration, creates the environment, installs the
// requested dependencies and records the environment. It returns the record,
// whose PythonPath is the environment's interpreter.
//
// There is no rollback: a failed stage aborts and the caller owns disposal of
// whatever was created up to that point.
func (s *Service) Run(ctx context.Context, opts PrepareOptions) (*model.Environment, error) {
	cfg := opts.Config

	// 1. Validate before any side effect, so an invalid request never spawns
	// a process or touches the filesystem.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Index configuration. nil means "leave the index configuration
	// alone", an empty slice writes an explicit no-index file.
	if cfg.IndexURLs != nil {
		confPath := conventions.EnvPipConfPath(cfg.Path)
		content := venv.IndexConfig(cfg.IndexURLs)
		if err := s.writeFile(confPath, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("could not write index configuration: %w", err)
		}
		s.logger.Debugf("Wrote index configuration to %s", confPath)
	}

	// 3. Create the environment.
	createCmd := venv.CreateCommand(cfg.PythonBin, cfg.Path, cfg.SystemSitePackages)
	if err := s.execute(ctx, createCmd); err != nil {
		return nil, fmt.Errorf("could not create virtual environment: %w", err)
	}

	// 4. Install dependencies, if any were given. The requirement list wins
	// over the file; validation already rejected having both.
	var installCmd model.Command
	switch {
	case len(cfg.Requirements) > 0:
		installCmd = venv.InstallCommandFromList(cfg.Path, cfg.Installer, cfg.InstallOptions, cfg.Requirements)
	case cfg.RequirementsFilePath != "":
		installCmd = venv.InstallCommandFromFile(cfg.Path, cfg.Installer, cfg.InstallOptions, cfg.RequirementsFilePath)
	}
	if installCmd != nil {
		if err := s.execute(ctx, installCmd); err != nil {
			return nil, fmt.Errorf("could not install requirements: %w", err)
		}
	}

	// 5. Record the environment. The interpreter path is a convention of the
	// created layout, not verified to exist.
	env := &model.Environment{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String(),
		Path:       cfg.Path,
		PythonPath: conventions.EnvPythonPath(cfg.Path),
		Installer:  cfg.Installer,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateEnvironment(ctx, *env); err != nil {
		return nil, fmt.Errorf("could not save environment: %w", err)
	}

	s.logger.Infof("Prepared virtual environment at %s (%s)", env.Path, env.ID)

	return env, nil
}

func (s *Service) execute(ctx context.Context, cmd model.Command) error {
	res, err := s.executor.Execute(ctx, cmd)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("command %s exited with status %d: %s: %w",
			cmd, res.ExitCode, res.CombinedOutput, model.ErrExecFailed)
	}
	return nil
}
