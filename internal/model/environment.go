package model

import (
	"fmt"
	"time"
)

// Installer is the package installation backend used to populate an
// environment.
type Installer string

const (
	// InstallerPip uses the environment-local pip binary.
	InstallerPip Installer = "pip"
	// InstallerUV uses the environment-local uv binary.
	InstallerUV Installer = "uv"
)

// EnvironmentConfig is the declarative request for provisioning a virtual
// environment. It is immutable after construction and used for a single
// provisioning call.
//
// Absent and empty are distinct states for some fields:
//   - IndexURLs: nil means "leave index configuration untouched", an empty
//     non-nil slice means "explicitly configure no-index".
//   - Requirements: nil means no requirement list was given, an empty non-nil
//     slice means an explicitly empty list (nothing to install).
//   - RequirementsFilePath: an empty string means no file was given.
type EnvironmentConfig struct {
	// Path is the directory where the environment will be created.
	Path string
	// PythonBin is the interpreter used to create the environment. Empty
	// means the resolved default interpreter, so environments for other
	// interpreter versions are only created when a path is given explicitly.
	PythonBin string
	// SystemSitePackages makes the environment inherit the system site-packages.
	SystemSitePackages bool
	// Requirements is the list of requirement specifiers to install.
	// Mutually exclusive with RequirementsFilePath.
	Requirements []string
	// RequirementsFilePath is a requirements file to install from.
	// Mutually exclusive with Requirements.
	RequirementsFilePath string
	// InstallOptions are extra options passed to the installer.
	InstallOptions []string
	// IndexURLs are the package index URLs written to the environment's
	// pip.conf. First URL is the primary index, the rest become extra indexes.
	IndexURLs []string
	// Installer selects the installation backend. Empty defaults to pip.
	Installer Installer
}

// Validate validates the environment configuration and normalizes the
// installer default.
func (c *EnvironmentConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("environment path is required: %w", ErrNotValid)
	}

	if c.Requirements != nil && c.RequirementsFilePath != "" {
		return fmt.Errorf("either requirements or a requirements file can be set, but not both: %w", ErrNotValid)
	}

	switch c.Installer {
	case "":
		c.Installer = InstallerPip
	case InstallerPip, InstallerUV:
	default:
		return fmt.Errorf("unknown installer %q (must be pip or uv): %w", c.Installer, ErrNotValid)
	}

	return nil
}

// Environment is the record of a provisioned virtual environment.
type Environment struct {
	ID         string
	Path       string
	PythonPath string
	Installer  Installer
	CreatedAt  time.Time
}
