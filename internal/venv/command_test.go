package venv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/venvx/internal/model"
	"github.com/slok/venvx/internal/venv"
)

func TestCreateCommand(t *testing.T) {
	tests := map[string]struct {
		pythonBin          string
		envDir             string
		systemSitePackages bool
		expCommand         model.Command
	}{
		"An explicit interpreter should be used as is": {
			pythonBin:  "/usr/bin/python3.12",
			envDir:     "/tmp/venv",
			expCommand: model.Command{"/usr/bin/python3.12", "-m", "venv", "/tmp/venv"},
		},

		"System site packages should append the flag": {
			pythonBin:          "/usr/bin/python3.12",
			envDir:             "/tmp/venv",
			systemSitePackages: true,
			expCommand:         model.Command{"/usr/bin/python3.12", "-m", "venv", "/tmp/venv", "--system-site-packages"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := venv.CreateCommand(tt.pythonBin, tt.envDir, tt.systemSitePackages)
			assert.Equal(t, tt.expCommand, cmd)
		})
	}
}

func TestCreateCommandDefaultInterpreter(t *testing.T) {
	cmd := venv.CreateCommand("", "/tmp/venv", false)

	// The resolved default depends on the host, but it is never empty and the
	// rest of the command keeps its shape.
	assert.Len(t, cmd, 4)
	assert.NotEmpty(t, cmd[0])
	assert.Equal(t, venv.DefaultPythonBin(), cmd[0])
	assert.Equal(t, model.Command{"-m", "venv", "/tmp/venv"}, cmd[1:])
}

func TestInstallCommandFromList(t *testing.T) {
	tests := map[string]struct {
		envDir         string
		installer      model.Installer
		installOptions []string
		requirements   []string
		expCommand     model.Command
	}{
		"pip with requirements should install directly": {
			envDir:       "/tmp/venv",
			installer:    model.InstallerPip,
			requirements: []string{"requests==2.32.0", "pyyaml"},
			expCommand:   model.Command{"/tmp/venv/bin/pip", "install", "requests==2.32.0", "pyyaml"},
		},

		"pip with install options should place them before requirements": {
			envDir:         "/tmp/venv",
			installer:      model.InstallerPip,
			installOptions: []string{"--no-cache-dir", "--upgrade"},
			requirements:   []string{"requests"},
			expCommand:     model.Command{"/tmp/venv/bin/pip", "install", "--no-cache-dir", "--upgrade", "requests"},
		},

		"uv should keep the pip subcommand prefix": {
			envDir:         "/tmp/venv",
			installer:      model.InstallerUV,
			installOptions: []string{"--no-cache-dir"},
			requirements:   []string{"requests", "pyyaml"},
			expCommand:     model.Command{"/tmp/venv/bin/uv", "pip", "install", "--no-cache-dir", "requests", "pyyaml"},
		},

		"An empty requirements list should produce a degenerate install command": {
			envDir:     "/tmp/venv",
			installer:  model.InstallerPip,
			expCommand: model.Command{"/tmp/venv/bin/pip", "install"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := venv.InstallCommandFromList(tt.envDir, tt.installer, tt.installOptions, tt.requirements)
			assert.Equal(t, tt.expCommand, cmd)
		})
	}
}

func TestInstallCommandFromFile(t *testing.T) {
	tests := map[string]struct {
		envDir           string
		installer        model.Installer
		installOptions   []string
		requirementsFile string
		expCommand       model.Command
	}{
		"pip with a requirements file should end with -r": {
			envDir:           "/tmp/venv",
			installer:        model.InstallerPip,
			requirementsFile: "/tmp/requirements.txt",
			expCommand:       model.Command{"/tmp/venv/bin/pip", "install", "-r", "/tmp/requirements.txt"},
		},

		"Install options should come before the file reference": {
			envDir:           "/tmp/venv",
			installer:        model.InstallerPip,
			installOptions:   []string{"--no-cache-dir"},
			requirementsFile: "/tmp/requirements.txt",
			expCommand:       model.Command{"/tmp/venv/bin/pip", "install", "--no-cache-dir", "-r", "/tmp/requirements.txt"},
		},

		"uv with a requirements file should keep the pip subcommand prefix": {
			envDir:           "/tmp/venv",
			installer:        model.InstallerUV,
			installOptions:   []string{"--no-cache-dir"},
			requirementsFile: "/tmp/requirements.txt",
			expCommand:       model.Command{"/tmp/venv/bin/uv", "pip", "install", "--no-cache-dir", "-r", "/tmp/requirements.txt"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := venv.InstallCommandFromFile(tt.envDir, tt.installer, tt.installOptions, tt.requirementsFile)
			assert.Equal(t, tt.expCommand, cmd)
		})
	}
}

func TestIndexConfig(t *testing.T) {
	tests := map[string]struct {
		indexURLs  []string
		expContent string
	}{
		"No URLs should disable index usage explicitly": {
			indexURLs:  []string{},
			expContent: "[global]\nno-index = true",
		},

		"A single URL should become the primary index": {
			indexURLs:  []string{"https://pypi.org/simple"},
			expContent: "[global]\nindex-url = https://pypi.org/simple",
		},

		"Multiple URLs should keep order with a single extra-index directive": {
			indexURLs: []string{
				"https://pypi.org/simple",
				"https://internal.example.com/simple",
				"https://mirror.example.com/simple",
			},
			expContent: "[global]\nindex-url = https://pypi.org/simple\nextra-index-url = https://internal.example.com/simple https://mirror.example.com/simple",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expContent, venv.IndexConfig(tt.indexURLs))
		})
	}
}
