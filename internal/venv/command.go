// Package venv builds the commands and configuration content used to create
// and populate Python virtual environments. Everything here is pure: the
// builders translate declarative intent into argument vectors and file
// content, they never touch the filesystem or spawn processes.
package venv

import (
	osexec "os/exec"
	"strings"

	"github.com/slok/venvx/internal/conventions"
	"github.com/slok/venvx/internal/model"
)

const systemSitePackagesFlag = "--system-site-packages"

// DefaultPythonBin resolves the default interpreter used when a provisioning
// request does not name one. It resolves python3 on PATH so the result is a
// real path and not a hardcoded literal; if resolution fails the bare name is
// returned and the spawned process resolves it itself.
func DefaultPythonBin() string {
	path, err := osexec.LookPath("python3")
	if err != nil {
		return "python3"
	}
	return path
}

// CreateCommand builds the command that creates a virtual environment.
// The venv module is invoked on an explicit interpreter so environments can
// be created for Python versions other than the default one.
func CreateCommand(pythonBin, envDir string, systemSitePackages bool) model.Command {
	if pythonBin == "" {
		pythonBin = DefaultPythonBin()
	}

	cmd := model.Command{pythonBin, "-m", "venv", envDir}
	if systemSitePackages {
		cmd = append(cmd, systemSitePackagesFlag)
	}
	return cmd
}

// InstallCommandFromList builds the command that installs a list of
// requirement specifiers using the environment-local installer binary.
func InstallCommandFromList(envDir string, installer model.Installer, installOptions, requirements []string) model.Command {
	cmd := installerPrefix(envDir, installer)
	cmd = append(cmd, installOptions...)
	cmd = append(cmd, requirements...)
	return cmd
}

// InstallCommandFromFile builds the command that installs requirements from a
// requirements file using the environment-local installer binary.
func InstallCommandFromFile(envDir string, installer model.Installer, installOptions []string, requirementsFilePath string) model.Command {
	cmd := installerPrefix(envDir, installer)
	cmd = append(cmd, installOptions...)
	cmd = append(cmd, "-r", requirementsFilePath)
	return cmd
}

// installerPrefix returns the leading tokens for an install command. uv keeps
// a pip-compatible CLI behind a "pip" subcommand, pip takes "install" directly.
func installerPrefix(envDir string, installer model.Installer) model.Command {
	if installer == model.InstallerUV {
		return model.Command{conventions.EnvBinPath(envDir, "uv"), "pip", "install"}
	}
	return model.Command{conventions.EnvBinPath(envDir, "pip"), "install"}
}

// IndexConfig builds the pip configuration content for the given index URLs.
//
// The first URL becomes the primary index and any remaining ones a single
// space-separated extra-index directive, preserving order. An empty list
// produces an explicit no-index directive: "no URLs" must be distinguishable
// from "use the default index", which is expressed by not writing the file
// at all.
func IndexConfig(indexURLs []string) string {
	var b strings.Builder
	b.WriteString("[global]\n")

	if len(indexURLs) == 0 {
		b.WriteString("no-index = true")
		return b.String()
	}

	b.WriteString("index-url = " + indexURLs[0])
	if len(indexURLs) > 1 {
		b.WriteString("\nextra-index-url = " + strings.Join(indexURLs[1:], " "))
	}
	return b.String()
}
