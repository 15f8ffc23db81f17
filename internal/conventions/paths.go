package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default venvx data directory name (relative to home).
	DefaultDataDir = ".venvx"
	// DBFile is the filename of the environment registry database.
	DBFile = "venvx.db"
	// TemplatesDir is the subdirectory for user script templates.
	TemplatesDir = "templates"

	// Environment-level files.

	// BinDir is the binaries subdirectory inside a virtual environment.
	BinDir = "bin"
	// PythonBin is the interpreter binary name inside a virtual environment.
	PythonBin = "python"
	// PipConfFile is the pip configuration filename inside a virtual environment.
	PipConfFile = "pip.conf"
)

// EnvBinPath returns the full path to a binary inside a virtual environment.
func EnvBinPath(envDir, binary string) string {
	return filepath.Join(envDir, BinDir, binary)
}

// EnvPythonPath returns the path to the interpreter of a virtual environment.
func EnvPythonPath(envDir string) string {
	return EnvBinPath(envDir, PythonBin)
}

// EnvPipConfPath returns the path to the pip configuration file of a virtual
// environment.
func EnvPipConfPath(envDir string) string {
	return filepath.Join(envDir, PipConfFile)
}

// DataDirPath returns the venvx data directory for a given home directory.
func DataDirPath(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir)
}

// DBPath returns the environment registry database path for a given home directory.
func DBPath(homeDir string) string {
	return filepath.Join(DataDirPath(homeDir), DBFile)
}

// UserTemplatesPath returns the user script templates directory for a given
// home directory.
func UserTemplatesPath(homeDir string) string {
	return filepath.Join(DataDirPath(homeDir), TemplatesDir)
}
