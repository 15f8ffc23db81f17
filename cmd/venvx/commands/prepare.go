package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/kballard/go-shellquote"

	"github.com/slok/venvx/internal/app/prepare"
	"github.com/slok/venvx/internal/exec"
	"github.com/slok/venvx/internal/model"
	"github.com/slok/venvx/internal/printer"
	"github.com/slok/venvx/internal/storage/sqlite"
)

type PrepareCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	// Required flags.
	path string

	// Environment flags.
	python             string
	systemSitePackages bool

	// Dependency flags.
	requirements     []string
	requirementsFile string
	installOptions   []string
	installer        string

	// Index flags.
	indexURLs []string
	noIndex   bool

	format string
}

// NewPrepareCommand returns the prepare command.
func NewPrepareCommand(rootCmd *RootCommand, app *kingpin.Application) *PrepareCommand {
	c := &PrepareCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("prepare", "Create a virtual environment and install its dependencies.")

	// Required flags.
	c.Cmd.Flag("path", "Directory where the environment will be created.").Short('p').Required().StringVar(&c.path)

	// Environment flags.
	c.Cmd.Flag("python", "Interpreter used to create the environment (defaults to python3 on PATH).").StringVar(&c.python)
	c.Cmd.Flag("system-site-packages", "Give the environment access to the system site-packages.").BoolVar(&c.systemSitePackages)

	// Dependency flags.
	c.Cmd.Flag("requirement", "Requirement specifier to install (repeatable). Mutually exclusive with --requirements-file.").Short('r').StringsVar(&c.requirements)
	c.Cmd.Flag("requirements-file", "Requirements file to install from. Mutually exclusive with --requirement.").StringVar(&c.requirementsFile)
	c.Cmd.Flag("install-option", "Extra installer option (repeatable, shell-quoted strings are split into tokens).").StringsVar(&c.installOptions)
	c.Cmd.Flag("installer", "Package installer to use.").Default(string(model.InstallerPip)).EnumVar(&c.installer, string(model.InstallerPip), string(model.InstallerUV))

	// Index flags.
	c.Cmd.Flag("index-url", "Package index URL (repeatable, first one is the primary index).").StringsVar(&c.indexURLs)
	c.Cmd.Flag("no-index", "Disable package index usage entirely.").BoolVar(&c.noIndex)

	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c PrepareCommand) Name() string { return c.Cmd.FullCommand() }

func (c PrepareCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Split quoted install option strings into discrete tokens so they keep
	// their boundaries in the final argument vector.
	var installOptions []string
	for _, opt := range c.installOptions {
		tokens, err := shellquote.Split(opt)
		if err != nil {
			return fmt.Errorf("invalid install option %q: %w", opt, err)
		}
		installOptions = append(installOptions, tokens...)
	}

	// Build EnvironmentConfig from CLI flags. Index URLs stay absent unless
	// the user asked for them: --no-index maps to an explicit empty list.
	cfg := model.EnvironmentConfig{
		Path:                 c.path,
		PythonBin:            c.python,
		SystemSitePackages:   c.systemSitePackages,
		RequirementsFilePath: c.requirementsFile,
		InstallOptions:       installOptions,
		Installer:            model.Installer(c.installer),
	}
	if len(c.requirements) > 0 {
		cfg.Requirements = c.requirements
	}
	switch {
	case c.noIndex && len(c.indexURLs) > 0:
		return fmt.Errorf("--no-index and --index-url are mutually exclusive")
	case c.noIndex:
		cfg.IndexURLs = []string{}
	case len(c.indexURLs) > 0:
		cfg.IndexURLs = c.indexURLs
	}

	// Initialize storage (SQLite).
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	// Local process executor.
	executor, err := exec.NewLocalExecutor(exec.LocalExecutorConfig{Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create executor: %w", err)
	}

	// Create service.
	svc, err := prepare.NewService(prepare.ServiceConfig{
		Executor:   executor,
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	env, err := svc.Run(ctx, prepare.PrepareOptions{Config: cfg})
	if err != nil {
		return fmt.Errorf("could not prepare environment: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintEnvironment(*env); err != nil {
		return fmt.Errorf("could not print environment: %w", err)
	}

	return nil
}
