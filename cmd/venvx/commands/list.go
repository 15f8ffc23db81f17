package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/venvx/internal/app/list"
	"github.com/slok/venvx/internal/model"
	"github.com/slok/venvx/internal/printer"
	"github.com/slok/venvx/internal/storage/sqlite"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	installerFilter string
	format          string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List all recorded environments.")
	c.Cmd.Flag("installer", "Filter by installer (pip, uv).").StringVar(&c.installerFilter)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Parse installer filter if provided.
	var installerFilter *model.Installer
	if c.installerFilter != "" {
		installer := model.Installer(strings.ToLower(c.installerFilter))
		switch installer {
		case model.InstallerPip, model.InstallerUV:
			installerFilter = &installer
		default:
			return fmt.Errorf("invalid installer filter: %s (must be: pip, uv)", c.installerFilter)
		}
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

	// Create list service.
	svc, err := list.NewService(list.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	// Execute list.
	envs, err := svc.Run(ctx, list.Request{
		InstallerFilter: installerFilter,
	})
	if err != nil {
		return fmt.Errorf("could not list environments: %w", err)
	}

	// Print output.
	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintList(envs); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
