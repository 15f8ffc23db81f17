package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/venvx/internal/model"
)

// TablePrinter prints environment information in a table format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintList prints environments in a table format.
func (t *TablePrinter) PrintList(envs []model.Environment) error {
	if len(envs) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	// Print header
	fmt.Fprintln(tw, "ID\tPATH\tINSTALLER\tCREATED")

	// Print rows
	for _, env := range envs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", env.ID, env.Path, env.Installer, TimeAgo(env.CreatedAt))
	}

	return nil
}

// PrintEnvironment prints detailed environment information.
func (t *TablePrinter) PrintEnvironment(env model.Environment) error {
	fmt.Fprintf(t.writer, "ID:         %s\n", env.ID)
	fmt.Fprintf(t.writer, "Path:       %s\n", env.Path)
	fmt.Fprintf(t.writer, "Python:     %s\n", env.PythonPath)
	fmt.Fprintf(t.writer, "Installer:  %s\n", env.Installer)
	fmt.Fprintf(t.writer, "Created:    %s\n", FormatTimestamp(env.CreatedAt))

	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
