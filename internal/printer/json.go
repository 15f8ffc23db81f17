package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/venvx/internal/model"
)

// JSONPrinter prints environment information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// environmentOutput represents an environment in the JSON output.
type environmentOutput struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	PythonPath string    `json:"python_path"`
	Installer  string    `json:"installer"`
	CreatedAt  time.Time `json:"created_at"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

func newEnvironmentOutput(env model.Environment) environmentOutput {
	return environmentOutput{
		ID:         env.ID,
		Path:       env.Path,
		PythonPath: env.PythonPath,
		Installer:  string(env.Installer),
		CreatedAt:  env.CreatedAt,
	}
}

// PrintList prints environments in JSON format.
func (j *JSONPrinter) PrintList(envs []model.Environment) error {
	items := make([]environmentOutput, len(envs))
	for i, env := range envs {
		items[i] = newEnvironmentOutput(env)
	}

	return j.encode(items)
}

// PrintEnvironment prints a single environment in JSON format.
func (j *JSONPrinter) PrintEnvironment(env model.Environment) error {
	return j.encode(newEnvironmentOutput(env))
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
