package printer

import "github.com/slok/venvx/internal/model"

// Printer knows how to print environment information in different formats.
type Printer interface {
	PrintList(envs []model.Environment) error
	PrintEnvironment(env model.Environment) error
	PrintMessage(msg string) error
}
