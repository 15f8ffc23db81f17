package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	"github.com/slok/venvx/internal/app/renderscript"
	"github.com/slok/venvx/internal/script"
)

type RenderScriptCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	template     string
	output       string
	contextFile  string
	contextVars  []string
	native       bool
	templatesDir string
}

// NewRenderScriptCommand returns the render-script command.
func NewRenderScriptCommand(rootCmd *RootCommand, app *kingpin.Application) *RenderScriptCommand {
	c := &RenderScriptCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("render-script", "Render a script template into a file using a context mapping.")

	c.Cmd.Flag("template", "Template name under the template search root.").Default(script.DefaultScriptTemplate).StringVar(&c.template)
	c.Cmd.Flag("output", "File the rendered script is written to.").Short('o').Required().StringVar(&c.output)
	c.Cmd.Flag("context-file", "YAML file with the template context mapping.").StringVar(&c.contextFile)
	c.Cmd.Flag("var", "Extra context variable as key=value (repeatable, overrides the context file).").StringsVar(&c.contextVars)
	c.Cmd.Flag("native", "Preserve native value types instead of escaping text output.").BoolVar(&c.native)
	c.Cmd.Flag("templates-dir", "Directory with user templates (defaults to the embedded templates).").Envar("VENVX_TEMPLATES_DIR").StringVar(&c.templatesDir)

	return c
}

func (c RenderScriptCommand) Name() string { return c.Cmd.FullCommand() }

func (c RenderScriptCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Build the template context: YAML file first, then --var overrides.
	templateContext := map[string]interface{}{}
	if c.contextFile != "" {
		raw, err := os.ReadFile(c.contextFile)
		if err != nil {
			return fmt.Errorf("could not read context file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &templateContext); err != nil {
			return fmt.Errorf("could not parse context file: %w", err)
		}
	}
	for _, v := range c.contextVars {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid context variable %q (expected key=value)", v)
		}
		templateContext[key] = value
	}

	// Template search root.
	cfg := script.ServiceConfig{Logger: logger}
	if c.templatesDir != "" {
		cfg.Templates = os.DirFS(c.templatesDir)
	}

	renderer, err := script.NewService(cfg)
	if err != nil {
		return fmt.Errorf("could not create renderer: %w", err)
	}

	svc, err := renderscript.NewService(renderscript.ServiceConfig{
		Renderer: renderer,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	_, err = svc.Run(ctx, script.RenderRequest{
		TemplateName: c.template,
		Context:      templateContext,
		OutputPath:   c.output,
		NativeMode:   c.native,
	})
	if err != nil {
		return fmt.Errorf("could not render script: %w", err)
	}

	return nil
}
