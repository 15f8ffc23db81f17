// Package script materializes parameterized script templates into files.
//
// Rendering is strict: every variable a template references must be present
// in the supplied context, and the check runs before anything is written so
// a failed render never leaves a truncated output file behind.
package script

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	texttemplate "text/template"
	"text/template/parse"

	"gopkg.in/yaml.v3"

	"github.com/slok/venvx/internal/log"
	"github.com/slok/venvx/internal/model"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// DefaultTemplates is the template search root used when no other one is
// configured. It contains the stock virtualenv script template.
func DefaultTemplates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embedded tree is fixed at compile time.
		panic(err)
	}
	return sub
}

// DefaultScriptTemplate is the name of the stock virtualenv script template.
const DefaultScriptTemplate = "venv_script.py.tmpl"

// ServiceConfig is the configuration for the script render service.
type ServiceConfig struct {
	// Templates is the search root for named templates. Defaults to the
	// embedded templates.
	Templates fs.FS
	Logger    log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Templates == nil {
		c.Templates = DefaultTemplates()
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "script.Service"})
	return nil
}

// Service renders script templates to files.
type Service struct {
	templates fs.FS
	logger    log.Logger
}

// NewService creates a new script render service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		templates: cfg.Templates,
		logger:    cfg.Logger,
	}, nil
}

// RenderRequest is a single template materialization request.
type RenderRequest struct {
	// TemplateName is the template filename under the configured search root.
	TemplateName string
	// Context is the variable namespace bound to the template.
	Context map[string]interface{}
	// OutputPath is the file the rendered content is written to. It is
	// overwritten if it exists. Empty means no file is written.
	OutputPath string
	// NativeMode disables output escaping and additionally decodes the
	// rendered expression into its native value.
	NativeMode bool
}

// RenderResult is the outcome of a render.
type RenderResult struct {
	// Output is the rendered textual content.
	Output string
	// Native is the rendered output decoded into its native value (scalar,
	// list or map). Only set in native mode.
	Native interface{}
}

// Render loads the named template, validates that the context covers every
// variable the template references, renders it and writes the result to the
// output path with a temp-file-and-rename so a partial render is never
// observable.
func (s *Service) Render(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	if req.TemplateName == "" {
		return nil, fmt.Errorf("template name is required: %w", model.ErrNotValid)
	}

	raw, err := fs.ReadFile(s.templates, req.TemplateName)
	if err != nil {
		return nil, fmt.Errorf("could not load template %q: %w", req.TemplateName, err)
	}

	if err := checkRequiredVariables(req.TemplateName, string(raw), req.Context); err != nil {
		return nil, err
	}

	output, err := s.execute(req.TemplateName, string(raw), req.Context, req.NativeMode)
	if err != nil {
		return nil, fmt.Errorf("could not render template %q: %w", req.TemplateName, err)
	}

	if req.OutputPath != "" {
		if err := writeFileAtomic(req.OutputPath, []byte(output)); err != nil {
			return nil, fmt.Errorf("could not write rendered script: %w", err)
		}
		s.logger.Debugf("Rendered template %q to %s", req.TemplateName, req.OutputPath)
	}

	res := &RenderResult{Output: output}
	if req.NativeMode {
		res.Native = decodeNative(output)
	}
	return res, nil
}

// execute renders the template text with the given context. Plain mode
// auto-escapes interpolated values for html/xml targets, native mode always
// renders verbatim text.
func (s *Service) execute(name, text string, context map[string]interface{}, nativeMode bool) (string, error) {
	var buf bytes.Buffer

	if !nativeMode && isMarkupTemplate(name) {
		tmpl, err := htmltemplate.New(name).Option("missingkey=error").Parse(text)
		if err != nil {
			return "", err
		}
		if err := tmpl.Execute(&buf, context); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	tmpl, err := texttemplate.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", err
	}
	if err := tmpl.Execute(&buf, context); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// isMarkupTemplate tells whether a template name targets a markup family that
// gets contextual auto-escaping.
func isMarkupTemplate(name string) bool {
	name = strings.TrimSuffix(name, ".tmpl")
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml", ".xml":
		return true
	}
	return false
}

// checkRequiredVariables parses the template and diffs the variables it
// references against the supplied context. Validating up front (instead of
// relying on an execution error mid-stream) keeps renders all-or-nothing.
func checkRequiredVariables(name, text string, context map[string]interface{}) error {
	trees, err := parse.Parse(name, text, "{{", "}}", builtinFuncStubs)
	if err != nil {
		return fmt.Errorf("could not parse template %q: %w", name, err)
	}

	required := map[string]struct{}{}
	for _, tree := range trees {
		collectRootFields(tree.Root, required)
	}

	var missing []string
	for v := range required {
		if _, ok := context[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("template %q references variables not present in context (%s): %w",
			name, strings.Join(missing, ", "), model.ErrMissingVariable)
	}

	return nil
}

// builtinFuncStubs lets parse.Parse accept the standard template functions.
// Only the names matter at parse time.
var builtinFuncStubs = map[string]interface{}{
	"and": struct{}{}, "call": struct{}{}, "html": struct{}{}, "index": struct{}{},
	"slice": struct{}{}, "js": struct{}{}, "len": struct{}{}, "not": struct{}{},
	"or": struct{}{}, "print": struct{}{}, "printf": struct{}{}, "println": struct{}{},
	"urlquery": struct{}{}, "eq": struct{}{}, "ge": struct{}{}, "gt": struct{}{},
	"le": struct{}{}, "lt": struct{}{}, "ne": struct{}{},
}

// collectRootFields walks a template parse tree and records the first
// identifier of every field reference rooted at dot. Bodies of range/with
// blocks are skipped because dot is rebound inside them; their pipelines and
// else branches still resolve against the root context.
func collectRootFields(node parse.Node, vars map[string]struct{}) {
	switch n := node.(type) {
	case nil:
		return
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, item := range n.Nodes {
			collectRootFields(item, vars)
		}
	case *parse.ActionNode:
		collectPipeFields(n.Pipe, vars)
	case *parse.IfNode:
		collectPipeFields(n.Pipe, vars)
		collectRootFields(n.List, vars)
		collectRootFields(n.ElseList, vars)
	case *parse.RangeNode:
		collectPipeFields(n.Pipe, vars)
		collectRootFields(n.ElseList, vars)
	case *parse.WithNode:
		collectPipeFields(n.Pipe, vars)
		collectRootFields(n.ElseList, vars)
	case *parse.TemplateNode:
		collectPipeFields(n.Pipe, vars)
	}
}

func collectPipeFields(pipe *parse.PipeNode, vars map[string]struct{}) {
	if pipe == nil {
		return
	}
	for _, cmd := range pipe.Cmds {
		for _, arg := range cmd.Args {
			switch a := arg.(type) {
			case *parse.FieldNode:
				if len(a.Ident) > 0 {
					vars[a.Ident[0]] = struct{}{}
				}
			case *parse.ChainNode:
				collectRootFields(a.Node, vars)
			case *parse.PipeNode:
				collectPipeFields(a, vars)
			}
		}
	}
}

// decodeNative decodes a rendered expression into its native value. Anything
// that is not valid YAML stays as the raw string.
func decodeNative(output string) interface{} {
	var v interface{}
	if err := yaml.Unmarshal([]byte(output), &v); err != nil {
		return output
	}
	if v == nil {
		return output
	}
	return v
}

// writeFileAtomic writes content to path through a temporary file in the same
// directory followed by a rename, so readers never observe a partial file.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temporary file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("could not set file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not move rendered file in place: %w", err)
	}
	return nil
}
