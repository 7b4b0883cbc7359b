// Package tools defines the tool surface the agent exposes to the model: a
// registry of named constructors and the baseline software-engineering tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Parameter describes one input of a tool.
type Parameter struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Required    bool     `json:"required"`
	Enum        []string `json:"enum,omitempty"`
}

// Handler is the function signature for tool execution. The working directory
// and other runtime values travel in the context, see WithExecContext.
type Handler func(ctx context.Context, params map[string]any) (string, error)

// Tool is an executable tool definition.
type Tool struct {
	Name        string
	Description string
	Parameters  []Parameter
	Handler     Handler

	schema *gojsonschema.Schema
}

// Constructor produces a tool instance. Construction may fail, e.g. when a
// tool's host requirements are not met; the tools listing reports such
// failures per tool instead of aborting.
type Constructor func() (*Tool, error)

// Registry maps tool names to their constructors.
type Registry map[string]Constructor

// DefaultRegistry returns the built-in tool set.
func DefaultRegistry() Registry {
	return Registry{
		"bash":                        NewBashTool,
		"str_replace_based_edit_tool": NewEditTool,
		"task_done":                   NewTaskDoneTool,
	}
}

// Names returns the registered tool names in stable order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InputSchema renders the tool's parameters as a JSON schema object in the
// shape both provider SDKs accept.
func (t *Tool) InputSchema() map[string]any {
	properties := map[string]any{}
	required := []string{}

	for _, p := range t.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			values := make([]any, len(p.Enum))
			for i, v := range p.Enum {
				values[i] = v
			}
			prop["enum"] = values
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Execute validates params against the tool's schema and runs the handler.
func (t *Tool) Execute(ctx context.Context, params map[string]any) (string, error) {
	if err := t.validate(params); err != nil {
		return "", fmt.Errorf("invalid input for tool %s: %w", t.Name, err)
	}
	return t.Handler(ctx, params)
}

func (t *Tool) validate(params map[string]any) error {
	if t.schema == nil {
		raw, err := json.Marshal(t.InputSchema())
		if err != nil {
			return err
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return err
		}
		t.schema = schema
	}

	if params == nil {
		params = map[string]any{}
	}
	result, err := t.schema.Validate(gojsonschema.NewGoLoader(params))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}

type execContextKey struct{}

// ExecContext carries per-task runtime values into tool handlers.
type ExecContext struct {
	WorkingDir string
}

// WithExecContext binds an execution context for tool handlers.
func WithExecContext(ctx context.Context, ec ExecContext) context.Context {
	return context.WithValue(ctx, execContextKey{}, ec)
}

// ExecContextFrom extracts the execution context, if any.
func ExecContextFrom(ctx context.Context) (ExecContext, bool) {
	ec, ok := ctx.Value(execContextKey{}).(ExecContext)
	return ec, ok
}
