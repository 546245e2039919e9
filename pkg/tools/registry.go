// Package tools defines the tool surface served to clients: typed parameter
// structs, their JSON schemas, and handlers bound to a sandboxed root.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownTool is returned for a tool name that was never defined.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrEditModeDisabled is returned for a mutating tool while edit mode is off.
	ErrEditModeDisabled = errors.New("tool is unavailable while edit mode is disabled")

	// ErrExecDisabled is returned for execute_command unless execution is enabled.
	ErrExecDisabled = errors.New("command execution is disabled")
)

// ValidationError reports arguments that do not satisfy a tool's contract.
// It is kept distinct from execution failures so transports can label it.
type ValidationError struct {
	Tool string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Tool == "" {
		return fmt.Sprintf("invalid arguments: %v", e.Err)
	}
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error) error {
	return &ValidationError{Err: err}
}

// Definition describes a tool to clients.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
	Mutating    bool               `json:"mutating,omitempty"`
}

// Tool is a named handler with its validated input contract.
type Tool struct {
	Definition

	call        func(ctx context.Context, raw json.RawMessage) (string, error)
	registerMCP func(server *mcp.Server)
}

// Define builds a tool whose arguments decode into In. The input schema is
// inferred from In's json and jsonschema tags.
func Define[In any](name, description string, mutating bool, fn func(ctx context.Context, in In) (string, error)) (*Tool, error) {
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		return nil, fmt.Errorf("inferring schema for %s: %w", name, err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving schema for %s: %w", name, err)
	}

	run := func(ctx context.Context, in In) (string, error) {
		logrus.WithField("tool", name).Debug("tool called")
		out, err := fn(ctx, in)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) && ve.Tool == "" {
				ve.Tool = name
			}
			logrus.WithError(err).WithField("tool", name).Debug("tool failed")
		}
		return out, err
	}

	t := &Tool{
		Definition: Definition{
			Name:        name,
			Description: description,
			InputSchema: schema,
			Mutating:    mutating,
		},
	}
	t.call = func(ctx context.Context, raw json.RawMessage) (string, error) {
		if len(raw) == 0 || string(raw) == "null" {
			raw = json.RawMessage("{}")
		}
		var instance any
		if err := json.Unmarshal(raw, &instance); err != nil {
			return "", &ValidationError{Tool: name, Err: err}
		}
		if err := resolved.Validate(instance); err != nil {
			return "", &ValidationError{Tool: name, Err: err}
		}
		var in In
		if err := json.Unmarshal(raw, &in); err != nil {
			return "", &ValidationError{Tool: name, Err: err}
		}
		return run(ctx, in)
	}
	t.registerMCP = func(server *mcp.Server) {
		mcp.AddTool(server, &mcp.Tool{Name: name, Description: description},
			func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
				out, err := run(ctx, in)
				if err != nil {
					return nil, nil, err
				}
				return &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{Text: out}},
				}, nil, nil
			})
	}
	return t, nil
}

// Registry holds the tools offered to clients, in definition order.
type Registry struct {
	tools    map[string]*Tool
	order    []string
	disabled map[string]error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]*Tool),
		disabled: make(map[string]error),
	}
}

// Add registers t. A tool added twice replaces the earlier definition.
func (r *Registry) Add(t *Tool) {
	if _, ok := r.tools[t.Name]; !ok {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
	delete(r.disabled, t.Name)
}

// Disable records that name exists but is withheld, and why.
func (r *Registry) Disable(name string, reason error) {
	r.disabled[name] = reason
}

// Lookup returns the tool called name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions lists the registered tools in definition order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Call validates raw against the named tool's schema and runs it.
func (r *Registry) Call(ctx context.Context, name string, raw json.RawMessage) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		if reason, off := r.disabled[name]; off {
			return "", fmt.Errorf("%s: %w", name, reason)
		}
		return "", fmt.Errorf("%s: %w", name, ErrUnknownTool)
	}
	return t.call(ctx, raw)
}

// RegisterMCP adds every registered tool to server.
func (r *Registry) RegisterMCP(server *mcp.Server) {
	for _, name := range r.order {
		r.tools[name].registerMCP(server)
	}
}
