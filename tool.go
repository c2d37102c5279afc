package moltbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToolFunc executes a tool with already-extracted arguments. A string result
// is returned as-is; anything else is serialized as indented JSON.
type ToolFunc func(ctx context.Context, args *Args) (any, error)

// Tool pairs an MCP tool definition with its handler
type Tool struct {
	definition mcp.Tool
	run        ToolFunc
}

// NewTool creates a tool named name with the given schema options
func NewTool(name string, run ToolFunc, opts ...mcp.ToolOption) *Tool {
	return &Tool{
		definition: mcp.NewTool(name, opts...),
		run:        run,
	}
}

// Name returns the tool's unique identifier
func (t *Tool) Name() string {
	return t.definition.Name
}

// Tool returns the MCP tool configuration
func (t *Tool) Tool() mcp.Tool {
	return t.definition
}

// Handler validates arguments, runs the tool and serializes its result.
// Invalid arguments produce a tool error result; backend failures are
// returned as errors and reach the caller's transport unchanged.
func (t *Tool) Handler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := NewArgs(req.GetArguments())

	result, err := t.run(ctx, args)
	if err != nil {
		var verrs ValidationErrors
		var verr *ValidationError
		if errors.As(err, &verrs) || errors.As(err, &verr) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}

	if text, ok := result.(string); ok {
		return mcp.NewToolResultText(text), nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool response: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

// Args reads tool arguments and collects every validation failure
type Args struct {
	values map[string]any
	errs   ValidationErrors
}

func NewArgs(values map[string]any) *Args {
	if values == nil {
		values = map[string]any{}
	}
	return &Args{values: values}
}

// Err returns the collected validation failures, if any
func (a *Args) Err() error {
	if len(a.errs) == 0 {
		return nil
	}
	return a.errs
}

func (a *Args) fail(field, format string, v ...any) {
	a.errs = append(a.errs, &ValidationError{Field: field, Reason: fmt.Sprintf(format, v...)})
}

// String returns a required, non-blank string argument
func (a *Args) String(key string) string {
	value, ok := a.lookupString(key)
	if !ok {
		return ""
	}
	if strings.TrimSpace(value) == "" {
		a.fail(key, "is required")
	}
	return value
}

// OptionalString returns the argument or def when it is absent
func (a *Args) OptionalString(key, def string) string {
	if raw, exists := a.values[key]; !exists || raw == nil {
		return def
	}
	value, ok := a.lookupString(key)
	if !ok {
		return def
	}
	return value
}

// Enum returns an argument restricted to allowed, or def when absent
func (a *Args) Enum(key, def string, allowed ...string) string {
	value := a.OptionalString(key, def)
	if !slices.Contains(allowed, value) {
		a.fail(key, "must be one of: %s", strings.Join(allowed, ", "))
	}
	return value
}

// Int returns an integer argument within [lo, hi], or def when absent.
// A hi of zero means unbounded.
func (a *Args) Int(key string, def, lo, hi int) int {
	raw, exists := a.values[key]
	if !exists || raw == nil {
		return def
	}

	var value float64
	switch v := raw.(type) {
	case float64:
		value = v
	case int:
		value = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			a.fail(key, "must be a number")
			return def
		}
		value = f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			a.fail(key, "must be a number")
			return def
		}
		value = f
	default:
		a.fail(key, "must be a number, got %T", raw)
		return def
	}

	if value != math.Trunc(value) {
		a.fail(key, "must be an integer")
		return def
	}

	// compare as floats so huge inputs cannot overflow the conversion
	upper := hi
	if hi <= 0 {
		upper = math.MaxInt32
	}
	if value < float64(lo) || value > float64(upper) {
		if hi <= 0 && value < float64(lo) {
			a.fail(key, "must be at least %d", lo)
		} else {
			a.fail(key, "must be between %d and %d", lo, upper)
		}
		return def
	}

	return int(value)
}

// URL returns a required absolute http(s) URL argument
func (a *Args) URL(key string) string {
	value := a.String(key)
	if value == "" {
		return value
	}

	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		a.fail(key, "must be an absolute http(s) URL")
	}
	return value
}

func (a *Args) lookupString(key string) (string, bool) {
	raw, exists := a.values[key]
	if !exists || raw == nil {
		a.fail(key, "is required")
		return "", false
	}

	value, ok := raw.(string)
	if !ok {
		a.fail(key, "must be a string, got %T", raw)
		return "", false
	}
	return value, true
}
