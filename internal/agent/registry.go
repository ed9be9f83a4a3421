// Package agent exposes the event operations as named tools taking JSON
// arguments and returning text, the shape a tool-calling assistant expects.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/faizmokh/pacli/internal/events"
)

var (
	// ErrUnknownTool is returned by Call for a name with no registered tool.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrBadArguments is returned by Call when the JSON arguments do not fit
	// the tool's parameters.
	ErrBadArguments = errors.New("bad tool arguments")
)

// Param describes one named argument.
type Param struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// Tool is one callable action.
type Tool struct {
	Name        string
	Description string
	Params      []Param

	call func(ctx context.Context, args json.RawMessage) (string, error)
}

// Deps are the event services the tools call into.
type Deps struct {
	Store     events.Store
	Matcher   *events.Matcher
	Mutator   *events.Mutator
	Editor    *events.Editor
	Scheduler *events.Scheduler
}

// Registry holds the tools by name.
type Registry struct {
	tools  map[string]Tool
	logger *slog.Logger
}

// New registers every tool against deps.
func New(deps Deps, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{tools: make(map[string]Tool), logger: logger}
	h := &handlers{deps: deps}
	for _, t := range h.tools() {
		r.tools[t.Name] = t
	}
	return r
}

// Tools lists the registered tools sorted by name.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call runs the named tool. Domain failures such as an unmatched event come
// back as text in the result; only ErrUnknownTool, ErrBadArguments and
// context cancellation are returned as errors.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}
	r.logger.Debug("tool call", "tool", name, "args", string(args))

	out, err := t.call(ctx, args)
	if err != nil {
		r.logger.Debug("tool call failed", "tool", name, "err", err)
		return "", err
	}
	return out, nil
}

// decode unmarshals args into dst, rejecting unknown fields and missing
// required ones.
func decode(args json.RawMessage, dst any, required ...string) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArguments, err)
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(args, &present); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	var missing []string
	for _, key := range required {
		if raw, ok := present[key]; !ok || string(raw) == "null" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrBadArguments, strings.Join(missing, ", "))
	}
	return nil
}

// text accepts a JSON string or any other scalar, kept as its literal text.
// Assistants send new_value: true as often as new_value: "true".
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = text(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return errors.New("expected a string, number or boolean")
	}
	*t = text(bytes.TrimSpace(data))
	return nil
}
