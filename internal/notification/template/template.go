// Package template renders customer message bodies. Each event type has one
// template with a declared set of required variables; rendering fails rather
// than producing a message with a gap in it.
package template

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	gotemplate "text/template"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
)

// ErrUnknownEvent is returned when no template is registered for an event.
var ErrUnknownEvent = errors.New("template: unknown event type")

// MissingVariableError reports a required variable that is absent or blank.
type MissingVariableError struct {
	Event    entity.EventType
	Variable string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template: %s requires variable %q", e.Event, e.Variable)
}

// Definition is a template as data. Body uses text/template syntax with the
// variables as map keys, e.g. "Hello {{.customer_name}}".
type Definition struct {
	Event    entity.EventType
	Required []string
	Body     string
}

type compiled struct {
	required []string
	tmpl     *gotemplate.Template
}

// Renderer is safe for concurrent use; it holds no mutable state after New.
type Renderer struct {
	templates map[entity.EventType]compiled
}

// NewRenderer compiles defs. A body that references a variable outside its
// Required list is rejected here instead of failing at send time.
func NewRenderer(defs []Definition) (*Renderer, error) {
	r := &Renderer{templates: make(map[entity.EventType]compiled, len(defs))}

	for _, def := range defs {
		if !def.Event.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, def.Event)
		}

		tmpl, err := gotemplate.New(def.Event.String()).Option("missingkey=error").Parse(def.Body)
		if err != nil {
			return nil, fmt.Errorf("template: parse %s: %w", def.Event, err)
		}

		c := compiled{required: slices.Clone(def.Required), tmpl: tmpl}
		sample := make(map[string]string, len(def.Required))
		for _, name := range def.Required {
			sample[name] = "x"
		}
		if _, err := c.execute(sample); err != nil {
			return nil, fmt.Errorf("template: %s references an undeclared variable: %w", def.Event, err)
		}

		r.templates[def.Event] = c
	}

	return r, nil
}

// Render returns the message body for event. It has no side effects and is
// deterministic for the same input.
func (r *Renderer) Render(event entity.EventType, vars map[string]string) (string, error) {
	c, ok := r.templates[event]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}

	for _, name := range c.required {
		if strings.TrimSpace(vars[name]) == "" {
			return "", &MissingVariableError{Event: event, Variable: name}
		}
	}

	return c.execute(vars)
}

// Required returns the variable names event needs.
func (r *Renderer) Required(event entity.EventType) []string {
	return slices.Clone(r.templates[event].required)
}

func (c compiled) execute(vars map[string]string) (string, error) {
	var b strings.Builder
	if err := c.tmpl.Execute(&b, vars); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}
