// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// Registry gives keyed access to form definitions with compiled validation
// schemas.
type Registry struct {
	forms   map[string]Form
	schemas map[string]*gojsonschema.Schema
	order   []string
}

// LoadRegistry reads and compiles a form registry file. Schema compilation
// errors fail loading outright; a registry with a broken schema must not
// serve traffic.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FormRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse form registry: %w", err)
	}
	return buildRegistry(reg)
}

func buildRegistry(reg FormRegistry) (*Registry, error) {
	r := &Registry{
		forms:   make(map[string]Form, len(reg.Forms)),
		schemas: make(map[string]*gojsonschema.Schema, len(reg.Forms)),
	}
	for _, form := range reg.Forms {
		if form.Type == "" {
			return nil, fmt.Errorf("form registry entry with empty type")
		}
		if _, dup := r.forms[form.Type]; dup {
			return nil, fmt.Errorf("duplicate form type %q", form.Type)
		}

		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(form.Schema))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %q: %w", form.Type, err)
		}

		r.forms[form.Type] = form
		r.schemas[form.Type] = schema
		r.order = append(r.order, form.Type)
	}
	return r, nil
}

// Form returns the definition for one application type.
func (r *Registry) Form(formType string) (Form, bool) {
	f, ok := r.forms[formType]
	return f, ok
}

// Types returns the registered form types in registry order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Labels maps detail keys to display labels for one form type. Unknown form
// types yield an empty map.
func (r *Registry) Labels(formType string) map[string]string {
	f, ok := r.forms[formType]
	if !ok {
		return map[string]string{}
	}
	labels := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		labels[field.Key] = field.Label
	}
	return labels
}

// Validate checks an application's detail document against the form schema.
// The returned slice holds one human-readable message per violation; empty
// means valid.
func (r *Registry) Validate(formType string, details map[string]string) ([]string, error) {
	schema, ok := r.schemas[formType]
	if !ok {
		return nil, fmt.Errorf("unknown form type %q", formType)
	}

	doc := make(map[string]interface{}, len(details))
	for k, v := range details {
		doc[k] = v
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate %q details: %w", formType, err)
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		violations = append(violations, e.String())
	}
	return violations, nil
}
