// pkg/registry/schema.go
package registry

// FormRegistry is the catalog of application form definitions. The server
// loads it at startup; the admin console renders detail panes from the field
// order and labels defined here, so adding a form field is a registry change,
// not a code change.
type FormRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Forms       []Form `json:"forms"`
}

// Form describes one application type: its display name, the ordered fields
// of its detail document and the JSON schema submissions must satisfy.
type Form struct {
	Type        string                 `json:"type"`
	DisplayName string                 `json:"displayName"`
	Description string                 `json:"description"`
	Fields      []Field                `json:"fields"`
	Schema      map[string]interface{} `json:"schema"`
}

// Field is one detail field in display order.
type Field struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
	Kind     string `json:"kind"` // text, date, time, postal_code, textarea
}
