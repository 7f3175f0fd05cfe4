// internal/models/settings.go
package models

import "encoding/json"

// SettingsKey is the fixed key of the singleton settings row.
const SettingsKey = "default"

// Settings is the decoded shape of the settings document. The store keeps the
// raw document byte-for-byte; this struct is only a view for code that needs
// individual fields.
type Settings struct {
	EvaluationOpen     bool            `json:"evaluationOpen"`
	ProposalOpen       bool            `json:"proposalOpen"`
	EvaluationDeadline string          `json:"evaluationDeadline,omitempty"` // informational, "YYYY-MM-DD"
	ProposalDeadline   string          `json:"proposalDeadline,omitempty"`
	EvaluatorRoles     []Role          `json:"evaluatorRoles"`
	NotificationEmails []string        `json:"notificationEmails"`
	MenuVisibility     map[string]bool `json:"menuVisibility,omitempty"`
}

// DefaultSettings returns the settings used before an admin ever saves the
// document.
func DefaultSettings() Settings {
	return Settings{
		EvaluationOpen: true,
		ProposalOpen:   true,
		EvaluatorRoles: []Role{RolePresident, RoleSales},
	}
}

// ParseSettings decodes a raw settings document. Unknown keys are tolerated.
func ParseSettings(doc []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(doc, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
