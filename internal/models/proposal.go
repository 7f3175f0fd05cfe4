// internal/models/proposal.go
package models

// Proposal is one proposed event item. A single submission may produce
// several rows, one per item. Rows are immutable.
type Proposal struct {
	ID           string `json:"id"`
	ProposerName string `json:"proposerName"`
	ProposalYear string `json:"proposalYear"`
	EventName    string `json:"eventName"`
	Timing       string `json:"timing"`
	Type         string `json:"type"`
	Content      string `json:"content"`
	SubmittedAt  string `json:"submittedAt"`
}

// ProposalItem is one event item inside a proposal submission.
type ProposalItem struct {
	EventName string `json:"eventName"`
	Timing    string `json:"timing"`
	Type      string `json:"type"`
	Content   string `json:"content"`
}
