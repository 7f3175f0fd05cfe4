// internal/models/application.go
package models

// ApplicationType tags which form an application came from.
type ApplicationType string

const (
	TypeCustomerRegistration ApplicationType = "customer_registration"
	TypeCustomerChange       ApplicationType = "customer_change"
	TypeFacilityReservation  ApplicationType = "facility_reservation"

	// TypeProposal exists only for legacy rows that flowed through the
	// applications table before proposals got their own table. New proposal
	// submissions never create application rows.
	TypeProposal ApplicationType = "proposal"
)

// ValidApplicationType reports whether t is accepted for new submissions.
func ValidApplicationType(t ApplicationType) bool {
	switch t {
	case TypeCustomerRegistration, TypeCustomerChange, TypeFacilityReservation:
		return true
	}
	return false
}

// ApplicationStatus is the processing state of an application.
type ApplicationStatus string

const (
	StatusUnprocessed ApplicationStatus = "unprocessed"
	StatusProcessing  ApplicationStatus = "processing"
	StatusProcessed   ApplicationStatus = "processed"
	StatusReturned    ApplicationStatus = "returned"
	StatusCancelled   ApplicationStatus = "cancelled"
)

// ValidApplicationStatus reports whether s is a known status.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case StatusUnprocessed, StatusProcessing, StatusProcessed, StatusReturned, StatusCancelled:
		return true
	}
	return false
}

// Application is a submitted request requiring admin processing. The details
// map is fixed at creation; status, processedBy and processedAt change only
// through the workflow.
type Application struct {
	ID            string            `json:"id"`
	Type          ApplicationType   `json:"applicationType"`
	ApplicantName string            `json:"applicantName"`
	Title         string            `json:"title"`
	Details       map[string]string `json:"details"`
	SubmittedAt   string            `json:"submittedAt"`
	Status        ApplicationStatus `json:"status"`
	ProcessedBy   string            `json:"processedBy,omitempty"`
	ProcessedAt   string            `json:"processedAt,omitempty"`
}

// DetailField is one labelled detail line for display.
type DetailField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}
