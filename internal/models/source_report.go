package models

// SourceStatus represents the availability status reported by a data source probe
type SourceStatus string

const (
	SourceStatusInvestigationComplete SourceStatus = "investigation_complete"
	SourceStatusAccessDenied          SourceStatus = "access_denied"
	SourceStatusError                 SourceStatus = "error"
)

// SourceReport describes why a data source produced no race corpus
type SourceReport struct {
	Status         SourceStatus           `json:"status"`
	Message        string                 `json:"message"`
	Findings       map[string]interface{} `json:"findings"`
	Recommendation string                 `json:"recommendation,omitempty"`
}

// NewSourceReport creates a report with empty findings
func NewSourceReport(status SourceStatus, message string) *SourceReport {
	return &SourceReport{
		Status:   status,
		Message:  message,
		Findings: map[string]interface{}{},
	}
}

// IsAccessDenied checks if the source refused access
func (r *SourceReport) IsAccessDenied() bool {
	return r.Status == SourceStatusAccessDenied
}
