package dto

// SetAttendanceRequest records the outcome for one roster member.
type SetAttendanceRequest struct {
	Attended *bool  `json:"attended" validate:"required"`
	Notes    string `json:"notes" validate:"omitempty,max=500"`
}

// BulkAttendanceEntry is one item in a bulk attendance submission.
type BulkAttendanceEntry struct {
	FirefighterID string `json:"firefighterId" validate:"required"`
	Attended      *bool  `json:"attended" validate:"required"`
	Notes         string `json:"notes" validate:"omitempty,max=500"`
}

// BulkAttendanceRequest applies many attendance outcomes in one call.
// Entries are independent; failures do not roll back the rest.
type BulkAttendanceRequest struct {
	Entries []BulkAttendanceEntry `json:"entries" validate:"required,min=1,dive"`
}

// BulkAttendanceFailure reports one entry that could not be applied.
type BulkAttendanceFailure struct {
	FirefighterID string `json:"firefighterId"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

// BulkAttendanceResult aggregates per-entry outcomes.
type BulkAttendanceResult struct {
	Applied  int                     `json:"applied"`
	Failures []BulkAttendanceFailure `json:"failures"`
}
