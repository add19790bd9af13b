package dashboard

import "encoding/json"

// ========== OVERVIEW ==========

// OverviewResponse is the operations dashboard: stat tiles plus the raw remote stats they were read from.
type OverviewResponse struct {
	ActiveEmployees   int    `json:"active_employees"`
	AttendanceRate    string `json:"attendance_rate"` // e.g. "92%"
	NewEnquiries      int    `json:"new_enquiries"`
	PendingEnquiries  int    `json:"pending_enquiries"`
	ResolvedEnquiries int    `json:"resolved_enquiries"`
	TotalEnquiries    int    `json:"total_enquiries"`

	AttendanceStats json.RawMessage `json:"attendance_stats,omitempty"`
	EnquiryStats    json.RawMessage `json:"enquiry_stats,omitempty"`
}
