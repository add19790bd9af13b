package attendance

import "errors"

// Attendance domain errors
var (
	// Reconciliation errors
	ErrStaleLoad         = errors.New("month load superseded by a newer request")
	ErrReloadFailed      = errors.New("attendance saved but the month could not be reloaded")
	ErrInvalidRecordDate = errors.New("attendance record has an invalid date")

	// View errors
	ErrNoEmployeeSelected = errors.New("no employee selected")
	ErrNoDaySelected      = errors.New("no day selected")
	ErrInvalidStatus      = errors.New("status must be one of: Present, Absent, Late, WFH")
	ErrInvalidMonth       = errors.New("month must be between 1 and 12")
)
