package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/calendar"
)

// Gateway is the remote attendance API consumed by the reconciler.
type Gateway interface {
	// GetEmployeeMonthAttendance fetches one employee-month of records plus server-side stats
	GetEmployeeMonthAttendance(ctx context.Context, employeeID string, month, year int) (MonthResponse, error)

	// SetAttendance upserts one record keyed by (employee, date)
	SetAttendance(ctx context.Context, req UpsertRequest) (UpsertResponse, error)

	// DeleteAttendance removes one record by id
	DeleteAttendance(ctx context.Context, attendanceID string) error
}

// Reconciler keeps the authoritative day map of the selected employee-month.
type Reconciler interface {
	// Begin selects an employee-month and issues the ticket of its load.
	// Loads are ordered by Begin, not by when they are run.
	Begin(employeeID string, month calendar.Month) (LoadTicket, error)

	// Load fetches and reconciles the month of ticket. It is applied only if no newer ticket was issued.
	Load(ctx context.Context, ticket LoadTicket) (MonthView, error)

	// LoadMonth is Begin followed by Load.
	LoadMonth(ctx context.Context, employeeID string, month calendar.Month) (MonthView, error)

	// SetDay upserts a single day, then reloads the newest selection
	SetDay(ctx context.Context, req SetDayRequest) (MonthView, error)

	// ClearDay deletes the record of a day, if any, then reloads the newest selection
	ClearDay(ctx context.Context, employeeID string, day calendar.Day) (MonthView, error)

	// Current returns the last applied view
	Current() MonthView
}
