package dashboard

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/employee"
)

// Source is the part of the remote API the overview reads from.
type Source interface {
	ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error)
	GetAttendanceStats(ctx context.Context, params map[string]any) (json.RawMessage, error)
	GetEnquiryStats(ctx context.Context) (json.RawMessage, error)
}

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetOverview fetches the active employee count, attendance and enquiry stats in parallel
	GetOverview(ctx context.Context, source Source) (*OverviewResponse, error)
}
