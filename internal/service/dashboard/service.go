package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct{}

func NewDashboardService() dashboard.DashboardService {
	return &DashboardServiceImpl{}
}

// GetOverview implements dashboard.DashboardService.
// The three remote calls run in parallel; the first failure fails the overview.
func (s *DashboardServiceImpl) GetOverview(ctx context.Context, source dashboard.Source) (*dashboard.OverviewResponse, error) {
	var (
		employees       employee.ListEmployeeResponse
		attendanceStats json.RawMessage
		enquiryStats    json.RawMessage
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Active employees, only the total is needed
	g.Go(func() error {
		res, err := source.ListEmployees(gCtx, employee.EmployeeFilter{
			Status: string(employee.StatusActive),
			Limit:  1,
		})
		if err != nil {
			return err
		}
		employees = res
		return nil
	})

	// 2. Attendance overview
	g.Go(func() error {
		res, err := source.GetAttendanceStats(gCtx, nil)
		if err != nil {
			return err
		}
		attendanceStats = unwrapData(res)
		return nil
	})

	// 3. Enquiry overview
	g.Go(func() error {
		res, err := source.GetEnquiryStats(gCtx)
		if err != nil {
			return err
		}
		enquiryStats = unwrapData(res)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	active := employees.Total
	if active == 0 {
		active = len(employees.Data)
	}

	attendance := decodeFields(attendanceStats)
	enquiries := decodeFields(enquiryStats)

	total := int(number(enquiries, "total"))
	resolved := int(number(enquiries, "resolved"))
	pending := total - resolved
	if pending < 0 {
		pending = 0
	}

	return &dashboard.OverviewResponse{
		ActiveEmployees:   active,
		AttendanceRate:    percent(number(attendance, "presentPercentage")),
		NewEnquiries:      int(number(enquiries, "new")),
		PendingEnquiries:  pending,
		ResolvedEnquiries: resolved,
		TotalEnquiries:    total,
		AttendanceStats:   attendanceStats,
		EnquiryStats:      enquiryStats,
	}, nil
}

// unwrapData returns the "data" member of a {data: ...} envelope, or raw itself.
func unwrapData(raw json.RawMessage) json.RawMessage {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if data, ok := envelope["data"]; ok {
			if string(data) == "null" {
				return nil
			}
			return data
		}
	}
	if string(raw) == "null" {
		return nil
	}
	return raw
}

func decodeFields(raw json.RawMessage) map[string]any {
	fields := map[string]any{}
	if len(raw) == 0 {
		return fields
	}
	_ = json.Unmarshal(raw, &fields)
	return fields
}

// number reads a numeric field that may arrive as a JSON number or a numeric string.
func number(fields map[string]any, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func percent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d%%", int(v))
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
