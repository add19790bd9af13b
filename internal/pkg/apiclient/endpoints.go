package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/enquiry"
)

var _ attendance.Gateway = (*Client)(nil)

// ========================================
// ADMIN
// ========================================

func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (auth.RemoteLoginResponse, error) {
	var res auth.RemoteLoginResponse
	err := c.Do(ctx, "admin.login", http.MethodPost, "/admin/login", req, &res)
	return res, err
}

func (c *Client) CurrentAdmin(ctx context.Context) (auth.Admin, error) {
	var res auth.RemoteAdminResponse
	if err := c.Do(ctx, "admin.me", http.MethodGet, "/admin/me", nil, &res); err != nil {
		return auth.Admin{}, err
	}
	return res.Admin, nil
}

// ========================================
// EMPLOYEES
// ========================================

func (c *Client) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	var res employee.ListEmployeeResponse
	err := c.Do(ctx, "employees.list", http.MethodGet, "/employees"+BuildQuery(filter.Params()), nil, &res)
	return res, err
}

func (c *Client) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
	var res employee.CreateEmployeeResponse
	err := c.Do(ctx, "employees.create", http.MethodPost, "/employees", req, &res)
	return res, err
}

// ========================================
// ATTENDANCE
// ========================================

func (c *Client) GetEmployeeMonthAttendance(ctx context.Context, employeeID string, month, year int) (attendance.MonthResponse, error) {
	var res attendance.MonthResponse
	path := fmt.Sprintf("/attendance/employee/%s/month%s",
		url.PathEscape(employeeID),
		BuildQuery(map[string]any{"month": month, "year": year}),
	)
	err := c.Do(ctx, "attendance.month", http.MethodGet, path, nil, &res)
	return res, err
}

func (c *Client) SetAttendance(ctx context.Context, req attendance.UpsertRequest) (attendance.UpsertResponse, error) {
	var res attendance.UpsertResponse
	err := c.Do(ctx, "attendance.set", http.MethodPost, "/attendance", req, &res)
	return res, err
}

func (c *Client) DeleteAttendance(ctx context.Context, attendanceID string) error {
	return c.Do(ctx, "attendance.delete", http.MethodDelete, "/attendance/"+url.PathEscape(attendanceID), nil, nil)
}

// GetAttendanceStats returns the overview stats untouched.
func (c *Client) GetAttendanceStats(ctx context.Context, params map[string]any) (json.RawMessage, error) {
	var res json.RawMessage
	err := c.Do(ctx, "attendance.stats", http.MethodGet, "/attendance/stats/overview"+BuildQuery(params), nil, &res)
	return res, err
}

// ========================================
// ENQUIRIES
// ========================================

func (c *Client) ListEnquiries(ctx context.Context, filter enquiry.EnquiryFilter) (enquiry.ListEnquiryResponse, error) {
	var res enquiry.ListEnquiryResponse
	err := c.Do(ctx, "enquiries.list", http.MethodGet, "/enquiries"+BuildQuery(filter.Params()), nil, &res)
	return res, err
}

func (c *Client) GetEnquiryStats(ctx context.Context) (enquiry.Stats, error) {
	var res json.RawMessage
	err := c.Do(ctx, "enquiries.stats", http.MethodGet, "/enquiries/stats/overview", nil, &res)
	return res, err
}
