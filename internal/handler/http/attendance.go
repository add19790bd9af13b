package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/export"
	"github.com/cmlabs-hris/hris-admin-go/internal/service/workspace"
)

// AttendanceHandler serves the attendance calendar screen. Every view endpoint
// answers with the full view state, also on failure.
type AttendanceHandler interface {
	GetView(w http.ResponseWriter, r *http.Request)
	SelectEmployee(w http.ResponseWriter, r *http.Request)
	SetMonth(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	OpenDay(w http.ResponseWriter, r *http.Request)
	CloseDay(w http.ResponseWriter, r *http.Request)
	SetDayStatus(w http.ResponseWriter, r *http.Request)
	ClearDay(w http.ResponseWriter, r *http.Request)
	OpenAdd(w http.ResponseWriter, r *http.Request)
	CloseAdd(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	DismissError(w http.ResponseWriter, r *http.Request)
	ExportPDF(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	now func() time.Time
}

func NewAttendanceHandler() AttendanceHandler {
	return &attendanceHandlerImpl{now: time.Now}
}

type selectEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

// monthRequest either moves the displayed month by Delta or jumps to Year/Month.
type monthRequest struct {
	Delta *int `json:"delta"`
	Year  int  `json:"year"`
	Month int  `json:"month"`
}

type dayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

type statusRequest struct {
	Status attendance.Status `json:"status"`
}

// GetView implements AttendanceHandler. The first visit loads the employee selector.
func (h *attendanceHandlerImpl) GetView(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	var err error
	if ws.Attendance.NeedsEmployees() {
		err = ws.Attendance.LoadEmployees(r.Context())
	}
	h.respond(w, ws, "GetView", err)
}

// SelectEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) SelectEmployee(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	var req selectEmployeeRequest
	if !decode(w, r, &req) {
		return
	}

	h.respond(w, ws, "SelectEmployee", ws.Attendance.SelectEmployee(r.Context(), req.EmployeeID))
}

// SetMonth implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetMonth(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	var req monthRequest
	if !decode(w, r, &req) {
		return
	}

	var err error
	if req.Delta != nil {
		err = ws.Attendance.ChangeMonth(r.Context(), *req.Delta)
	} else {
		err = ws.Attendance.SetMonth(r.Context(), calendar.Month{Year: req.Year, Month: time.Month(req.Month)})
	}
	h.respond(w, ws, "SetMonth", err)
}

// Refresh implements AttendanceHandler.
func (h *attendanceHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	h.respond(w, ws, "Refresh", ws.Attendance.Refresh(r.Context()))
}

// OpenDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) OpenDay(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	var req dayRequest
	if !decode(w, r, &req) {
		return
	}
	day, err := calendar.ParseDay(req.Date)
	if err != nil {
		response.BadRequest(w, "date must be in YYYY-MM-DD format", map[string]string{"date": req.Date})
		return
	}

	ws.Attendance.OpenDay(day)
	h.respond(w, ws, "OpenDay", nil)
}

// CloseDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) CloseDay(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	ws.Attendance.CloseDay()
	h.respond(w, ws, "CloseDay", nil)
}

// SetDayStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetDayStatus(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if !decode(w, r, &req) {
		return
	}

	h.respond(w, ws, "SetDayStatus", ws.Attendance.SelectStatus(r.Context(), req.Status))
}

// ClearDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClearDay(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	h.respond(w, ws, "ClearDay", ws.Attendance.ClearSelectedDay(r.Context()))
}

// OpenAdd implements AttendanceHandler.
func (h *attendanceHandlerImpl) OpenAdd(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	ws.Attendance.OpenAdd()
	h.respond(w, ws, "OpenAdd", nil)
}

// CloseAdd implements AttendanceHandler.
func (h *attendanceHandlerImpl) CloseAdd(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	ws.Attendance.CloseAdd()
	h.respond(w, ws, "CloseAdd", nil)
}

// Create implements AttendanceHandler. It submits the add attendance form.
func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	var form attendance.AddForm
	if !decode(w, r, &form) {
		return
	}

	h.respond(w, ws, "CreateAttendance", ws.Attendance.CreateAttendance(r.Context(), form))
}

// DismissError implements AttendanceHandler.
func (h *attendanceHandlerImpl) DismissError(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	ws.Attendance.DismissError()
	h.respond(w, ws, "DismissError", nil)
}

// ExportPDF implements AttendanceHandler. It renders the displayed month.
func (h *attendanceHandlerImpl) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	now := h.now()
	state := ws.Attendance.Snapshot(now)
	if state.EmployeeID == "" {
		response.HandleError(w, attendance.ErrNoEmployeeSelected)
		return
	}

	pdf, err := export.MonthPDF(state, now)
	if err != nil {
		slog.Error("Failed to render attendance PDF", "employee_id", state.EmployeeID, "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.MonthFilename(state)))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// respond writes the current view state, with err when the action failed.
func (h *attendanceHandlerImpl) respond(w http.ResponseWriter, ws *workspace.Workspace, action string, err error) {
	state := ws.Attendance.Snapshot(h.now())
	if err != nil {
		slog.Error("Attendance view action failed", "action", action, "session_id", ws.ID, "error", err)
		response.HandleErrorWithData(w, err, state)
		return
	}
	response.Success(w, state)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error("Request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}
