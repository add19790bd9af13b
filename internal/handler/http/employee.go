package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-go/internal/handler/http/response"
)

type EmployeeHandler interface {
	ListEmployees(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct{}

// NewEmployeeHandler returns the employees screen handler. Requests go out
// through the API client of the caller's workspace.
func NewEmployeeHandler() EmployeeHandler {
	return &employeeHandlerImpl{}
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	filter := employee.EmployeeFilter{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	// Pagination
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			filter.Page = pageNum
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		limitNum, err := strconv.Atoi(l)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		filter.Limit = limitNum
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := ws.Client.ListEmployees(r.Context(), filter)
	if err != nil {
		slog.Error("ListEmployees remote error", "error", err)
		response.HandleError(w, err)
		return
	}

	total := result.Total
	if total == 0 {
		total = len(result.Data)
	}
	response.SuccessWithMeta(w, result.Data, &response.Meta{
		Page:       result.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: result.TotalPages,
	})
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := ws.Client.CreateEmployee(r.Context(), req)
	if err != nil {
		slog.Error("CreateEmployee remote error", "error", err)
		response.HandleError(w, err)
		return
	}

	message := result.Message
	if message == "" {
		message = "Employee created successfully"
	}
	response.Created(w, message, result.Data)
}
