package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/validator"
)

// isoLayout matches the millisecond ISO-8601 form the remote API stores.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// ========================================
// REMOTE PAYLOADS
// ========================================

// UpsertRequest is the body of POST /attendance.
type UpsertRequest struct {
	Employee string  `json:"employee"`
	Date     string  `json:"date"`
	Status   Status  `json:"status"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// MonthResponse is the body of GET /attendance/employee/{id}/month.
type MonthResponse struct {
	Data  []Record    `json:"data"`
	Stats *MonthStats `json:"stats"`
}

// UpsertResponse is the body of POST /attendance.
type UpsertResponse struct {
	Data    *Record `json:"data"`
	Message string  `json:"message,omitempty"`
}

// ========================================
// RECONCILER DTOs
// ========================================

// SetDayRequest sets the status of a single (employee, day).
type SetDayRequest struct {
	EmployeeID string
	Day        calendar.Day
	Status     Status
	Location   string
	Notes      string
}

func (r *SetDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee",
			Message: "employee is required",
		})
	}

	if r.Day.IsZero() {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	}

	if !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatus.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToUpsert builds the remote payload. The day is sent as local midnight in loc,
// expressed in UTC, so the server resolves it back to the same calendar day.
func (r SetDayRequest) ToUpsert(loc *time.Location) UpsertRequest {
	req := UpsertRequest{
		Employee: r.EmployeeID,
		Date:     r.Day.In(loc).UTC().Format(isoLayout),
		Status:   r.Status,
	}
	if location := strings.TrimSpace(r.Location); location != "" {
		req.Location = &location
	}
	if notes := strings.TrimSpace(r.Notes); notes != "" {
		req.Notes = &notes
	}
	return req
}

// ========================================
// VIEW DTOs
// ========================================

// AddForm is the "Add attendance" form.
type AddForm struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Status   Status `json:"status"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

// ToSetDay validates the form for employeeID and converts it.
func (f AddForm) ToSetDay(employeeID string) (SetDayRequest, error) {
	if validator.IsEmpty(employeeID) || validator.IsEmpty(f.Date) {
		return SetDayRequest{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "Employee and date are required",
		}}
	}

	day, err := calendar.ParseDay(strings.TrimSpace(f.Date))
	if err != nil {
		return SetDayRequest{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	status := f.Status
	if status == "" {
		status = StatusPresent
	}

	req := SetDayRequest{
		EmployeeID: employeeID,
		Day:        day,
		Status:     status,
		Location:   f.Location,
		Notes:      f.Notes,
	}
	if err := req.Validate(); err != nil {
		return SetDayRequest{}, err
	}
	return req, nil
}

// CellView is one rendered calendar cell.
type CellView struct {
	Blank     bool          `json:"blank"`
	Date      *calendar.Day `json:"date,omitempty"`
	Day       int           `json:"day,omitempty"`
	Status    Status        `json:"status,omitempty"`
	RecordID  string        `json:"record_id,omitempty"`
	Location  string        `json:"location,omitempty"`
	Today     bool          `json:"today,omitempty"`
	NotMarked bool          `json:"not_marked,omitempty"`
}

// ViewState is the full attendance screen model.
type ViewState struct {
	EmployeeID        string         `json:"employee_id"`
	EmployeeName      string         `json:"employee_name"`
	Employees         []EmployeeItem `json:"employees"`
	Year              int            `json:"year"`
	Month             int            `json:"month"`
	MonthLabel        string         `json:"month_label"`
	Cells             []CellView     `json:"cells"`
	Stats             MonthStats     `json:"stats"`
	DayModalOpen      bool           `json:"day_modal_open"`
	SelectedDay       *calendar.Day  `json:"selected_day,omitempty"`
	AddModalOpen      bool           `json:"add_modal_open"`
	LoadingEmployees  bool           `json:"loading_employees"`
	LoadingAttendance bool           `json:"loading_attendance"`
	Saving            bool           `json:"saving"`
	Error             string         `json:"error,omitempty"`
}

// EmployeeItem is an entry of the employee selector.
type EmployeeItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
