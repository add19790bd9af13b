package attendance

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/validator"
)

// EventViewChanged is published whenever the attendance screen state changes.
const EventViewChanged = "attendance.view"

// employeeListLimit is the page size of the employee selector.
const employeeListLimit = 200

// EmployeeLister lists employees for the selector.
type EmployeeLister interface {
	ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error)
}

// Notifier receives view change events.
type Notifier interface {
	Notify(event string)
}

// Controller is the attendance screen state machine of one administrator.
// Every mutating action either succeeds and closes its modal, or leaves the
// modal open with the error message set.
type Controller struct {
	reconciler attendance.Reconciler
	employees  EmployeeLister
	notifier   Notifier
	loc        *time.Location

	mu                sync.Mutex
	employeeList      []attendance.EmployeeItem
	employeeID        string
	month             calendar.Month
	dayModalOpen      bool
	selectedDay       calendar.Day
	addModalOpen      bool
	employeesLoaded   bool
	loadingEmployees  bool
	loadingAttendance bool
	loadSeq           uint64
	saving            bool
	errMessage        string
}

func NewController(reconciler attendance.Reconciler, employees EmployeeLister, notifier Notifier, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.Local
	}
	return &Controller{
		reconciler: reconciler,
		employees:  employees,
		notifier:   notifier,
		loc:        loc,
		month:      calendar.CurrentMonth(time.Now(), loc),
	}
}

// LoadEmployees fills the selector. When no employee is selected yet the first
// one is selected and its month is loaded.
func (c *Controller) LoadEmployees(ctx context.Context) error {
	c.mu.Lock()
	c.loadingEmployees = true
	c.mu.Unlock()
	c.notify()

	res, err := c.employees.ListEmployees(ctx, employee.EmployeeFilter{Limit: employeeListLimit})

	c.mu.Lock()
	c.loadingEmployees = false
	if err != nil {
		c.errMessage = errorMessage(err)
		c.mu.Unlock()
		c.notify()
		slog.Error("Failed to load employees", "error", err)
		return err
	}

	items := make([]attendance.EmployeeItem, 0, len(res.Data))
	for _, e := range res.Data {
		items = append(items, attendance.EmployeeItem{ID: e.ID, Name: e.Name, Role: e.Role})
	}
	c.employeeList = items
	c.employeesLoaded = true

	autoSelect := c.employeeID == "" && len(items) > 0
	if autoSelect {
		c.employeeID = items[0].ID
	}
	c.mu.Unlock()
	c.notify()

	if autoSelect {
		return c.loadAttendance(ctx)
	}
	return nil
}

// NeedsEmployees reports whether the selector has never been filled and no
// load of it is running.
func (c *Controller) NeedsEmployees() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.employeesLoaded && !c.loadingEmployees
}

// SelectEmployee switches the displayed employee and restarts the month load.
func (c *Controller) SelectEmployee(ctx context.Context, employeeID string) error {
	if validator.IsEmpty(employeeID) {
		return attendance.ErrNoEmployeeSelected
	}

	c.mu.Lock()
	c.employeeID = employeeID
	c.closeDayLocked()
	c.mu.Unlock()

	return c.loadAttendance(ctx)
}

// ChangeMonth moves the displayed month by delta months.
func (c *Controller) ChangeMonth(ctx context.Context, delta int) error {
	c.mu.Lock()
	c.month = c.month.Add(delta)
	c.closeDayLocked()
	c.mu.Unlock()

	return c.loadAttendance(ctx)
}

// SetMonth jumps to month m.
func (c *Controller) SetMonth(ctx context.Context, m calendar.Month) error {
	if !m.Valid() {
		return attendance.ErrInvalidMonth
	}

	c.mu.Lock()
	c.month = m
	c.closeDayLocked()
	c.mu.Unlock()

	return c.loadAttendance(ctx)
}

// Refresh reloads the displayed month.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.loadAttendance(ctx)
}

// OpenDay opens the day modal. Without a selected employee or on a blank cell
// it does nothing.
func (c *Controller) OpenDay(day calendar.Day) {
	c.mu.Lock()
	if c.employeeID == "" || day.IsZero() {
		c.mu.Unlock()
		return
	}
	c.dayModalOpen = true
	c.selectedDay = day
	c.errMessage = ""
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) CloseDay() {
	c.mu.Lock()
	c.closeDayLocked()
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) OpenAdd() {
	c.mu.Lock()
	c.addModalOpen = true
	c.errMessage = ""
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) CloseAdd() {
	c.mu.Lock()
	c.addModalOpen = false
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) DismissError() {
	c.mu.Lock()
	c.errMessage = ""
	c.mu.Unlock()
	c.notify()
}

// SelectStatus sets the status of the day in the open day modal.
func (c *Controller) SelectStatus(ctx context.Context, status attendance.Status) error {
	c.mu.Lock()
	if !c.dayModalOpen || c.selectedDay.IsZero() {
		c.mu.Unlock()
		return attendance.ErrNoDaySelected
	}
	req := attendance.SetDayRequest{
		EmployeeID: c.employeeID,
		Day:        c.selectedDay,
		Status:     status,
	}
	c.beginMutationLocked()
	c.mu.Unlock()
	c.notify()

	_, err := c.reconciler.SetDay(ctx, req)
	return c.finishMutation(err, c.closeDayLocked)
}

// ClearSelectedDay removes the record of the day in the open day modal.
func (c *Controller) ClearSelectedDay(ctx context.Context) error {
	c.mu.Lock()
	if c.selectedDay.IsZero() {
		c.closeDayLocked()
		c.mu.Unlock()
		c.notify()
		return nil
	}
	employeeID, day := c.employeeID, c.selectedDay
	c.beginMutationLocked()
	c.mu.Unlock()
	c.notify()

	_, err := c.reconciler.ClearDay(ctx, employeeID, day)
	return c.finishMutation(err, c.closeDayLocked)
}

// CreateAttendance submits the add form for the selected employee.
func (c *Controller) CreateAttendance(ctx context.Context, form attendance.AddForm) error {
	c.mu.Lock()
	req, err := form.ToSetDay(c.employeeID)
	if err != nil {
		c.errMessage = errorMessage(err)
		c.mu.Unlock()
		c.notify()
		return err
	}
	c.beginMutationLocked()
	c.mu.Unlock()
	c.notify()

	_, err = c.reconciler.SetDay(ctx, req)
	return c.finishMutation(err, func() { c.addModalOpen = false })
}

// Snapshot renders the screen state. Attendance is shown only when the
// reconciled view belongs to the displayed selection.
func (c *Controller) Snapshot(now time.Time) attendance.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := attendance.ViewState{
		EmployeeID:        c.employeeID,
		Employees:         append([]attendance.EmployeeItem{}, c.employeeList...),
		Year:              c.month.Year,
		Month:             int(c.month.Month),
		MonthLabel:        c.month.String(),
		DayModalOpen:      c.dayModalOpen,
		AddModalOpen:      c.addModalOpen,
		LoadingEmployees:  c.loadingEmployees,
		LoadingAttendance: c.loadingAttendance,
		Saving:            c.saving,
		Error:             c.errMessage,
	}
	if c.dayModalOpen {
		day := c.selectedDay
		state.SelectedDay = &day
	}
	if c.employeeID != "" {
		state.EmployeeName = "Employee"
		for _, e := range c.employeeList {
			if e.ID == c.employeeID {
				state.EmployeeName = e.Name
				break
			}
		}
	}

	var days attendance.DayMap
	view := c.reconciler.Current()
	if c.employeeID != "" && view.Key == (attendance.MonthKey{EmployeeID: c.employeeID, Month: c.month}) {
		days = view.Days
		state.Stats = view.Stats
	}

	today := calendar.DayIn(now, c.loc)
	grid := calendar.Grid(c.month)
	state.Cells = make([]attendance.CellView, 0, len(grid))
	for _, cell := range grid {
		if cell.Blank {
			state.Cells = append(state.Cells, attendance.CellView{Blank: true})
			continue
		}
		day := cell.Day
		cv := attendance.CellView{
			Date:  &day,
			Day:   day.Day,
			Today: day == today,
		}
		if entry, ok := days[day]; ok {
			cv.Status = entry.Status
			cv.RecordID = entry.ID
			cv.Location = entry.Location
		} else if c.employeeID != "" && day.Before(today) {
			cv.NotMarked = true
		}
		state.Cells = append(state.Cells, cv)
	}

	return state
}

// loadAttendance (re)loads the displayed selection. The reconciler ticket is
// issued under c.mu, so loads are ordered like the selections that started
// them. Only the newest load clears the loading flag.
func (c *Controller) loadAttendance(ctx context.Context) error {
	c.mu.Lock()
	if c.employeeID == "" {
		c.mu.Unlock()
		return nil
	}
	ticket, err := c.reconciler.Begin(c.employeeID, c.month)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.loadSeq++
	seq := c.loadSeq
	c.loadingAttendance = true
	c.errMessage = ""
	c.mu.Unlock()
	c.notify()

	_, err = c.reconciler.Load(ctx, ticket)
	if errors.Is(err, attendance.ErrStaleLoad) {
		err = nil
	}

	c.mu.Lock()
	if seq == c.loadSeq {
		c.loadingAttendance = false
		if err != nil {
			c.errMessage = errorMessage(err)
		}
	}
	c.mu.Unlock()
	c.notify()

	return err
}

func (c *Controller) beginMutationLocked() {
	c.saving = true
	c.errMessage = ""
}

// finishMutation applies the outcome of a mutation. closeModal runs with the
// lock held and only when the mutation itself succeeded, even if the reload
// that followed it failed.
func (c *Controller) finishMutation(err error, closeModal func()) error {
	c.mu.Lock()
	c.saving = false
	switch {
	case err == nil:
		closeModal()
	case errors.Is(err, attendance.ErrReloadFailed):
		closeModal()
		c.errMessage = errorMessage(err)
	default:
		c.errMessage = errorMessage(err)
	}
	c.mu.Unlock()
	c.notify()
	return err
}

func (c *Controller) closeDayLocked() {
	c.dayModalOpen = false
	c.selectedDay = calendar.Day{}
}

func (c *Controller) notify() {
	if c.notifier != nil {
		c.notifier.Notify(EventViewChanged)
	}
}

func errorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Message()
	}
	return err.Error()
}
