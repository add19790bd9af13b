package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-go/internal/observability"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/calendar"
)

type ReconcilerImpl struct {
	gateway attendance.Gateway
	loc     *time.Location
	now     func() time.Time

	mu sync.Mutex
	// seq is the number of the newest issued ticket. A finished load is
	// applied only while its ticket is still seq.
	seq      uint64
	selected attendance.MonthKey
	current  attendance.MonthView
}

// NewReconciler creates a reconciler resolving record dates to calendar days in loc.
func NewReconciler(gateway attendance.Gateway, loc *time.Location) attendance.Reconciler {
	if loc == nil {
		loc = time.Local
	}
	return &ReconcilerImpl{
		gateway: gateway,
		loc:     loc,
		now:     time.Now,
	}
}

// Reconcile folds records into a day map keyed by their calendar day in loc.
// When several records fall on the same day the last one wins.
func Reconcile(records []attendance.Record, loc *time.Location) attendance.DayMap {
	days := make(attendance.DayMap, len(records))
	for _, rec := range records {
		day, err := rec.DayIn(loc)
		if err != nil {
			slog.Warn("Skipping attendance record", "id", rec.ID, "error", err)
			continue
		}
		days[day] = attendance.DayEntry{
			ID:       rec.ID,
			Status:   rec.Status,
			Location: rec.Location,
			Notes:    rec.Notes,
		}
	}
	return days
}

// Begin implements attendance.Reconciler.
func (r *ReconcilerImpl) Begin(employeeID string, month calendar.Month) (attendance.LoadTicket, error) {
	if employeeID == "" {
		return attendance.LoadTicket{}, attendance.ErrNoEmployeeSelected
	}
	if !month.Valid() {
		return attendance.LoadTicket{}, attendance.ErrInvalidMonth
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.beginLocked(attendance.MonthKey{EmployeeID: employeeID, Month: month}), nil
}

func (r *ReconcilerImpl) beginLocked(key attendance.MonthKey) attendance.LoadTicket {
	r.seq++
	r.selected = key
	return attendance.LoadTicket{Key: key, Seq: r.seq}
}

// LoadMonth implements attendance.Reconciler.
func (r *ReconcilerImpl) LoadMonth(ctx context.Context, employeeID string, month calendar.Month) (attendance.MonthView, error) {
	ticket, err := r.Begin(employeeID, month)
	if err != nil {
		return r.Current(), err
	}
	return r.Load(ctx, ticket)
}

// Load implements attendance.Reconciler.
func (r *ReconcilerImpl) Load(ctx context.Context, ticket attendance.LoadTicket) (attendance.MonthView, error) {
	key := ticket.Key
	employeeID, month := key.EmployeeID, key.Month

	res, err := r.gateway.GetEmployeeMonthAttendance(ctx, employeeID, int(month.Month), month.Year)

	// A failed load still replaces the view: an empty month is shown rather
	// than the previous selection's data.
	view := attendance.MonthView{
		Key:      key,
		Days:     attendance.DayMap{},
		LoadedAt: r.now(),
	}
	if err == nil {
		view.Days = Reconcile(res.Data, r.loc)
		if res.Stats != nil {
			view.Stats = *res.Stats
		}
		view.Loaded = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ticket.Seq != r.seq {
		observability.RecordMonthLoad(observability.MonthLoadStale)
		slog.Info("Discarding stale month load",
			"employee_id", employeeID,
			"month", month.String(),
			"seq", ticket.Seq,
			"latest", r.seq,
		)
		return r.current, attendance.ErrStaleLoad
	}

	r.current = view
	if err != nil {
		observability.RecordMonthLoad(observability.MonthLoadFailed)
		slog.Error("Failed to load month attendance", "employee_id", employeeID, "month", month.String(), "error", err)
		return view, err
	}

	observability.RecordMonthLoad(observability.MonthLoadApplied)
	return view, nil
}

// SetDay implements attendance.Reconciler.
func (r *ReconcilerImpl) SetDay(ctx context.Context, req attendance.SetDayRequest) (attendance.MonthView, error) {
	if err := req.Validate(); err != nil {
		return r.Current(), err
	}

	if _, err := r.gateway.SetAttendance(ctx, req.ToUpsert(r.loc)); err != nil {
		slog.Error("Failed to set attendance", "employee_id", req.EmployeeID, "date", req.Day.String(), "error", err)
		return r.Current(), err
	}

	slog.Info("Attendance set", "employee_id", req.EmployeeID, "date", req.Day.String(), "status", req.Status)
	return r.reload(ctx, req.EmployeeID, calendar.MonthOf(req.Day))
}

// ClearDay implements attendance.Reconciler.
func (r *ReconcilerImpl) ClearDay(ctx context.Context, employeeID string, day calendar.Day) (attendance.MonthView, error) {
	if employeeID == "" {
		return r.Current(), attendance.ErrNoEmployeeSelected
	}
	if day.IsZero() {
		return r.Current(), attendance.ErrNoDaySelected
	}

	entry, found, err := r.lookup(ctx, employeeID, day)
	if err != nil {
		return r.Current(), err
	}
	if !found || entry.ID == "" {
		return r.Current(), nil
	}

	if err := r.gateway.DeleteAttendance(ctx, entry.ID); err != nil {
		slog.Error("Failed to delete attendance", "attendance_id", entry.ID, "error", err)
		return r.Current(), err
	}

	slog.Info("Attendance cleared", "employee_id", employeeID, "date", day.String(), "attendance_id", entry.ID)
	return r.reload(ctx, employeeID, calendar.MonthOf(day))
}

// Current implements attendance.Reconciler.
func (r *ReconcilerImpl) Current() attendance.MonthView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// lookup finds the record of day. The current view answers when it covers the
// day; otherwise that month is fetched without touching the current view.
func (r *ReconcilerImpl) lookup(ctx context.Context, employeeID string, day calendar.Day) (attendance.DayEntry, bool, error) {
	current := r.Current()
	if current.Loaded && current.Key.EmployeeID == employeeID && current.Key.Month.Contains(day) {
		entry, ok := current.Entry(day)
		return entry, ok, nil
	}

	month := calendar.MonthOf(day)
	res, err := r.gateway.GetEmployeeMonthAttendance(ctx, employeeID, int(month.Month), month.Year)
	if err != nil {
		return attendance.DayEntry{}, false, err
	}
	entry, ok := Reconcile(res.Data, r.loc)[day]
	return entry, ok, nil
}

// reload re-fetches the newest selection after a mutation. With no selection
// yet it loads the mutated month of employeeID. The selection is read and the
// ticket issued in one step, so a selection begun afterwards still wins.
func (r *ReconcilerImpl) reload(ctx context.Context, employeeID string, fallback calendar.Month) (attendance.MonthView, error) {
	r.mu.Lock()
	key := r.selected
	if key.EmployeeID == "" {
		key = attendance.MonthKey{EmployeeID: employeeID, Month: fallback}
	}
	ticket := r.beginLocked(key)
	r.mu.Unlock()

	view, err := r.Load(ctx, ticket)
	switch {
	case errors.Is(err, attendance.ErrStaleLoad):
		return r.Current(), nil
	case err != nil:
		return view, fmt.Errorf("%w: %w", attendance.ErrReloadFailed, err)
	}
	return view, nil
}
