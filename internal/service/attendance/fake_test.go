package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/calendar"
)

// fakeGateway is an in-memory attendance API. Month loads can be held back
// per month with hold, and the call log records every remote request.
type fakeGateway struct {
	mu      sync.Mutex
	loc     *time.Location
	records []attendance.Record
	stats   map[calendar.Month]*attendance.MonthStats
	holds   map[calendar.Month]*hold
	nextID  int
	calls   []string

	loadErr   error
	setErr    error
	deleteErr error
	// failLoadsAfterSet makes every month load fail once a set succeeded.
	failLoadsAfterSet error
	setDone           bool
}

type hold struct {
	entered chan struct{}
	release chan struct{}
}

func newFakeGateway(loc *time.Location) *fakeGateway {
	return &fakeGateway{
		loc:   loc,
		stats: map[calendar.Month]*attendance.MonthStats{},
		holds: map[calendar.Month]*hold{},
	}
}

func (f *fakeGateway) seed(records ...attendance.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
}

// hold blocks loads of m until the returned release func is called.
func (f *fakeGateway) hold(m calendar.Month) (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := &hold{entered: make(chan struct{}), release: make(chan struct{})}
	f.holds[m] = h
	return h.entered, func() { close(h.release) }
}

func (f *fakeGateway) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeGateway) GetEmployeeMonthAttendance(ctx context.Context, employeeID string, month, year int) (attendance.MonthResponse, error) {
	m := calendar.Month{Year: year, Month: time.Month(month)}

	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("GET %s %s", employeeID, m))
	h := f.holds[m]
	delete(f.holds, m)
	f.mu.Unlock()

	if h != nil {
		close(h.entered)
		select {
		case <-h.release:
		case <-ctx.Done():
			return attendance.MonthResponse{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return attendance.MonthResponse{}, f.loadErr
	}
	if f.setDone && f.failLoadsAfterSet != nil {
		return attendance.MonthResponse{}, f.failLoadsAfterSet
	}

	res := attendance.MonthResponse{Data: []attendance.Record{}}
	computed := attendance.MonthStats{}
	for _, rec := range f.records {
		day, err := rec.DayIn(f.loc)
		if rec.Employee.ID != employeeID || (err == nil && !m.Contains(day)) {
			continue
		}
		res.Data = append(res.Data, rec)
		switch rec.Status {
		case attendance.StatusPresent:
			computed.Present++
		case attendance.StatusAbsent:
			computed.Absent++
		case attendance.StatusLate:
			computed.Late++
		case attendance.StatusWFH:
			computed.WFH++
		}
		computed.Total++
	}
	if stats, ok := f.stats[m]; ok {
		res.Stats = stats
	} else {
		res.Stats = &computed
	}
	return res, nil
}

func (f *fakeGateway) SetAttendance(_ context.Context, req attendance.UpsertRequest) (attendance.UpsertResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("POST %s %s %s", req.Employee, req.Date, req.Status))

	if f.setErr != nil {
		return attendance.UpsertResponse{}, f.setErr
	}
	f.setDone = true

	rec := attendance.Record{
		Employee: attendance.EmployeeRef{ID: req.Employee},
		Date:     req.Date,
		Status:   req.Status,
	}
	if req.Location != nil {
		rec.Location = *req.Location
	}
	if req.Notes != nil {
		rec.Notes = *req.Notes
	}
	day, err := rec.DayIn(f.loc)
	if err != nil {
		return attendance.UpsertResponse{}, err
	}

	for i, existing := range f.records {
		existingDay, err := existing.DayIn(f.loc)
		if err == nil && existing.Employee.ID == req.Employee && existingDay == day {
			rec.ID = existing.ID
			f.records[i] = rec
			return attendance.UpsertResponse{Data: &rec, Message: "Attendance updated"}, nil
		}
	}

	f.nextID++
	rec.ID = fmt.Sprintf("rec-%d", f.nextID)
	f.records = append(f.records, rec)
	return attendance.UpsertResponse{Data: &rec, Message: "Attendance created"}, nil
}

func (f *fakeGateway) DeleteAttendance(_ context.Context, attendanceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "DELETE "+attendanceID)

	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, rec := range f.records {
		if rec.ID == attendanceID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeEmployees struct {
	mu      sync.Mutex
	list    []employee.Employee
	err     error
	filters []employee.EmployeeFilter
}

func (f *fakeEmployees) ListEmployees(_ context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return employee.ListEmployeeResponse{}, f.err
	}
	return employee.ListEmployeeResponse{Data: f.list}, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e == event {
			c++
		}
	}
	return c
}
