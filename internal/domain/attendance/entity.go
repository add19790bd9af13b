package attendance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/validator"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Late"
	StatusWFH     Status = "WFH"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusWFH}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusWFH:
		return true
	}
	return false
}

// EmployeeRef is the employee field of an attendance record. The remote API
// sends either the bare id or a populated employee object.
type EmployeeRef struct {
	ID   string
	Name string
}

func (e *EmployeeRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*e = EmployeeRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.ID)
	}

	var populated struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(data, &populated); err != nil {
		return fmt.Errorf("decode employee reference: %w", err)
	}
	e.ID = populated.ID
	if e.ID == "" {
		e.ID = populated.AltID
	}
	e.Name = populated.Name
	return nil
}

func (e EmployeeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ID)
}

// Record is one attendance entry as returned by the remote API.
type Record struct {
	ID       string      `json:"_id"`
	Employee EmployeeRef `json:"employee"`
	Date     string      `json:"date"`
	Status   Status      `json:"status"`
	Location string      `json:"location,omitempty"`
	Notes    string      `json:"notes,omitempty"`
}

// DayIn resolves the record date to the calendar day it falls on in loc.
// Timestamps are converted to loc first; plain dates are taken as-is.
func (r Record) DayIn(loc *time.Location) (calendar.Day, error) {
	if d, ok := validator.IsValidDate(r.Date); ok {
		return calendar.DayIn(d, time.UTC), nil
	}
	if t, ok := validator.IsValidDateTime(r.Date); ok {
		return calendar.DayIn(t, loc), nil
	}
	return calendar.Day{}, fmt.Errorf("%w: %q", ErrInvalidRecordDate, r.Date)
}

// MonthStats are the aggregate counts the remote API computes for one
// employee-month. They are displayed verbatim.
type MonthStats struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	WFH     int `json:"wfh"`
	Total   int `json:"total"`
}

// DayEntry is the reconciled value stored per calendar day.
type DayEntry struct {
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// DayMap indexes a month's attendance by calendar day.
type DayMap map[calendar.Day]DayEntry

// MonthKey identifies one employee-month selection.
type MonthKey struct {
	EmployeeID string
	Month      calendar.Month
}

// MonthView is a reconciled employee-month. It is replaced as a whole on every load.
type MonthView struct {
	Key      MonthKey
	Days     DayMap
	Stats    MonthStats
	Loaded   bool
	LoadedAt time.Time
}

// LoadTicket orders one month load. A load is applied only while its ticket is
// the newest one issued.
type LoadTicket struct {
	Key MonthKey
	Seq uint64
}

// Entry returns the entry for d, if any.
func (v MonthView) Entry(d calendar.Day) (DayEntry, bool) {
	if v.Days == nil {
		return DayEntry{}, false
	}
	e, ok := v.Days[d]
	return e, ok
}
