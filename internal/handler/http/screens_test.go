package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/enquiry"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/jwt"
	attendanceService "github.com/cmlabs-hris/hris-admin-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeHandler_List(t *testing.T) {
	f := newHandlerFixture(t)
	f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/employees?status=Active&search=&limit=20", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var employees []employee.Employee
	env := decodeData(t, rec, &employees)
	assert.Len(t, employees, 2)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.TotalItems)
	assert.Equal(t, 1, f.remote.callCount("GET /employees?limit=20&status=Active"))
}

func TestEmployeeHandler_List_InvalidStatus(t *testing.T) {
	f := newHandlerFixture(t)
	f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/employees?status=Retired", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Zero(t, f.remote.callCount("GET /employees"))
}

func TestEmployeeHandler_Create(t *testing.T) {
	f := newHandlerFixture(t)
	f.login(t)

	rec := f.do(t, http.MethodPost, "/api/v1/employees", employee.CreateEmployeeRequest{Name: "Dewi"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Name, email, and role are required", env.Error.Message)
	assert.Zero(t, f.remote.callCount("POST /employees"))

	rec = f.do(t, http.MethodPost, "/api/v1/employees", employee.CreateEmployeeRequest{
		Name:  "Dewi",
		Email: "budi@example.com",
		Role:  "Engineer",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	env = decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Email already exists", env.Error.Message)
}

func TestEnquiryHandler_List(t *testing.T) {
	f := newHandlerFixture(t)
	f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/enquiries?priority=High&channel=Email", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var enquiries []enquiry.Enquiry
	decodeData(t, rec, &enquiries)
	require.Len(t, enquiries, 1)
	assert.Equal(t, enquiry.PriorityHigh, enquiries[0].Priority)
	assert.Equal(t, 1, f.remote.callCount("GET /enquiries?channel=Email&limit=50&priority=High"))

	rec = f.do(t, http.MethodGet, "/api/v1/enquiries?priority=Urgent", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDashboardHandler_GetOverview(t *testing.T) {
	f := newHandlerFixture(t)
	f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/dashboard/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var overview dashboard.OverviewResponse
	decodeData(t, rec, &overview)
	assert.Equal(t, 2, overview.ActiveEmployees)
	assert.Equal(t, "87%", overview.AttendanceRate)
	assert.Equal(t, 2, overview.NewEnquiries)
	assert.Equal(t, 2, overview.PendingEnquiries)
	assert.Equal(t, 3, overview.ResolvedEnquiries)
}

func TestEventsHandler_Stream(t *testing.T) {
	f := newHandlerFixture(t)
	res := f.login(t)

	token, err := f.jwt.JWTAuth().Decode(res.AccessToken)
	require.NoError(t, err)
	sessionID, err := jwt.SessionID(token.PrivateClaims())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.router.ServeHTTP(rec, req)
	}()

	require.Eventually(t, func() bool {
		return f.hub.SubscriberCount(sessionID) == 1
	}, time.Second, 10*time.Millisecond)

	f.hub.Notifier(sessionID).Notify(attendanceService.EventViewChanged)
	f.hub.Notifier("someone-else").Notify(attendanceService.EventViewChanged)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event: attendance.view\n")
	assert.Zero(t, f.hub.SubscriberCount(sessionID))
}
