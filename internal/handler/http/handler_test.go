package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-admin-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-admin-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-admin-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/session"
	"github.com/cmlabs-hris/hris-admin-go/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/hris-admin-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-admin-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/hris-admin-go/internal/service/dashboard"
	"github.com/cmlabs-hris/hris-admin-go/internal/service/workspace"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret   = "test-secret-key-for-jwt"
	handlerTestPassword = "correct-horse"
)

// fakeRemote is an in-memory stand-in for the remote admin REST API.
type fakeRemote struct {
	mu         sync.Mutex
	records    map[string]attendance.Record
	nextID     int
	posts      []attendance.UpsertRequest
	postStatus int
	calls      []string
	// noEmployees makes the employee list come back empty.
	noEmployees bool
}

func (f *fakeRemote) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) upserts() []attendance.UpsertRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]attendance.UpsertRequest(nil), f.posts...)
}

func (f *fakeRemote) setPostStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postStatus = status
}

func (f *fakeRemote) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func writeRemote(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (f *fakeRemote) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/admin/login", func(w http.ResponseWriter, req *http.Request) {
			var body auth.LoginRequest
			_ = json.NewDecoder(req.Body).Decode(&body)
			if body.Password != handlerTestPassword {
				writeRemote(w, http.StatusUnauthorized, `{"error":"Invalid credentials"}`)
				return
			}
			writeRemote(w, http.StatusOK, `{"token":"remote-token","admin":{"_id":"a1","name":"Admin One","email":"admin@example.com","role":"admin"}}`)
		})
		r.Get("/admin/me", func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("Authorization") != "Bearer remote-token" {
				writeRemote(w, http.StatusUnauthorized, `{"message":"Token expired"}`)
				return
			}
			writeRemote(w, http.StatusOK, `{"admin":{"_id":"a1","name":"Admin One","email":"admin@example.com"}}`)
		})

		r.Get("/employees", func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.record("GET /employees?" + req.URL.RawQuery)
			empty := f.noEmployees
			f.mu.Unlock()
			if empty {
				writeRemote(w, http.StatusOK, `{"data":[],"total":0}`)
				return
			}
			writeRemote(w, http.StatusOK, `{"data":[{"_id":"E","name":"Budi Santoso","email":"budi@example.com","role":"Engineer","status":"Active"},{"_id":"F","name":"Sari","email":"sari@example.com","role":"Designer","status":"Active"}],"total":2}`)
		})
		r.Post("/employees", func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.record("POST /employees")
			f.mu.Unlock()
			writeRemote(w, http.StatusConflict, `{"error":{"message":"Email already exists"}}`)
		})

		r.Get("/attendance/employee/{id}/month", f.month)
		r.Post("/attendance", f.upsert)
		r.Delete("/attendance/{id}", func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			id := chi.URLParam(req, "id")
			f.record("DELETE " + id)
			delete(f.records, id)
			writeRemote(w, http.StatusOK, `{"message":"Attendance deleted"}`)
		})
		r.Get("/attendance/stats/overview", func(w http.ResponseWriter, req *http.Request) {
			writeRemote(w, http.StatusOK, `{"data":{"presentPercentage":87}}`)
		})

		r.Get("/enquiries", func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			f.record("GET /enquiries?" + req.URL.RawQuery)
			f.mu.Unlock()
			writeRemote(w, http.StatusOK, `{"data":[{"_id":"q1","name":"Rina","status":"New","priority":"High","channel":"Email"}],"total":1}`)
		})
		r.Get("/enquiries/stats/overview", func(w http.ResponseWriter, req *http.Request) {
			writeRemote(w, http.StatusOK, `{"data":{"new":2,"total":5,"resolved":3}}`)
		})
	})
	return r
}

func (f *fakeRemote) month(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	employeeID := chi.URLParam(req, "id")
	var month, year int
	fmt.Sscan(req.URL.Query().Get("month"), &month)
	fmt.Sscan(req.URL.Query().Get("year"), &year)
	f.record(fmt.Sprintf("GET month %s %d-%02d", employeeID, year, month))

	res := attendance.MonthResponse{Data: []attendance.Record{}, Stats: &attendance.MonthStats{}}
	for _, rec := range f.records {
		at, err := time.Parse(time.RFC3339, rec.Date)
		if err != nil || rec.Employee.ID != employeeID || at.Year() != year || int(at.Month()) != month {
			continue
		}
		res.Data = append(res.Data, rec)
		switch rec.Status {
		case attendance.StatusPresent:
			res.Stats.Present++
		case attendance.StatusAbsent:
			res.Stats.Absent++
		case attendance.StatusLate:
			res.Stats.Late++
		case attendance.StatusWFH:
			res.Stats.WFH++
		}
		res.Stats.Total++
	}

	body, _ := json.Marshal(res)
	writeRemote(w, http.StatusOK, string(body))
}

func (f *fakeRemote) upsert(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body attendance.UpsertRequest
	_ = json.NewDecoder(req.Body).Decode(&body)
	f.record("POST /attendance")
	f.posts = append(f.posts, body)

	if f.postStatus != 0 {
		writeRemote(w, f.postStatus, `{"message":"Database unavailable"}`)
		return
	}

	for id, rec := range f.records {
		if rec.Employee.ID == body.Employee && rec.Date == body.Date {
			rec.Status = body.Status
			f.records[id] = rec
			writeRemote(w, http.StatusOK, `{"message":"Attendance updated"}`)
			return
		}
	}

	f.nextID++
	id := fmt.Sprintf("r%d", f.nextID)
	f.records[id] = attendance.Record{
		ID:       id,
		Employee: attendance.EmployeeRef{ID: body.Employee},
		Date:     body.Date,
		Status:   body.Status,
	}
	writeRemote(w, http.StatusCreated, `{"message":"Attendance created"}`)
}

type handlerFixture struct {
	remote  *fakeRemote
	jwt     jwt.Service
	hub     *sse.Hub
	router  http.Handler
	cookies []*http.Cookie
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	remote := &fakeRemote{records: make(map[string]attendance.Record)}
	srv := httptest.NewServer(remote.routes())
	t.Cleanup(srv.Close)

	client := apiclient.NewClient(srv.URL+"/api", srv.Client(), nil)
	hub := sse.NewHub()
	registry := workspace.NewRegistry(
		session.NewMemoryRepository(),
		client,
		workspace.NotifierFactoryFunc(func(sessionID string) attendanceService.Notifier {
			return hub.Notifier(sessionID)
		}),
		time.UTC,
		time.Hour,
	)
	jwtService := jwt.NewJWTService(handlerTestSecret, time.Hour, false)

	attendanceHandler := &attendanceHandlerImpl{now: func() time.Time {
		return time.Date(2024, time.February, 15, 9, 0, 0, 0, time.UTC)
	}}

	router := NewRouter(
		RouterOptions{AllowedOrigins: []string{"http://localhost:5173"}, Env: "test", Version: "test"},
		jwtService,
		registry,
		NewAuthHandler(jwtService, serviceAuth.NewAuthService(client, registry, jwtService)),
		attendanceHandler,
		NewEmployeeHandler(),
		NewEnquiryHandler(),
		NewDashboardHandler(dashboardService.NewDashboardService()),
		NewEventsHandler(hub),
	)

	return &handlerFixture{remote: remote, jwt: jwtService, hub: hub, router: router}
}

// envelope mirrors response.Response with raw data.
type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
	Meta    *response.Meta        `json:"meta"`
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range f.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// login signs in and keeps the session cookie for later requests.
func (f *handlerFixture) login(t *testing.T) auth.LoginResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", auth.LoginRequest{
		Email:    "admin@example.com",
		Password: handlerTestPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	f.cookies = rec.Result().Cookies()
	require.NotEmpty(t, f.cookies)

	var res auth.LoginResponse
	decodeData(t, rec, &res)
	return res
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) envelope {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NotEmpty(t, env.Data, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
	return env
}
