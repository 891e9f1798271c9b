package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	log := zaptest.NewLogger(t)
	m := metrics.NewCollector("medschedule_test", prometheus.NewRegistry())
	cfg := &config.Config{
		App:     config.AppConfig{Name: "medschedule-test", Version: "test"},
		Tracing: config.TracingConfig{ServiceName: "medschedule-test"},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         time.Hour,
		},
	}

	auditSvc := service.NewAuditService(memory.NewAuditRepository(), 100, m, log)
	t.Cleanup(func() { auditSvc.Shutdown(time.Second) })

	doctors := memory.NewDoctorRepository()
	patients := memory.NewPatientRepository()
	rooms := memory.NewRoomRepository()
	appointments := memory.NewAppointmentRepository()

	return NewRouter(ctx, cfg, Services{
		Doctors:      service.NewDoctorService(doctors, auditSvc, m, log),
		Patients:     service.NewPatientService(patients, auditSvc, m, log),
		Rooms:        service.NewRoomService(rooms, auditSvc, m, log),
		Appointments: service.NewAppointmentService(appointments, doctors, patients, rooms, auditSvc, m, log),
		Stats:        service.NewStatsService(doctors, patients, rooms, appointments),
	}, m, log)
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func expect(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, code, w.Body.String())
	}
}

// seed creates doctor 1, patient 1 and room Dermatology.
func seed(t *testing.T, r *gin.Engine) {
	t.Helper()
	expect(t, do(t, r, http.MethodPost, "/api/doctor",
		`{"firstName":"Perla","lastName":"Amalia","age":24,"email":"p.amalia@hospital.accv.es"}`), http.StatusCreated)
	expect(t, do(t, r, http.MethodPost, "/api/patient",
		`{"firstName":"Jose Luis","lastName":"Olaya","age":37,"email":"j.olaya@email.com"}`), http.StatusCreated)
	expect(t, do(t, r, http.MethodPost, "/api/room", `{"roomName":"Dermatology"}`), http.StatusCreated)
}

func appointmentBody(start, finish string) string {
	return `{"doctorId":1,"patientId":1,"roomName":"Dermatology","startsAt":"` + start + `","finishesAt":"` + finish + `"}`
}

func TestDoctorLifecycle(t *testing.T) {
	r := setup(t)

	expect(t, do(t, r, http.MethodGet, "/api/doctors", ""), http.StatusNoContent)

	w := do(t, r, http.MethodPost, "/api/doctor",
		`{"firstName":"Perla","lastName":"Amalia","age":24,"email":"p.amalia@hospital.accv.es"}`)
	expect(t, w, http.StatusCreated)
	var created doctor.Doctor
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 || created.FirstName != "Perla" {
		t.Fatalf("created = %+v", created)
	}

	w = do(t, r, http.MethodGet, "/api/doctors", "")
	expect(t, w, http.StatusOK)
	var list []doctor.Doctor
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0] != created {
		t.Errorf("list = %+v", list)
	}

	w = do(t, r, http.MethodGet, "/api/doctors/1", "")
	expect(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `"lastName":"Amalia"`) {
		t.Errorf("body = %s", w.Body.String())
	}

	expect(t, do(t, r, http.MethodDelete, "/api/doctors/1", ""), http.StatusOK)
	expect(t, do(t, r, http.MethodGet, "/api/doctors/1", ""), http.StatusNotFound)
}

func TestRecordErrors(t *testing.T) {
	r := setup(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"get missing doctor", http.MethodGet, "/api/doctors/7", "", http.StatusNotFound},
		{"get bad id", http.MethodGet, "/api/patients/abc", "", http.StatusBadRequest},
		{"delete missing patient", http.MethodDelete, "/api/patients/7", "", http.StatusNotFound},
		{"delete missing room", http.MethodDelete, "/api/rooms/Oncology", "", http.StatusNotFound},
		{"malformed body", http.MethodPost, "/api/doctor", `{"firstName":`, http.StatusBadRequest},
		{"blank room", http.MethodPost, "/api/room", `{"roomName":"  "}`, http.StatusBadRequest},
		{"delete all empty", http.MethodDelete, "/api/rooms", "", http.StatusOK},
		{"empty appointments", http.MethodGet, "/api/appointments", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, do(t, r, tt.method, tt.path, tt.body), tt.want)
		})
	}
}

func TestRoomKeyedByName(t *testing.T) {
	r := setup(t)

	expect(t, do(t, r, http.MethodPost, "/api/room", `{"roomName":"Psychiatry"}`), http.StatusCreated)
	w := do(t, r, http.MethodGet, "/api/rooms/Psychiatry", "")
	expect(t, w, http.StatusOK)
	if strings.TrimSpace(w.Body.String()) != `{"roomName":"Psychiatry"}` {
		t.Errorf("body = %s", w.Body.String())
	}
	expect(t, do(t, r, http.MethodDelete, "/api/rooms/Psychiatry", ""), http.StatusOK)
}

func TestCreateAppointment(t *testing.T) {
	r := setup(t)
	seed(t, r)

	w := do(t, r, http.MethodPost, "/api/appointment", appointmentBody("10:30 01/03/2024", "11:00 01/03/2024"))
	expect(t, w, http.StatusOK)

	var created appointment.Appointment
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("id = %d, want 1", created.ID)
	}
	if !strings.Contains(w.Body.String(), `"startsAt":"10:30 01/03/2024"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestCreateAppointmentRejections(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     int
		wantCode string
	}{
		{"overlap", appointmentBody("10:15 01/03/2024", "10:45 01/03/2024"), http.StatusNotAcceptable, "APPOINTMENT_CONFLICT"},
		{"containment", appointmentBody("10:00 01/03/2024", "12:00 01/03/2024"), http.StatusNotAcceptable, "APPOINTMENT_CONFLICT"},
		{"equal bounds", appointmentBody("09:00 01/03/2024", "09:00 01/03/2024"), http.StatusBadRequest, "INVALID_INTERVAL"},
		{"reversed", appointmentBody("09:30 01/03/2024", "09:00 01/03/2024"), http.StatusBadRequest, "INVALID_INTERVAL"},
		{"missing times", `{"doctorId":1,"patientId":1,"roomName":"Dermatology"}`, http.StatusBadRequest, "INVALID_INTERVAL"},
		{"unknown doctor", `{"doctorId":9,"patientId":1,"roomName":"Dermatology","startsAt":"08:00 01/03/2024","finishesAt":"08:30 01/03/2024"}`, http.StatusBadRequest, "UNKNOWN_REFERENCE"},
		{"bad time format", appointmentBody("2024-03-01 10:00", "11:00 01/03/2024"), http.StatusBadRequest, "INVALID_BODY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setup(t)
			seed(t, r)
			expect(t, do(t, r, http.MethodPost, "/api/appointment", appointmentBody("10:30 01/03/2024", "11:00 01/03/2024")), http.StatusOK)

			w := do(t, r, http.MethodPost, "/api/appointment", tt.body)
			expect(t, w, tt.want)

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}

			w = do(t, r, http.MethodGet, "/api/appointments", "")
			expect(t, w, http.StatusOK)
			var list []appointment.Appointment
			if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
				t.Fatalf("decode list: %v", err)
			}
			if len(list) != 1 {
				t.Errorf("stored appointments = %d, want 1", len(list))
			}
		})
	}
}

func TestGetAppointmentResolvesReferences(t *testing.T) {
	r := setup(t)
	seed(t, r)
	expect(t, do(t, r, http.MethodPost, "/api/appointment", appointmentBody("10:00 01/03/2024", "10:30 01/03/2024")), http.StatusOK)

	w := do(t, r, http.MethodGet, "/api/appointments/1", "")
	expect(t, w, http.StatusOK)

	var got appointment.Appointment
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Doctor == nil || got.Doctor.FirstName != "Perla" {
		t.Errorf("doctor = %+v", got.Doctor)
	}
	if got.Room == nil || got.Room.RoomName != "Dermatology" {
		t.Errorf("room = %+v", got.Room)
	}

	expect(t, do(t, r, http.MethodDelete, "/api/appointments/1", ""), http.StatusOK)
	expect(t, do(t, r, http.MethodGet, "/api/appointments/1", ""), http.StatusNotFound)
	expect(t, do(t, r, http.MethodDelete, "/api/appointments", ""), http.StatusOK)
}

func TestStatsAndOperationalEndpoints(t *testing.T) {
	r := setup(t)
	seed(t, r)

	w := do(t, r, http.MethodGet, "/api/stats", "")
	expect(t, w, http.StatusOK)
	var st service.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st != (service.Stats{Doctors: 1, Patients: 1, Rooms: 1}) {
		t.Errorf("stats = %+v", st)
	}

	expect(t, do(t, r, http.MethodGet, "/healthz", ""), http.StatusOK)

	w = do(t, r, http.MethodGet, "/metrics", "")
	expect(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "medschedule_test_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestPanicIsCountedAsServerError(t *testing.T) {
	r := setup(t)
	r.GET("/boom", func(c *gin.Context) { panic("handler blew up") })

	w := do(t, r, http.MethodGet, "/boom", "")
	expect(t, w, http.StatusInternalServerError)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("recovered response lost its request id")
	}

	w = do(t, r, http.MethodGet, "/metrics", "")
	expect(t, w, http.StatusOK)
	want := `medschedule_test_http_requests_total{method="GET",path="/boom",status="500"} 1`
	if !strings.Contains(w.Body.String(), want) {
		t.Errorf("metrics output missing %s", want)
	}
}
