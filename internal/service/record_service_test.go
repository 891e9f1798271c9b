package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"
)

func newCollector() *metrics.Collector {
	return metrics.NewCollector("medschedule_test", prometheus.NewRegistry())
}

func TestDoctorRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewDoctorService(memory.NewDoctorRepository(), nil, newCollector(), zaptest.NewLogger(t))

	in := &doctor.Doctor{FirstName: "Perla", LastName: "Amalia", Age: 24, Email: "p.amalia@hospital.accv.es"}
	created, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if *got != *created {
		t.Errorf("got %+v, want %+v", got, created)
	}
}

func TestDoctorAgeIsNotEnforced(t *testing.T) {
	svc := NewDoctorService(memory.NewDoctorRepository(), nil, newCollector(), zaptest.NewLogger(t))

	if _, err := svc.Create(context.Background(), &doctor.Doctor{FirstName: "Young", Age: doctor.MinimumAge - 1}); err != nil {
		t.Errorf("create: %v", err)
	}
}

func TestRoomServiceValidatesName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"plain", "Psychiatry", "Psychiatry", nil},
		{"trimmed", "  Oncology ", "Oncology", nil},
		{"blank", "   ", "", room.ErrRoomNameRequired},
		{"empty", "", "", room.ErrRoomNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRoomService(memory.NewRoomRepository(), nil, newCollector(), zaptest.NewLogger(t))

			got, err := svc.Create(context.Background(), &room.Room{RoomName: tt.in})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got.RoomName != tt.want {
				t.Errorf("room name = %q, want %q", got.RoomName, tt.want)
			}
		})
	}
}

func TestDeleteChecksExistence(t *testing.T) {
	ctx := context.Background()
	m := newCollector()
	svc := NewRoomService(memory.NewRoomRepository(), nil, m, zaptest.NewLogger(t))

	if err := svc.Delete(ctx, "Psychiatry"); !errors.Is(err, room.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
	if _, err := svc.Create(ctx, &room.Room{RoomName: "Psychiatry"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, "Psychiatry"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "Psychiatry"); !errors.Is(err, room.ErrRoomNotFound) {
		t.Errorf("get after delete err = %v", err)
	}
	if v := testutil.ToFloat64(m.RecordsDeletedTotal.WithLabelValues("room")); v != 1 {
		t.Errorf("deleted metric = %v, want 1", v)
	}
}

func TestDeleteAllRecordsAuditTrail(t *testing.T) {
	ctx := context.Background()
	m := newCollector()
	log := zaptest.NewLogger(t)
	auditRepo := memory.NewAuditRepository()
	auditSvc := NewAuditService(auditRepo, 10, m, log)
	svc := NewDoctorService(memory.NewDoctorRepository(), auditSvc, m, log)

	for _, name := range []string{"John", "Perla"} {
		if _, err := svc.Create(ctx, &doctor.Doctor{FirstName: name}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := svc.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all: %v", err)
	}
	if err := svc.DeleteAll(ctx); err != nil {
		t.Fatalf("second delete all: %v", err)
	}
	auditSvc.Shutdown(time.Second)

	if n, _ := svc.Count(ctx); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if v := testutil.ToFloat64(m.RecordsDeletedTotal.WithLabelValues("doctor")); v != 2 {
		t.Errorf("deleted metric = %v, want 2", v)
	}

	var actions []domain.AuditAction
	for _, e := range auditRepo.Entries() {
		actions = append(actions, e.Action)
	}
	want := []domain.AuditAction{domain.ActionCreate, domain.ActionCreate, domain.ActionDeleteAll, domain.ActionDeleteAll}
	if len(actions) != len(want) {
		t.Fatalf("actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("actions[%d] = %s, want %s", i, actions[i], want[i])
		}
	}
}

func TestAuditServiceDropsWhenStopped(t *testing.T) {
	m := newCollector()
	auditSvc := NewAuditService(memory.NewAuditRepository(), 1, m, zaptest.NewLogger(t))
	auditSvc.Shutdown(time.Second)

	auditSvc.LogAsync(context.Background(), domain.ActionCreate, AuditEntry{ResourceType: "doctor", ResourceID: "1"})

	if v := testutil.ToFloat64(m.AuditBufferDropped); v != 1 {
		t.Errorf("dropped = %v, want 1", v)
	}
}

func TestStatsSnapshot(t *testing.T) {
	ctx := context.Background()
	doctors := memory.NewDoctorRepository()
	rooms := memory.NewRoomRepository()
	_ = doctors.Save(ctx, &doctor.Doctor{FirstName: "John"})
	_ = rooms.Save(ctx, &room.Room{RoomName: "Psychiatry"})
	_ = rooms.Save(ctx, &room.Room{RoomName: "Oncology"})

	st, err := NewStatsService(doctors, memory.NewPatientRepository(), rooms, memory.NewAppointmentRepository()).Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := Stats{Doctors: 1, Patients: 0, Rooms: 2, Appointments: 0}
	if *st != want {
		t.Errorf("stats = %+v, want %+v", *st, want)
	}
}
