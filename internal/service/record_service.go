package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"go.uber.org/zap"
)

// RecordService is the pass-through service shared by every aggregate:
// list, get, create, delete, delete-all and count over one repository.
type RecordService[T any, K comparable] struct {
	resource string
	repo     domain.Repository[T, K]
	keyOf    func(*T) K
	validate func(*T) error
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewRecordService[T any, K comparable](
	resource string,
	repo domain.Repository[T, K],
	keyOf func(*T) K,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *RecordService[T, K] {
	return &RecordService[T, K]{
		resource: resource,
		repo:     repo,
		keyOf:    keyOf,
		auditSvc: auditSvc,
		metrics:  m,
		log:      log.With(zap.String("resource", resource)),
	}
}

func NewDoctorService(repo doctor.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *RecordService[doctor.Doctor, int64] {
	return NewRecordService[doctor.Doctor, int64]("doctor", repo,
		func(d *doctor.Doctor) int64 { return d.ID }, auditSvc, m, log)
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *RecordService[patient.Patient, int64] {
	return NewRecordService[patient.Patient, int64]("patient", repo,
		func(p *patient.Patient) int64 { return p.ID }, auditSvc, m, log)
}

// NewRoomService requires a non-blank room name since it is the room's key.
func NewRoomService(repo room.Repository, auditSvc *AuditService, m *metrics.Collector, log *zap.Logger) *RecordService[room.Room, string] {
	svc := NewRecordService[room.Room, string]("room", repo,
		func(r *room.Room) string { return r.RoomName }, auditSvc, m, log)
	svc.validate = func(r *room.Room) error {
		r.Normalize()
		if r.RoomName == "" {
			return room.ErrRoomNameRequired
		}
		return nil
	}
	return svc
}

func (s *RecordService[T, K]) List(ctx context.Context) ([]*T, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to list records", zap.Error(err))
		return nil, fmt.Errorf("listing %ss: %w", s.resource, err)
	}
	return rows, nil
}

func (s *RecordService[T, K]) Get(ctx context.Context, id K) (*T, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RecordService[T, K]) Create(ctx context.Context, entity *T) (*T, error) {
	if s.validate != nil {
		if err := s.validate(entity); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, entity); err != nil {
		s.log.Error("failed to save record", zap.Error(err))
		return nil, fmt.Errorf("creating %s: %w", s.resource, err)
	}

	key := fmt.Sprint(s.keyOf(entity))
	s.audit(ctx, domain.ActionCreate, key, "")
	s.log.Info("record created", zap.String("key", key))
	return entity, nil
}

// Delete reports the aggregate's not-found error when id is unknown.
func (s *RecordService[T, K]) Delete(ctx context.Context, id K) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if !isNotFound(err) {
			s.log.Error("failed to delete record", zap.Error(err))
		}
		return err
	}

	s.metrics.RecordsDeletedTotal.WithLabelValues(s.resource).Inc()
	s.audit(ctx, domain.ActionDelete, fmt.Sprint(id), "")
	return nil
}

// DeleteAll succeeds on an empty store.
func (s *RecordService[T, K]) DeleteAll(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting %ss: %w", s.resource, err)
	}
	if err := s.repo.DeleteAll(ctx); err != nil {
		s.log.Error("failed to delete all records", zap.Error(err))
		return fmt.Errorf("deleting all %ss: %w", s.resource, err)
	}

	s.metrics.RecordsDeletedTotal.WithLabelValues(s.resource).Add(float64(n))
	s.audit(ctx, domain.ActionDeleteAll, "", "")
	s.log.Info("all records deleted", zap.Int64("count", n))
	return nil
}

func (s *RecordService[T, K]) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting %ss: %w", s.resource, err)
	}
	return n, nil
}

func (s *RecordService[T, K]) audit(ctx context.Context, action domain.AuditAction, key, changes string) {
	if s.auditSvc == nil {
		return
	}
	s.auditSvc.LogAsync(ctx, action, AuditEntry{
		ResourceType: s.resource,
		ResourceID:   key,
		Changes:      changes,
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, doctor.ErrDoctorNotFound) ||
		errors.Is(err, patient.ErrPatientNotFound) ||
		errors.Is(err, room.ErrRoomNotFound) ||
		errors.Is(err, appointment.ErrAppointmentNotFound)
}
