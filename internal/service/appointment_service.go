package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/dmehra2102/prod-golang-projects/medschedule/internal/service"

// AppointmentService runs the conflict check in front of the appointment
// store. List and the delete operations come from the embedded RecordService.
type AppointmentService struct {
	*RecordService[appointment.Appointment, int64]

	repo     appointment.Repository
	doctors  doctor.Repository
	patients patient.Repository
	rooms    room.Repository
	metrics  *metrics.Collector
	tracer   trace.Tracer
	log      *zap.Logger

	// mu makes scan-then-save atomic for this process.
	mu sync.Mutex
}

func NewAppointmentService(
	repo appointment.Repository,
	doctors doctor.Repository,
	patients patient.Repository,
	rooms room.Repository,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		RecordService: NewRecordService[appointment.Appointment, int64]("appointment", repo,
			func(a *appointment.Appointment) int64 { return a.ID }, auditSvc, m, log),
		repo:     repo,
		doctors:  doctors,
		patients: patients,
		rooms:    rooms,
		metrics:  m,
		tracer:   otel.Tracer(tracerName),
		log:      log.With(zap.String("resource", "appointment")),
	}
}

// Create validates the interval and references, then saves the appointment
// unless it overlaps any stored appointment. The returned record carries the
// assigned id.
func (s *AppointmentService) Create(ctx context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "AppointmentService.Create")
	defer span.End()

	candidate := a.References()

	// ── Input validation ─────────────────────────────────────────────────
	if !candidate.ValidInterval() {
		return nil, s.reject(span, metrics.OutcomeInvalidInterval, appointment.ErrInvalidInterval)
	}
	if err := s.verifyReferences(ctx, &candidate); err != nil {
		if errors.Is(err, appointment.ErrUnknownReference) {
			return nil, s.reject(span, metrics.OutcomeUnknownReference, err)
		}
		return nil, s.fail(span, err)
	}

	// ── Conflict scan and save ───────────────────────────────────────────
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("checking conflicts: %w", err))
	}
	s.metrics.OverlapScanSize.Observe(float64(len(existing)))
	span.SetAttributes(attribute.Int("appointments.scanned", len(existing)))

	for _, other := range existing {
		if candidate.Overlaps(other) {
			s.log.Info("appointment rejected: overlap",
				zap.Int64("conflicts_with", other.ID),
				zap.Stringer("starts_at", candidate.StartsAt),
				zap.Stringer("finishes_at", candidate.FinishesAt),
			)
			return nil, s.reject(span, metrics.OutcomeConflict, appointment.ErrAppointmentConflict)
		}
	}

	if err := s.repo.Save(ctx, &candidate); err != nil {
		// the database may still refuse an overlap written by another process
		if errors.Is(err, appointment.ErrAppointmentConflict) || errors.Is(err, appointment.ErrInvalidInterval) {
			outcome := metrics.OutcomeConflict
			if errors.Is(err, appointment.ErrInvalidInterval) {
				outcome = metrics.OutcomeInvalidInterval
			}
			return nil, s.reject(span, outcome, err)
		}
		return nil, s.fail(span, fmt.Errorf("creating appointment: %w", err))
	}

	s.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeCreated).Inc()
	span.SetAttributes(attribute.Int64("appointment.id", candidate.ID))

	s.audit(ctx, domain.ActionCreate, strconv.FormatInt(candidate.ID, 10),
		fmt.Sprintf(`{"doctorId":%d,"patientId":%d,"roomName":%q,"startsAt":%q,"finishesAt":%q}`,
			candidate.DoctorID, candidate.PatientID, candidate.RoomName, candidate.StartsAt, candidate.FinishesAt))

	s.log.Info("appointment created",
		zap.Int64("appointment_id", candidate.ID),
		zap.Int64("doctor_id", candidate.DoctorID),
		zap.Int64("patient_id", candidate.PatientID),
		zap.String("room_name", candidate.RoomName),
		zap.Duration("duration", candidate.Duration()),
	)

	return &candidate, nil
}

// Get loads the appointment and resolves its doctor, patient and room.
// References that no longer resolve are left nil.
func (s *AppointmentService) Get(ctx context.Context, id int64) (*appointment.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Doctor, err = resolve(ctx, s.doctors.FindByID, a.DoctorID, doctor.ErrDoctorNotFound); err != nil {
		return nil, fmt.Errorf("resolving doctor: %w", err)
	}
	if a.Patient, err = resolve(ctx, s.patients.FindByID, a.PatientID, patient.ErrPatientNotFound); err != nil {
		return nil, fmt.Errorf("resolving patient: %w", err)
	}
	if a.Room, err = resolve(ctx, s.rooms.FindByID, a.RoomName, room.ErrRoomNotFound); err != nil {
		return nil, fmt.Errorf("resolving room: %w", err)
	}
	return a, nil
}

func (s *AppointmentService) verifyReferences(ctx context.Context, a *appointment.Appointment) error {
	if _, err := s.doctors.FindByID(ctx, a.DoctorID); err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			return fmt.Errorf("%w: doctor %d", appointment.ErrUnknownReference, a.DoctorID)
		}
		return fmt.Errorf("verifying doctor: %w", err)
	}
	if _, err := s.patients.FindByID(ctx, a.PatientID); err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return fmt.Errorf("%w: patient %d", appointment.ErrUnknownReference, a.PatientID)
		}
		return fmt.Errorf("verifying patient: %w", err)
	}
	if _, err := s.rooms.FindByID(ctx, a.RoomName); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return fmt.Errorf("%w: room %q", appointment.ErrUnknownReference, a.RoomName)
		}
		return fmt.Errorf("verifying room: %w", err)
	}
	return nil
}

func (s *AppointmentService) reject(span trace.Span, outcome string, err error) error {
	s.metrics.AppointmentsTotal.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.String("appointment.outcome", outcome))
	return err
}

func (s *AppointmentService) fail(span trace.Span, err error) error {
	s.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.log.Error("appointment creation failed", zap.Error(err))
	return err
}

func resolve[T any, K comparable](ctx context.Context, find func(context.Context, K) (*T, error), id K, notFound error) (*T, error) {
	v, err := find(ctx, id)
	if errors.Is(err, notFound) {
		return nil, nil
	}
	return v, err
}
