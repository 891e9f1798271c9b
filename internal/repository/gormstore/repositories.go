package gormstore

import (
	"context"
	"errors"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgExclusionViolation = "23P01"
	pgCheckViolation     = "23514"
)

var (
	_ doctor.Repository      = (*Table[doctor.Doctor, int64])(nil)
	_ patient.Repository     = (*Table[patient.Patient, int64])(nil)
	_ room.Repository        = (*Table[room.Room, string])(nil)
	_ appointment.Repository = (*AppointmentRepository)(nil)
)

func NewDoctorRepository(db *gorm.DB, m *metrics.Collector) *Table[doctor.Doctor, int64] {
	return NewTable[doctor.Doctor, int64](db, doctor.Doctor{}.TableName(), "id",
		func(d *doctor.Doctor) int64 { return d.ID }, doctor.ErrDoctorNotFound, m).Serial()
}

func NewPatientRepository(db *gorm.DB, m *metrics.Collector) *Table[patient.Patient, int64] {
	return NewTable[patient.Patient, int64](db, patient.Patient{}.TableName(), "id",
		func(p *patient.Patient) int64 { return p.ID }, patient.ErrPatientNotFound, m).Serial()
}

func NewRoomRepository(db *gorm.DB, m *metrics.Collector) *Table[room.Room, string] {
	return NewTable[room.Room, string](db, room.Room{}.TableName(), "room_name",
		func(r *room.Room) string { return r.RoomName }, room.ErrRoomNotFound, m)
}

type AppointmentRepository struct {
	*Table[appointment.Appointment, int64]
}

func NewAppointmentRepository(db *gorm.DB, m *metrics.Collector) *AppointmentRepository {
	return &AppointmentRepository{
		Table: NewTable[appointment.Appointment, int64](db, appointment.Appointment{}.TableName(), "id",
			func(a *appointment.Appointment) int64 { return a.ID }, appointment.ErrAppointmentNotFound, m).Serial(),
	}
}

// Save translates the postgres constraint violations installed by migrate
// into the domain errors the service already reports.
func (r *AppointmentRepository) Save(ctx context.Context, a *appointment.Appointment) error {
	err := r.Table.Save(ctx, a)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return appointment.ErrAppointmentConflict
		case pgCheckViolation:
			return appointment.ErrInvalidInterval
		}
	}
	return err
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
