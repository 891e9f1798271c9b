package memory

import (
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
)

var (
	_ doctor.Repository      = (*Table[doctor.Doctor, int64])(nil)
	_ patient.Repository     = (*Table[patient.Patient, int64])(nil)
	_ room.Repository        = (*Table[room.Room, string])(nil)
	_ appointment.Repository = (*Table[appointment.Appointment, int64])(nil)
)

func NewDoctorRepository() *Table[doctor.Doctor, int64] {
	return NewTable(
		func(d *doctor.Doctor) int64 { return d.ID },
		func(d *doctor.Doctor, id int64) { d.ID = id },
		doctor.ErrDoctorNotFound,
	)
}

func NewPatientRepository() *Table[patient.Patient, int64] {
	return NewTable(
		func(p *patient.Patient) int64 { return p.ID },
		func(p *patient.Patient, id int64) { p.ID = id },
		patient.ErrPatientNotFound,
	)
}

func NewRoomRepository() *Table[room.Room, string] {
	return NewTable[room.Room, string](
		func(r *room.Room) string { return r.RoomName },
		nil,
		room.ErrRoomNotFound,
	)
}

// NewAppointmentRepository stores appointments without their resolved
// doctor/patient/room snapshots.
func NewAppointmentRepository() *AppointmentTable {
	return &AppointmentTable{Table: NewTable(
		func(a *appointment.Appointment) int64 { return a.ID },
		func(a *appointment.Appointment, id int64) { a.ID = id },
		appointment.ErrAppointmentNotFound,
	)}
}
