package appointment

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/jsontime"
)

// Appointment binds a doctor, a patient and a room to [StartsAt, FinishesAt).
// The references are ids only; the referenced records have their own lifecycle.
type Appointment struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	DoctorID  int64  `gorm:"column:doctor_id;not null;index" json:"doctorId"`
	PatientID int64  `gorm:"column:patient_id;not null;index" json:"patientId"`
	RoomName  string `gorm:"column:room_name;type:varchar(100);not null;index" json:"roomName"`

	StartsAt   jsontime.Minute `gorm:"column:starts_at;not null;index" json:"startsAt"`
	FinishesAt jsontime.Minute `gorm:"column:finishes_at;not null" json:"finishesAt"`

	// Resolved on read-by-id; never persisted.
	Doctor  *doctor.Doctor   `gorm:"-" json:"doctor,omitempty"`
	Patient *patient.Patient `gorm:"-" json:"patient,omitempty"`
	Room    *room.Room       `gorm:"-" json:"room,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// ValidInterval reports whether StartsAt is strictly before FinishesAt.
func (a *Appointment) ValidInterval() bool {
	return a.StartsAt.Before(a.FinishesAt)
}

// Duration is only meaningful for a valid interval.
func (a *Appointment) Duration() time.Duration {
	return a.FinishesAt.Sub(a.StartsAt.Time)
}

// Overlaps reports whether the two appointments share any instant. Intervals
// are half-open, so one finishing exactly when the other starts is not a
// conflict. Doctor, patient and room are ignored: the check is global.
func (a *Appointment) Overlaps(other *Appointment) bool {
	return Overlaps(a.StartsAt.Time, a.FinishesAt.Time, other.StartsAt.Time, other.FinishesAt.Time)
}

// Overlaps is the interval predicate behind Appointment.Overlaps.
// It is symmetric in its two intervals.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// References returns a copy with the resolved records stripped, the shape
// that is persisted.
func (a *Appointment) References() Appointment {
	out := *a
	out.Doctor, out.Patient, out.Room = nil, nil, nil
	return out
}
