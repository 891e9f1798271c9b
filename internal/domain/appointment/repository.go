package appointment

import "github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"

type Repository interface {
	// FindByID and DeleteByID return ErrAppointmentNotFound for unknown ids.
	// Save may return ErrAppointmentConflict when the store itself enforces
	// non-overlap (see the postgres exclusion constraint).
	domain.Repository[Appointment, int64]
}
