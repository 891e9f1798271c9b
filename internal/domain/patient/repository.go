package patient

import "github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"

type Repository interface {
	// FindByID and DeleteByID return ErrPatientNotFound for unknown ids.
	domain.Repository[Patient, int64]
}
