package doctor

import "github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"

// Repository persists doctors keyed by their store-assigned id.
// FindByID and DeleteByID return ErrDoctorNotFound when the id is unknown.
type Repository interface {
	domain.Repository[Doctor, int64]
}
