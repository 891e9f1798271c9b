package room

import "github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"

// Repository is keyed by room name. FindByID is find-by-name.
type Repository interface {
	domain.Repository[Room, string]
}
