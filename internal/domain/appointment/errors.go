package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentConflict = errors.New("appointment overlaps an existing appointment")
	ErrInvalidInterval     = errors.New("appointment must start strictly before it finishes")
	ErrUnknownReference    = errors.New("appointment references an unknown record")
)
