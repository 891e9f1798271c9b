package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: message, Code: code})
}

// respondServiceError maps domain errors to status codes. Anything it does
// not recognise is a store failure and becomes a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())

	case errors.Is(err, appointment.ErrAppointmentConflict):
		respondError(c, http.StatusNotAcceptable, "APPOINTMENT_CONFLICT", err.Error())

	case errors.Is(err, appointment.ErrInvalidInterval):
		respondError(c, http.StatusBadRequest, "INVALID_INTERVAL", err.Error())

	case errors.Is(err, appointment.ErrUnknownReference):
		respondError(c, http.StatusBadRequest, "UNKNOWN_REFERENCE", err.Error())

	case errors.Is(err, room.ErrRoomNameRequired):
		respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())

	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "", "internal server error")
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request: "+err.Error())
		return false
	}
	return true
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func parseString(raw string) (string, error) {
	return raw, nil
}
