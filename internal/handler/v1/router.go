package v1

import (
	"context"
	"net/http"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/handler/middleware"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Doctors      RecordService[doctor.Doctor, int64]
	Patients     RecordService[patient.Patient, int64]
	Rooms        RecordService[room.Room, string]
	Appointments RecordService[appointment.Appointment, int64]
	Stats        *service.StatsService
}

// NewRouter wires middleware and every route. ctx bounds background work
// owned by the router, such as the rate limiter's sweeper.
func NewRouter(ctx context.Context, cfg *config.Config, svcs Services, m *metrics.Collector, log *zap.Logger) *gin.Engine {
	r := gin.New()
	// Recovery sits inside the logging and metrics middleware so a panic is
	// still access-logged and counted as a 500.
	r.Use(
		middleware.RequestID(),
		middleware.Tracing(cfg.Tracing.ServiceName),
		middleware.Logger(log),
		middleware.Metrics(m),
		middleware.Recovery(log),
		middleware.CORS(cfg.CORS),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(middleware.NewRateLimiter(ctx, cfg.RateLimit)))

	NewRecordHandler(svcs.Doctors, "id", parseInt64, http.StatusCreated).Register(api, "doctors", "doctor")
	NewRecordHandler(svcs.Patients, "id", parseInt64, http.StatusCreated).Register(api, "patients", "patient")
	NewRecordHandler(svcs.Rooms, "roomName", parseString, http.StatusCreated).Register(api, "rooms", "room")
	NewRecordHandler(svcs.Appointments, "id", parseInt64, http.StatusOK).Register(api, "appointments", "appointment")

	api.GET("/stats", func(c *gin.Context) {
		st, err := svcs.Stats.Snapshot(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	})

	return r
}
