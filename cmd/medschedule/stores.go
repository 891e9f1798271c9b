package main

import (
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/repository/gormstore"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/service"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"go.uber.org/zap"
)

type stores struct {
	doctors      doctor.Repository
	patients     patient.Repository
	rooms        room.Repository
	appointments appointment.Repository
	audit        service.AuditRepository
}

// openStores picks the record store for cfg.Database.Driver. SQL stores are
// migrated first unless DB_AUTO_MIGRATE is off.
func openStores(cfg *config.Config, m *metrics.Collector, log *zap.Logger) (*stores, func(), error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using in-memory store; data is lost on restart")
		return &stores{
			doctors:      memory.NewDoctorRepository(),
			patients:     memory.NewPatientRepository(),
			rooms:        memory.NewRoomRepository(),
			appointments: memory.NewAppointmentRepository(),
			audit:        memory.NewAuditRepository(),
		}, func() {}, nil
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, log); err != nil {
			closeDB()
			return nil, nil, err
		}
	}

	return &stores{
		doctors:      gormstore.NewDoctorRepository(db, m),
		patients:     gormstore.NewPatientRepository(db, m),
		rooms:        gormstore.NewRoomRepository(db, m),
		appointments: gormstore.NewAppointmentRepository(db, m),
		audit:        gormstore.NewAuditRepository(db),
	}, closeDB, nil
}
