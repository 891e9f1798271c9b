package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/doctor"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain/room"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured SQL database. Queries slower than
// cfg.SlowQueryThreshold are logged through log at warn level.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.New(zap.NewStdLog(log.Named("gorm")), gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		PrepareStmt: true,
		// Appointments reference doctors, patients and rooms by id only;
		// those records can be deleted independently.
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{DSN: cfg.DSN()})
	case config.DriverMySQL:
		dialector = mysql.New(mysql.Config{DSN: cfg.DSN()})
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations", zap.String("dialect", db.Dialector.Name()))
	start := time.Now()

	models := []any{
		&domain.AuditLog{},
		&doctor.Doctor{},
		&patient.Patient{},
		&room.Room{},
		&appointment.Appointment{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := createConstraints(db, log); err != nil {
			return fmt.Errorf("creating constraints: %w", err)
		}
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

type constraint struct {
	name  string
	query string
}

// constraints make postgres reject overlapping appointments itself, so the
// invariant holds across server processes. tstzrange is half-open by default:
// an appointment may start exactly when another finishes.
var constraints = []constraint{
	{
		name: "appointments_no_overlap",
		query: `DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap') THEN
		ALTER TABLE appointments ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (tstzrange(starts_at, finishes_at) WITH &&);
	END IF;
END $$`,
	},
	{
		name: "appointments_valid_interval",
		query: `DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_valid_interval') THEN
		ALTER TABLE appointments ADD CONSTRAINT appointments_valid_interval
			CHECK (starts_at < finishes_at);
	END IF;
END $$`,
	},
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func createConstraints(db *gorm.DB, log *zap.Logger) error {
	// DO blocks bypass gorm's prepared statement cache.
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	ensureConstraints(context.Background(), sqlDB, log)
	return nil
}

// ensureConstraints installs each constraint it can. Pre-existing overlapping
// rows make the exclusion constraint impossible to add; new writes are still
// checked by the service, so a failure is logged rather than returned.
func ensureConstraints(ctx context.Context, db execer, log *zap.Logger) (installed int) {
	for _, c := range constraints {
		if _, err := db.ExecContext(ctx, c.query); err != nil {
			log.Warn("constraint not installed", zap.String("constraint", c.name), zap.Error(err))
			continue
		}
		installed++
		log.Debug("constraint ensured", zap.String("constraint", c.name))
	}
	return installed
}
