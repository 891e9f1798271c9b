// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/config"
)

// New returns a logger named after the service, tagged with its version and
// environment. OutputPath may list several sinks separated by commas.
// Production loggers sample repeated entries.
func New(cfg config.LogConfig, app config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	// the sinks live as long as the process
	sink, _, err := zap.Open(outputs(cfg.OutputPath)...)
	if err != nil {
		return nil, fmt.Errorf("opening log output %q: %w", cfg.OutputPath, err)
	}

	core := zapcore.NewCore(encoder(cfg.Format), sink, zap.NewAtomicLevelAt(level))
	if app.IsProduction() {
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 100)
	}

	log := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
		zap.Fields(
			zap.String("version", app.Version),
			zap.String("env", app.Environment),
		),
	)
	return log.Named(app.Name), nil
}

func encoder(format string) zapcore.Encoder {
	if format != "json" {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}

	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "ts"
	ec.NameKey = "service"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(ec)
}

func outputs(raw string) []string {
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return []string{"stdout"}
	}
	return paths
}
