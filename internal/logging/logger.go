package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.SugaredLogger

// Init builds the process-wide logger. Production gets sampled JSON at info,
// anything else unsampled JSON at debug; LOG_LEVEL overrides either.
func Init(appEnv string) error {
	cfg := zap.NewDevelopmentConfig()
	if appEnv == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(raw)); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	global = logger.Sugar()
	return nil
}

// Close flushes buffered entries. Called once on shutdown.
func Close() error {
	if global == nil {
		return nil
	}
	return global.Sync()
}

// logger lazily falls back to a production logger so packages can log
// before main finishes wiring (tests mostly).
func logger() *zap.SugaredLogger {
	if global == nil {
		l, _ := zap.NewProduction()
		global = l.Sugar()
	}
	return global
}

func Info(msg string, keysAndValues ...interface{}) {
	logger().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	logger().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	logger().Errorw(msg, keysAndValues...)
}
