// Package logger provides structured logging using Zap.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init initializes the global logger for the given environment.
// "production" uses a JSON encoder, "test" discards everything, and all
// other environments get a human-readable console encoder. LOG_LEVEL
// (debug, info, warn, error) overrides the default level.
func Init(env string) {
	once.Do(func() {
		var base *zap.Logger
		var err error

		switch env {
		case "test":
			base = zap.NewNop()
		case "production":
			cfg := zap.NewProductionConfig()
			applyLevel(&cfg)
			base, err = cfg.Build()
		default:
			cfg := zap.NewDevelopmentConfig()
			applyLevel(&cfg)
			base, err = cfg.Build()
		}

		if err != nil {
			// Fallback to nop logger if initialization fails.
			base = zap.NewNop()
		}

		sugar = base.Sugar()
	})
}

func applyLevel(cfg *zap.Config) {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		return
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(raw)); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	Init("development")
	return sugar
}

// Named returns a child logger tagged with the given component name.
func Named(component string) *zap.SugaredLogger {
	return Get().Named(component)
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
