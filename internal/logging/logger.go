// Package logging builds the structured logger used by the precsim CLI.
// Library packages never log; they return advisories and errors which the
// command layer reports through this logger.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/precsim/internal/precision"
)

// Logger is a zap logger scoped to an analysis.
type Logger struct {
	*zap.Logger
}

// Config selects the encoder and threshold. An empty Level means info in
// production and debug in development; an empty Output means stderr, so
// stdout stays free for analysis results.
type Config struct {
	Level       string
	Development bool
	Output      []string
}

// Production logs json lines at level.
func Production(level string) Config {
	return Config{Level: level}
}

// Development logs colored console lines at level.
func Development(level string) Config {
	return Config{Level: level, Development: true}
}

// FromEnv picks Production or Development from the PRECSIM_LOG_DEV flag
// and applies PRECSIM_LOG_LEVEL on top.
func FromEnv(level string, dev bool) (*Logger, error) {
	if dev {
		return New(Development(level))
	}
	return New(Production(level))
}

func New(cfg Config) (*Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Sampling = nil
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if cfg.Level != "" {
		level, err := parseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	zc.OutputPaths = []string{"stderr"}
	if len(cfg.Output) > 0 {
		zc.OutputPaths = cfg.Output
	}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Analysis returns a child logger tagging every entry with the analysis name.
func (l *Logger) Analysis(name string) *Logger {
	return &Logger{Logger: l.With(zap.String("analysis", name))}
}

// Advisories logs each advisory at warn level with its code.
func (l *Logger) Advisories(advs []precision.Advisory) {
	for _, a := range advs {
		l.Warn(a.Message, zap.String("code", string(a.Code)))
	}
}

func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}
