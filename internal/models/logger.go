package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gorm_logger "gorm.io/gorm/logger"
)

// slowQueryThreshold is the duration after which queries are logged as warnings.
const slowQueryThreshold = 200 * time.Millisecond

// expectedErrors are returned to callers that handle them, e.g. a lookup for
// the allocation entry of a month that does not exist yet or a conflicting
// insert that is retried. They are not query errors.
var expectedErrors = []error{
	ErrResourceNotFound,
	gorm_logger.ErrRecordNotFound,
	ErrConcurrentAllocationConflict,
	ErrAllocationConfigNotUnique,
	ErrHouseNameNotUnique,
	ErrCategoryNameNotUnique,
	ErrUnknownReference,
	ErrReferenceInUse,
}

func isExpected(err error) bool {
	for _, e := range expectedErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// logger implements gorm's logger interface on top of zerolog.
type logger struct {
	Logger zerolog.Logger
	level  gorm_logger.LogLevel
}

func newLogger(l zerolog.Logger) *logger {
	return &logger{
		Logger: l,
		level:  gorm_logger.Info,
	}
}

func (l *logger) LogMode(level gorm_logger.LogLevel) gorm_logger.Interface {
	n := *l
	n.level = level
	return &n
}

func (l *logger) Info(_ context.Context, s string, args ...interface{}) {
	if l.level >= gorm_logger.Info {
		l.Logger.Info().Msgf(s, args...)
	}
}

func (l *logger) Warn(_ context.Context, s string, args ...interface{}) {
	if l.level >= gorm_logger.Warn {
		l.Logger.Warn().Msgf(s, args...)
	}
}

func (l *logger) Error(_ context.Context, s string, args ...interface{}) {
	if l.level >= gorm_logger.Error {
		l.Logger.Error().Msgf(s, args...)
	}
}

func (l *logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gorm_logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := map[string]interface{}{
		"sql":      sql,
		"rows":     rows,
		"duration": elapsed,
	}

	if err != nil && isExpected(err) {
		l.Logger.Debug().Err(err).Fields(fields).Msg("[GORM] query rejected")
		return
	}

	if err != nil {
		l.Logger.Error().Err(err).Fields(fields).Msg("[GORM] query error")
		return
	}

	if elapsed > slowQueryThreshold {
		l.Logger.Warn().Fields(fields).Msg("[GORM] slow query")
		return
	}

	l.Logger.Debug().Fields(fields).Msg("[GORM] query")
}
