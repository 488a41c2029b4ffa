package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the duration after which a statement is logged as slow
const DefaultSlowQuery = 200 * time.Millisecond

// GormLogger routes GORM statements to zap, tagged with the request and
// actor of the calling context. Record-not-found is dropped by default:
// scoped lookups outside the caller's zones miss routinely.
type GormLogger struct {
	base         *zap.Logger
	level        gormlogger.LogLevel
	slow         time.Duration
	keepNotFound bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the slow statement threshold. Zero disables it.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slow = d }
}

// WithIgnoreRecordNotFoundError toggles logging of record-not-found errors
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) { l.keepNotFound = !ignore }
}

// NewGormLogger creates a GORM logger writing to zl
func NewGormLogger(zl *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{base: zl.Named("gorm"), level: level, slow: DefaultSlowQuery}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// scoped attaches the request, actor and trace of ctx
func (l *GormLogger) scoped(ctx context.Context) *zap.Logger {
	zl := l.base
	if id := GetRequestID(ctx); id != "" {
		zl = zl.With(zap.String("request_id", id))
	}
	if id := GetActorID(ctx); id != "" {
		zl = zl.With(zap.String("actor_id", id))
	}
	return WithTraceContext(ctx, zl)
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.scoped(ctx).Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.scoped(ctx).Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.scoped(ctx).Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement. Failures log at error, slow statements
// at warn and everything else at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	notFound := !l.keepNotFound && errors.Is(err, gormlogger.ErrRecordNotFound)
	if l.level <= gormlogger.Silent || notFound {
		return
	}
	failed := err != nil && l.level >= gormlogger.Error
	elapsed := time.Since(begin)
	slow := l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn
	if !failed && !slow && l.level < gormlogger.Info {
		return
	}

	stmt, rows := fc()
	fields := []zap.Field{
		zap.String("op", statementVerb(stmt)),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", stmt),
	}
	zl := l.scoped(ctx)
	switch {
	case failed:
		zl.Error("sql failed", append(fields, zap.Error(err))...)
	case slow:
		zl.Warn("slow sql", append(fields, zap.Duration("threshold", l.slow))...)
	default:
		zl.Debug("sql", fields...)
	}
}

func statementVerb(stmt string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(stmt), " ")
	return strings.ToLower(verb)
}

// MapGormLogLevel maps the application log level to a GORM level. Unknown
// values keep slow statements and errors only.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	}
	return gormlogger.Warn
}
