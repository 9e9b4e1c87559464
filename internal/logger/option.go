package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// fixedLevelCore replaces the level check of the wrapped core.
// Entries are written through the wrapped core whatever its own level is,
// so the override can both raise and lower the threshold.
type fixedLevelCore struct {
	zapcore.Core

	// level is the minimum level written through this core.
	level zapcore.Level
}

// Enabled reports whether l passes the fixed level.
func (c *fixedLevelCore) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to ce when the entry passes the fixed level.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *fixedLevelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// With keeps the fixed level on child cores.
//
//nolint:ireturn,nolintlint // zapcore.Core is the interface zap expects.
func (c *fixedLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &fixedLevelCore{
		Core:  c.Core.With(fields),
		level: c.level,
	}
}

// WithLevel is a zap option pinning the logger to lvl, independent of the shared level.
//
//nolint:ireturn,nolintlint // zap.Option is the interface zap expects.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &fixedLevelCore{
			Core:  core,
			level: lvl,
		}
	})
}

// OverrideLevel attaches a copy of the context logger pinned to lvl.
func OverrideLevel(ctx context.Context, lvl zapcore.Level) context.Context {
	return ToContext(ctx, FromContext(ctx).WithOptions(WithLevel(lvl)))
}
