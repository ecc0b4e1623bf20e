// Package state defines shared program state threaded through the reader
// shell via context.Context, following the same pattern as the conversion
// CLI this project grew out of: one struct, carried once, never duplicated
// into every function signature.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bugzmanov/bookokrat/config"
)

type envKey struct{}

// LocalEnv keeps everything the reader process needs in a single place:
// configuration, logging, the debug reporter and the external settings bag.
// It does not hold reader state (that belongs to the EPUB/PDF reader state
// machines and is owned exclusively by the shell).
type LocalEnv struct {
	Cfg      *config.Config
	Rpt      *config.Report
	Log      *zap.Logger
	Settings config.SettingsBag

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
