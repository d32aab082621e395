package indexer

import "go.uber.org/zap"

// Logger is the minimal structured-logging surface the indexer needs. The
// core logs only through a Logger the caller supplies, and does so whenever
// one is set (Config.Verbose is not consulted); the zero value (nil) is a
// safe no-op.
type Logger interface {
	Debugw(msg string, kv ...interface{})
	Infow(msg string, kv ...interface{})
	Warnw(msg string, kv ...interface{})
}

// NewZapLogger adapts a *zap.SugaredLogger to Logger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	if l == nil {
		return nil
	}
	return zapLogger{l}
}

type zapLogger struct{ s *zap.SugaredLogger }

func (z zapLogger) Debugw(msg string, kv ...interface{}) { z.s.Debugw(msg, kv...) }
func (z zapLogger) Infow(msg string, kv ...interface{})  { z.s.Infow(msg, kv...) }
func (z zapLogger) Warnw(msg string, kv ...interface{})  { z.s.Warnw(msg, kv...) }

func debugw(l Logger, msg string, kv ...interface{}) {
	if l != nil {
		l.Debugw(msg, kv...)
	}
}

func infow(l Logger, msg string, kv ...interface{}) {
	if l != nil {
		l.Infow(msg, kv...)
	}
}
