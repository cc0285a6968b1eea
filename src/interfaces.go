package src

import "go.uber.org/zap"

// Logger is the logging surface shared across the project. A
// *zap.SugaredLogger satisfies it directly.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Info(args ...any)
	Error(args ...any)
	Sync() error
}

var _ Logger = (*zap.SugaredLogger)(nil)

func NoopLogger() Logger {
	return zap.NewNop().Sugar()
}
