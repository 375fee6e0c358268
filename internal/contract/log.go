package contract

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   = zap.NewNop()
	loggerMu sync.RWMutex
)

// InitLogger builds the process logger. Debug output is enabled when verbose is set.
func InitLogger(verbose bool) error {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the process logger. Tests use it to install zap.NewNop or an observer.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = Logger().Sync()
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger().Error(msg, zap.Error(err))
	SyncLogger()
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	Logger().Warn(msg, zap.Error(err))
}
