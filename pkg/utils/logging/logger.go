package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogsDir is where InitLogger writes its JSON log files
const LogsDir = "logs"

// InitLogger builds a logger that writes human-readable lines to stderr and
// JSON lines to logs/group-allocation[_<env>]_<timestamp>.log. The console
// shows Info and above, or Debug and above when verbose is set. The file
// always records Debug.
func InitLogger(env string, verbose bool) (*zap.Logger, error) {
	if err := os.MkdirAll(LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.OpenFile(logFileName(env, time.Now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	consoleLevel := zapcore.InfoLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}

	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder(), zapcore.Lock(os.Stderr), consoleLevel),
		zapcore.NewCore(fileEncoder(), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// The solver prints its improvement grid on stdout, so console logs go to
// stderr and the two streams can be redirected separately.
func consoleEncoder() zapcore.Encoder {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func fileEncoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func logFileName(env string, now time.Time) string {
	prefix := "group-allocation"
	if env != "" {
		prefix += "_" + env
	}
	return filepath.Join(LogsDir, fmt.Sprintf("%s_%s.log", prefix, now.Format("2006-01-02_15-04-05")))
}
