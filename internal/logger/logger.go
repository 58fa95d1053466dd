package logger

import (
	"io"
	"os"

	"github.com/MirrorChyan/fetch-paper/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func SetLevel(l string) {
	level.SetLevel(getLevel(l))
}

// New builds the process logger. Console output goes to stderr so that
// command output on stdout stays clean; log.file adds a rotating JSON sink.
func New(conf *config.Config) *zap.Logger {
	return newWithConsole(conf, os.Stderr)
}

func newWithConsole(conf *config.Config, console io.Writer) *zap.Logger {
	SetLevel(conf.Log.Level)
	var (
		cores = []zapcore.Core{
			zapcore.NewCore(getConsoleEncoder(), zapcore.AddSync(console), level),
		}
	)

	if conf.Log.File != "" {
		lj := getLumberjackLogger(conf)
		cores = append(cores, zapcore.NewCore(getFileEncoder(), zapcore.AddSync(lj), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func getLevel(l string) zapcore.Level {
	switch l {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func getLumberjackLogger(conf *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   conf.Log.File,
		MaxSize:    conf.Log.MaxSize,
		MaxBackups: conf.Log.MaxBackups,
		MaxAge:     conf.Log.MaxAge,
		Compress:   conf.Log.Compress,
	}
}

func getConsoleEncoder() zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.TimeKey = "time"
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(conf)
}

func getFileEncoder() zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.TimeKey = "time"
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(conf)
}
