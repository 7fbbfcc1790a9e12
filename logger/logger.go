// Package logger carries the process wide zap logger used by the gotri
// commands. Until Init is called every call is a no-op, so the mesh writers
// can be used as a library without any logging set up.
package logger

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Log   = zap.NewNop()
	Sugar = Log.Sugar()
)

// FileConfig describes a rotating log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Config selects the level and the sinks. A nil Console disables console
// output; the commands pass os.Stderr so that stdout carries only results.
type Config struct {
	Level   string
	Console io.Writer
	File    FileConfig
}

// Init sets up console logging on stderr, plus a rotating file when logFile
// is not empty.
func Init(level, logFile string) error {
	cfg := Config{Level: level, Console: os.Stderr}
	if logFile != "" {
		cfg.File = DefaultFileConfig(logFile)
	}
	return InitWithConfig(cfg)
}

func InitWithConfig(cfg Config) (err error) {
	var lg *zap.Logger
	if lg, err = New(cfg); err != nil {
		return
	}
	Log = lg
	Sugar = Log.Sugar()
	return
}

// New builds a logger without touching the package globals.
func New(cfg Config) (lg *zap.Logger, err error) {
	var (
		lvl   zapcore.Level
		cores []zapcore.Core
	)
	if lvl, err = ParseLevel(cfg.Level); err != nil {
		return
	}
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
	if cfg.Console != nil {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(cfg.Console),
			lvl,
		))
	}
	if cfg.File.Path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
			LocalTime:  true,
		}
		fileConfig := encoderConfig
		fileConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileConfig),
			zapcore.AddSync(fileWriter),
			lvl,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	lg = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return
}

// ParseLevel accepts the zap level names; an empty level means info.
func ParseLevel(level string) (lvl zapcore.Level, err error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	if err = lvl.UnmarshalText([]byte(level)); err != nil {
		err = fmt.Errorf("unknown log level: [%s], should be one of debug, info, warn, error", level)
	}
	return
}

func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }
