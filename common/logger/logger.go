package logger

import (
	"bytes"
	"fmt"
	"os"
	"time"

	conf "github.com/abcfe/avax-types/config"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// library code may log before InitLogger runs
var logger = zap.NewNop()
var stag string

// fields and encodings read back by the monitor's log viewer
var encCfg = zapcore.EncoderConfig{
	TimeKey:        "date",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

func InitLogger(cfg *conf.Config) error {
	lPath := fmt.Sprintf("%s_%s.log", cfg.LogInfo.Path, time.Now().Format("2006-01-02"))

	// -debug forces the verbose console tee
	for _, arg := range os.Args {
		if arg == "-debug" || arg == "--debug" {
			cfg.Common.Level = "alpha"
			break
		}
	}

	rotator, err := rotatelogs.New(
		lPath,
		rotatelogs.WithMaxAge(time.Duration(cfg.LogInfo.MaxAgeHour)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(cfg.LogInfo.RotateHour)*time.Hour))
	if err != nil {
		return err
	}

	stag = cfg.Common.Level
	logger = zap.New(newCore(stag, zapcore.AddSync(rotator), zapcore.AddSync(os.Stdout))).
		Named(cfg.Common.ServiceName)

	logger.Info("logging init file start")
	return nil
}

// newCore writes JSON to file; local and alpha also tee to the console
// and log at debug.
func newCore(level string, file, console zapcore.WriteSyncer) zapcore.Core {
	if verbose(level) {
		return zapcore.NewTee(
			zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), file, zap.DebugLevel),
			zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), console, zap.DebugLevel),
		)
	}
	return zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), file, zap.InfoLevel)
}

func verbose(level string) bool {
	return level == "alpha" || level == "local"
}

// SetLogger replaces the root logger, e.g. with zaptest or an observer core.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// L returns the root logger for structured fields such as zap.Object.
func L() *zap.Logger {
	return logger
}

func Sync() {
	_ = logger.Sync()
}

func join(ctx []interface{}) string {
	var b bytes.Buffer
	for _, str := range ctx {
		b.WriteString(fmt.Sprintf("%v", str))
	}
	return b.String()
}

func Debug(ctx ...interface{}) {
	logger.Debug("debug", zap.String("Debug", join(ctx)))
}

func Info(ctx ...interface{}) {
	logger.Info("info", zap.String("Info", join(ctx)))
}

func Warn(ctx ...interface{}) {
	logger.Warn("warn", zap.String("Warn", join(ctx)))
}

func Error(ctx ...interface{}) {
	logger.Error("error", zap.String("Err", join(ctx)))
}

// Crit logs and exits the process.
func Crit(ctx ...interface{}) {
	logger.Fatal("panic", zap.String("Crit", join(ctx)))
}

func HandleErr(err error) {
	if err != nil {
		Error(err)
	}
}

// Object wraps zap.Object so callers need not import zap for key fields.
func Object(name string, m zapcore.ObjectMarshaler) zap.Field {
	return zap.Object(name, m)
}
