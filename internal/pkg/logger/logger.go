package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "lasttime-service"

// New создает zap логгер в stdout: json, а для уровня debug цветная консоль
func New(level string) (*zap.Logger, error) {
	return NewWithOutput(level, "stdout")
}

// NewWithOutput пишет в output: "stdout", "stderr" или путь, понятный zap.Open
func NewWithOutput(level, output string) (*zap.Logger, error) {
	ws, err := sink(output)
	if err != nil {
		return nil, err
	}
	return NewWithWriter(level, ws), nil
}

// NewWithWriter собирает логгер поверх произвольного WriteSyncer
func NewWithWriter(level string, w zapcore.WriteSyncer) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service", serviceName)),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	}

	var enc zapcore.Encoder
	if lvl == zapcore.DebugLevel {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
		opts = append(opts, zap.Development())
	} else {
		ec := zap.NewProductionEncoderConfig()
		ec.TimeKey = "ts"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	}

	return zap.New(zapcore.NewCore(enc, w, lvl), opts...)
}

func sink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	ws, _, err := zap.Open(output)
	return ws, err
}
