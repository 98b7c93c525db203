// Package logger 全局 zap 日志，写入带滚动的本地文件
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 是全局可用的 SugaredLogger；Init 之前为 Nop，测试中无需初始化
var Log = zap.NewNop().Sugar()

// Options 日志初始化参数
type Options struct {
	File    string // 日志文件路径，如 "app.log"；为空时只输出到控制台
	Level   string // debug/info/warn/error
	Console bool   // 同时输出到 stderr（终端界面模式下关闭）
}

// Init 初始化 zap 日志：文件滚动（lumberjack）+ 可选控制台
func Init(opts Options) error {
	level := zapcore.DebugLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	var cores []zapcore.Core
	if opts.File != "" {
		// 10MB 每文件，保留3个备份，最多7天
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(lj), level))
	}
	if opts.Console || opts.File == "" {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Sugar()
	return nil
}

// Sync 清理和同步缓冲
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
