package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/agent-mongo-exporter/pkg/config"
)

type Logger = zap.Logger

const timeLayout = "2006-01-02 15:04:05.000 -07:00"

var (
	baseLogger     *zap.Logger
	loggerInitOnce sync.Once
	mu             sync.RWMutex
)

// ParseLevel 字符串转 zap 级别，未知值按 info 处理
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "dbg", "debug":
		return zapcore.DebugLevel
	case "war", "warn":
		return zapcore.WarnLevel
	case "err", "error":
		return zapcore.ErrorLevel
	case "crit", "critical":
		return zapcore.DPanicLevel
	}
	return zapcore.InfoLevel
}

// New 构建 console(stdout) + json(滚动文件) 双输出的 logger
func New(cfg config.ZapLogConfig) (*zap.Logger, error) {
	level := ParseLevel(cfg.Level)

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", cfg.Path, err)
	}

	writer, err := rotatelogs.New(filepath.Join(cfg.Path, "exporter-%Y%m%d.log"), rotateOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("open rotate log writer: %w", err)
	}

	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.TimeKey = "timestamp"
	jsonCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	jsonCfg.EncodeLevel = levelNameEncoder(zapcore.LowercaseLevelEncoder)
	jsonEncoder := zapcore.NewJSONEncoder(jsonCfg)

	stdoutEncoder := jsonEncoder
	if cfg.Format == "console" {
		stdoutEncoder = zapcore.NewConsoleEncoder(consoleEncoderConfig())
	}

	core := zapcore.NewTee(
		zapcore.NewCore(stdoutEncoder, zapcore.AddSync(os.Stdout), level),
		zapcore.NewCore(jsonEncoder, zapcore.AddSync(writer), level),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// rotateOptions 按天切分；max_size 超出时当天内再切分。
// rotatelogs 不允许同时设置保留天数和保留个数，max_backup > 0 时按个数保留，否则按 max_age 天数保留。
func rotateOptions(cfg config.ZapLogConfig) []rotatelogs.Option {
	opts := []rotatelogs.Option{rotatelogs.WithRotationTime(24 * time.Hour)}
	if cfg.MaxSize > 0 {
		opts = append(opts, rotatelogs.WithRotationSize(int64(cfg.MaxSize)*1024*1024))
	}
	if cfg.MaxBackup > 0 {
		return append(opts, rotatelogs.WithRotationCount(uint(cfg.MaxBackup)))
	}
	maxAge := time.Duration(cfg.MaxAge) * 24 * time.Hour
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return append(opts, rotatelogs.WithMaxAge(maxAge))
}

// 控制台彩色级别 + 彩色时间 + 两级 caller 路径
func consoleEncoderConfig() zapcore.EncoderConfig {
	c := zap.NewDevelopmentEncoderConfig()
	c.ConsoleSeparator = " "
	c.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("\033[34m%s\033[0m", t.Format(timeLayout)))
	}
	c.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		switch level {
		case zapcore.DebugLevel:
			enc.AppendString("\033[36mDEBUG\033[0m")
		case zapcore.InfoLevel:
			enc.AppendString("\033[32mINFO \033[0m")
		case zapcore.WarnLevel:
			enc.AppendString("\033[33mWARN \033[0m")
		case zapcore.ErrorLevel:
			enc.AppendString("\033[31mERROR\033[0m")
		case zapcore.DPanicLevel:
			enc.AppendString("\033[35mCRIT \033[0m")
		case zapcore.PanicLevel, zapcore.FatalLevel:
			enc.AppendString("\033[35m" + level.CapitalString() + "\033[0m")
		default:
			enc.AppendString("UNK  ")
		}
	}
	c.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		rel := filepath.Join(filepath.Base(filepath.Dir(caller.File)), filepath.Base(caller.File))
		enc.AppendString(fmt.Sprintf("%s:%d", rel, caller.Line))
	}
	return c
}

// dpanic 在本项目中表示 critical
func levelNameEncoder(fallback zapcore.LevelEncoder) zapcore.LevelEncoder {
	return func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if level == zapcore.DPanicLevel {
			enc.AppendString("critical")
			return
		}
		fallback(level, enc)
	}
}

// InitLogger 全局只初始化一次
func InitLogger(cfg *config.ZapLogConfig) (*zap.Logger, error) {
	var err error
	loggerInitOnce.Do(func() {
		var l *zap.Logger
		l, err = New(*cfg)
		if err != nil {
			return
		}
		SetLogger(l)
	})
	if err != nil {
		return nil, err
	}
	return GetLogger(), nil
}

// SetLogger 替换全局 logger（测试中注入 observer 用）
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	baseLogger = l
}

// GetLogger 未初始化时返回 Nop logger
func GetLogger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if baseLogger == nil {
		return zap.NewNop()
	}
	return baseLogger
}

func log(level zapcore.Level, msg string, fields ...zapcore.Field) {
	l := GetLogger().WithOptions(zap.AddCallerSkip(2))
	if ce := l.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func Debug(msg string, fields ...zapcore.Field) { log(zapcore.DebugLevel, msg, fields...) }
func Info(msg string, fields ...zapcore.Field)  { log(zapcore.InfoLevel, msg, fields...) }
func Warn(msg string, fields ...zapcore.Field)  { log(zapcore.WarnLevel, msg, fields...) }
func Error(msg string, fields ...zapcore.Field) { log(zapcore.ErrorLevel, msg, fields...) }

// Sync 程序退出前刷盘
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if baseLogger == nil {
		return nil
	}
	return baseLogger.Sync()
}
