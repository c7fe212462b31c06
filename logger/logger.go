// Package logger 以 zerolog 為基礎的全域日誌，開發環境輸出 console 格式，正式環境輸出 JSON
package logger

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
	"io"
	"os"
	"strings"
)

type Config struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"maxSize" split_words:"true"`
	MaxBackups int    `yaml:"maxBackups" split_words:"true"`
	MaxAge     int    `yaml:"maxAge" split_words:"true"`
}

// 初始化全域日誌，File 不為空時另外寫入可切割的日誌檔
func Init(cfg Config, production bool) {
	var out io.Writer = os.Stdout
	if !production {
		out = zerolog.NewConsoleWriter()
	}

	if cfg.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
		})
	}

	l := zerolog.New(out).With().Timestamp()
	if !production {
		l = l.Caller()
	}
	log.Logger = l.Logger().Level(ParseLevel(cfg.Level))
}

func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// 提供給 gorm logger 等 Printf 介面使用
func Writer() *zerolog.Logger {
	return &log.Logger
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
