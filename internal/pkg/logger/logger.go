package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger - интерфейс структурированного логирования.
// Поля передаются map-ами, чтобы вызывающий код не зависел от zerolog
type Logger interface {
	Debug(msg string, fields ...map[string]interface{})
	Info(msg string, fields ...map[string]interface{})
	Warn(msg string, fields ...map[string]interface{})
	Error(msg string, fields ...map[string]interface{})
	Fatal(msg string, fields ...map[string]interface{})
	With(key string, value interface{}) Logger
}

type zerologLogger struct {
	logger zerolog.Logger
}

// New создает logger с заданным уровнем, форматом (json/console)
// и выводом. Сейчас поддерживается только stdout
func New(level, format, output string) Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	var writer io.Writer
	switch output {
	case "", "stdout":
		writer = os.Stdout
	default:
		// запись в файл пока не поддерживается
		writer = os.Stdout
	}

	if format == "console" {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()

	return &zerologLogger{logger: logger}
}

// NewNoop возвращает logger, который молча отбрасывает все сообщения.
// Используется в тестах
func NewNoop() Logger {
	return &zerologLogger{logger: zerolog.New(io.Discard)}
}

func (l *zerologLogger) Debug(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) Fatal(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Fatal(), msg, fields)
}

func (l *zerologLogger) With(key string, value interface{}) Logger {
	return &zerologLogger{logger: l.logger.With().Interface(key, value).Logger()}
}

func (l *zerologLogger) emit(event *zerolog.Event, msg string, fields []map[string]interface{}) {
	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			event.Interface(key, value)
		}
	}
	event.Msg(msg)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
