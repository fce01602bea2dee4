package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger struct {
	entry *logrus.Entry
	file  *lumberjack.Logger
}

// New creates a logger writing to stdout and to a rotating file under dir.
func New(dir, level string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create logs folder failed: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "dengue-alert-service.log"),
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	l, err := newLogger(io.MultiWriter(os.Stdout, file), level)
	if err != nil {
		return nil, err
	}
	l.file = file
	return l, nil
}

// NewWriter creates a logger without file rotation, writing only to w.
func NewWriter(w io.Writer, level string) *Logger {
	l, err := newLogger(w, level)
	if err != nil {
		l, _ = newLogger(w, "info")
	}
	return l
}

func newLogger(w io.Writer, level string) (*Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(lvl)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{entry: logrus.NewEntry(base)}, nil
}

// WithRequest returns a logger tagging every line with request_id.
func (l *Logger) WithRequest(requestID string) *Logger {
	return &Logger{entry: l.entry.WithField("request_id", requestID), file: l.file}
}

// WithField returns a logger tagging every line with key=value.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value), file: l.file}
}

func (l *Logger) Debugf(msg string, args ...interface{}) {
	l.entry.Debugf(msg, args...)
}

func (l *Logger) Infof(msg string, args ...interface{}) {
	l.entry.Infof(msg, args...)
}

func (l *Logger) Warnf(msg string, args ...interface{}) {
	l.entry.Warnf(msg, args...)
}

func (l *Logger) Errorf(msg string, args ...interface{}) {
	l.entry.Errorf(msg, args...)
}

func (l *Logger) Fatalf(msg string, args ...interface{}) {
	l.entry.Fatalf(msg, args...)
}

func (l *Logger) Close() {
	if l.file == nil {
		return
	}
	_ = l.file.Close()
}
