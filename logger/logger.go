package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Fields は WithFields に渡すフィールド。
type Fields map[string]interface{}

// Logger はアダプタやCLIが使うログ出力のインターフェース。
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
}

// Options はロガーの設定。
type Options struct {
	Output io.Writer
	Level  string
	JSON   bool
}

// Init は標準のlogrusロガーを設定する。
func Init(opt Options) error {
	level := opt.Level
	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	l := logrus.StandardLogger()
	l.SetLevel(logLevel)
	if opt.Output != nil {
		l.SetOutput(opt.Output)
	} else {
		l.SetOutput(os.Stderr)
	}
	if opt.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return nil
}

// Entry は構造化されたフィールドを持つログエントリ。
type Entry struct {
	entry *logrus.Entry
}

// WithNamespace は nspace フィールド付きのロガーを返す。
func WithNamespace(nspace string) *Entry {
	return &Entry{logrus.WithField("nspace", nspace)}
}

// Discard は何も出力しないロガー。
func Discard() *Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Entry{logrus.NewEntry(l)}
}

func (e *Entry) WithField(key string, value interface{}) Logger {
	return &Entry{e.entry.WithField(key, value)}
}

func (e *Entry) WithFields(fields Fields) Logger {
	return &Entry{e.entry.WithFields(logrus.Fields(fields))}
}

func (e *Entry) Debugf(format string, args ...interface{}) {
	e.entry.Debugf(format, args...)
}

func (e *Entry) Infof(format string, args ...interface{}) {
	e.entry.Infof(format, args...)
}

func (e *Entry) Warnf(format string, args ...interface{}) {
	e.entry.Warnf(format, args...)
}

func (e *Entry) Errorf(format string, args ...interface{}) {
	e.entry.Errorf(format, args...)
}
