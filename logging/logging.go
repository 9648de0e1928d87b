/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

// Package logging wraps logrus behind a level-gated façade so the rest
// of the module never imports logrus directly, matching the teacher's
// logger package idiom without carrying its syslog/gorm/hclog adapters,
// which this domain has no use for.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level mirrors logrus' severity ordering under the teacher's naming.
type Level uint8

const (
	FatalLevel Level = iota
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

func (l Level) toLogrus() logrus.Level {
	switch l {
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// Logger is the façade used across the module instead of *logrus.Logger.
type Logger struct {
	entry *logrus.Logger
}

// New builds a Logger writing formatted lines to w at the given level.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		w = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level.toLogrus())
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{entry: l}
}

func (l *Logger) SetLevel(level Level) { l.entry.SetLevel(level.toLogrus()) }

func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.entry.WithField(key, value)
}

func (l *Logger) Tracef(format string, args ...interface{}) { l.entry.Tracef(format, args...) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

// Writer returns a pipe writer whose lines are logged at error level, e.g. to hand to net/http's
// Server.ErrorLog via log.New(logger.Writer(), "", 0).
func (l *Logger) Writer() *io.PipeWriter {
	return l.entry.WriterLevel(logrus.ErrorLevel)
}
