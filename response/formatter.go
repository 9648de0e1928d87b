/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package response

import (
	"github.com/sirupsen/logrus"
)

// accessEntryField is the logrus.Entry.Data key under which an
// AccessLogEntry is attached, following the teacher's formatter
// convention of keying structured payloads off a fixed field name.
const accessEntryField = "access"

// AccessLogFormatter renders logrus entries carrying an AccessLogEntry
// (under accessEntryField) as combined-log-format lines, and falls back
// to the bracketed error-log format for everything else.
type AccessLogFormatter struct{}

func (AccessLogFormatter) Format(e *logrus.Entry) ([]byte, error) {
	if raw, ok := e.Data[accessEntryField]; ok {
		if entry, ok := raw.(AccessLogEntry); ok {
			return []byte(FormatCombinedLogLine(entry) + "\n"), nil
		}
	}
	return []byte(FormatErrorLogLine(e.Time, e.Message)), nil
}

// WithAccessEntry attaches an AccessLogEntry to a logrus entry for
// AccessLogFormatter to pick up.
func WithAccessEntry(log *logrus.Logger, entry AccessLogEntry) *logrus.Entry {
	return log.WithField(accessEntryField, entry)
}

// NewAccessLogger returns a logrus.Logger configured with
// AccessLogFormatter, ready to receive WithAccessEntry-tagged entries.
func NewAccessLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(AccessLogFormatter{})
	return l
}
