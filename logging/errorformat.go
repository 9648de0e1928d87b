/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package logging

import (
	"bytes"
	"io"

	"github.com/sirupsen/logrus"
)

// ErrorLineFormatter renders the bracketed error-log format:
// "[YYYY-MM-DD HH:MM:SS]: <message>\n".
type ErrorLineFormatter struct{}

func (ErrorLineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	buf.WriteString(e.Time.Format("2006-01-02 15:04:05"))
	buf.WriteString("]: ")
	buf.WriteString(e.Message)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// NewErrorLog builds a Logger dedicated to the error-log sink format.
func NewErrorLog(w io.Writer, level Level) *Logger {
	l := New(w, level)
	l.entry.SetFormatter(ErrorLineFormatter{})
	return l
}
