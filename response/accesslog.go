/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package response

import (
	"fmt"
	"time"
)

// AccessLogEntry is one completed request/response pair, rendered in
// combined log format.
type AccessLogEntry struct {
	ClientIP  string
	User      string
	Time      time.Time
	Method    string
	Path      string
	Proto     string
	Status    int
	Bytes     int64
	Referer   string
	UserAgent string
}

// FormatCombinedLogLine renders e as:
//
//	<ip> - <user> [<dd/Mon/yyyy:HH:MM:SS ±zzzz>] "<method> <path> <proto>" <status> <bytes|-> "<referer|->" "<agent|->"
func FormatCombinedLogLine(e AccessLogEntry) string {
	user := dashIfEmpty(e.User)
	referer := dashIfEmpty(e.Referer)
	agent := dashIfEmpty(e.UserAgent)

	bytes := "-"
	if e.Bytes > 0 {
		bytes = fmt.Sprintf("%d", e.Bytes)
	}

	return fmt.Sprintf(`%s - %s [%s] "%s %s %s" %d %s "%s" "%s"`,
		e.ClientIP, user, e.Time.Format("02/Jan/2006:15:04:05 -0700"),
		e.Method, e.Path, e.Proto, e.Status, bytes, referer, agent,
	)
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
