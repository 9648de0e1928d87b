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

// FormatErrorLogLine renders an error-log line as `[YYYY-MM-DD
// HH:MM:SS]: <message>`.
func FormatErrorLogLine(at time.Time, message string) string {
	return fmt.Sprintf("[%s]: %s\n", at.Format("2006-01-02 15:04:05"), message)
}
