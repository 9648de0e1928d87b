/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nabbar/kestrel/errors"
)

// ByteRange is an inclusive [Start, End] span resolved against a known
// file size.
type ByteRange struct {
	Start, End int64
}

func (r ByteRange) Length() int64 { return r.End - r.Start + 1 }

// RangeStatus reports what ParseRange found: no Range header at all, a
// satisfiable single range, or a range outside the resource's bounds.
type RangeStatus uint8

const (
	RangeAbsent RangeStatus = iota
	RangeSatisfiable
	RangeUnsatisfiable
)

// ParseRange parses a single-range `Range: bytes=...` header value
// against size: `a-b`, `a-` (suffix to EOF), `-n`
// (last n bytes). Multi-range requests are not supported; only the
// first range unit is honored, matching a single-range-only engine.
func ParseRange(header string, size int64) (ByteRange, RangeStatus, errors.Error) {
	if header == "" {
		return ByteRange{}, RangeAbsent, nil
	}

	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return ByteRange{}, RangeAbsent, nil
	}
	spec := strings.TrimPrefix(header, prefix)
	spec = strings.SplitN(spec, ",", 2)[0]

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return ByteRange{}, RangeAbsent, ErrorBadRange.Error(nil)
	}

	if parts[0] == "" {
		n, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || n <= 0 {
			return ByteRange{}, RangeAbsent, ErrorBadRange.Error(err)
		}
		if size == 0 {
			return ByteRange{}, RangeUnsatisfiable, nil
		}
		start := size - n
		if start < 0 {
			start = 0
		}
		return ByteRange{Start: start, End: size - 1}, RangeSatisfiable, nil
	}

	start, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || start < 0 {
		return ByteRange{}, RangeAbsent, ErrorBadRange.Error(err)
	}

	if size == 0 || start > size-1 {
		return ByteRange{}, RangeUnsatisfiable, nil
	}

	var end int64
	if parts[1] == "" {
		end = size - 1
	} else {
		end, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil || end < start {
			return ByteRange{}, RangeAbsent, ErrorBadRange.Error(err)
		}
		if end > size-1 {
			end = size - 1
		}
	}

	return ByteRange{Start: start, End: end}, RangeSatisfiable, nil
}

// ContentRangeHeader renders the `Content-Range` header value for a
// satisfiable range.
func ContentRangeHeader(r ByteRange, size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// UnsatisfiableRangeHeader renders the 416 response's `Content-Range`.
func UnsatisfiableRangeHeader(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}
