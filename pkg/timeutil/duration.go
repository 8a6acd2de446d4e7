// Package timeutil reads and writes the compact durations used on the
// command line, such as "3d" or "1w2d6h".
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var (
	segment = regexp.MustCompile(`^(\d+)([a-z]+)`)
	units   = map[string]time.Duration{
		"s": time.Second, "sec": time.Second, "secs": time.Second,
		"m": time.Minute, "min": time.Minute, "mins": time.Minute,
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour,
		"d": day, "day": day, "days": day,
		"w": week, "wk": week, "wks": week, "week": week, "weeks": week,
	}
	// ordered largest first for formatting
	labels = []struct {
		label string
		unit  time.Duration
	}{{"w", week}, {"d", day}, {"h", time.Hour}, {"m", time.Minute}, {"s", time.Second}}
)

// ParseWindow parses a sum of number+unit segments. An empty input is zero,
// meaning no window.
func ParseWindow(input string) (time.Duration, error) {
	rest := strings.ToLower(strings.Join(strings.Fields(input), ""))
	var total time.Duration
	for rest != "" {
		m := segment.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("timeutil: invalid duration segment %q", rest)
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("timeutil: invalid duration value %q: %w", m[1], err)
		}
		unit, ok := units[m[2]]
		if !ok {
			return 0, fmt.Errorf("timeutil: unsupported duration unit %q", m[2])
		}
		total += time.Duration(n) * unit
		rest = rest[len(m[0]):]
	}
	return total, nil
}

// FormatWindow renders d with at most parts units, largest first, e.g. "2d3h"
// for parts=2. Remainders below the last unit shown are dropped.
func FormatWindow(d time.Duration, parts int) string {
	var b strings.Builder
	for _, l := range labels {
		if parts == 0 {
			break
		}
		if d < l.unit {
			if b.Len() > 0 {
				// Stop at the first gap so "1w0d5h" reads as "1w".
				break
			}
			continue
		}
		n := d / l.unit
		d -= n * l.unit
		fmt.Fprintf(&b, "%d%s", n, l.label)
		parts--
	}
	if b.Len() == 0 {
		return "0s"
	}
	return b.String()
}

// Ago describes how long before now t was, e.g. "3h ago".
func Ago(now, t time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}
	return FormatWindow(d, 2) + " ago"
}
