package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultZone is UTC+8.
var DefaultZone = time.FixedZone("UTC+8", 8*60*60)

// ParseZone accepts an IANA name ("Asia/Shanghai"), a bare offset
// ("+08:00", "-0530") or a UTC-prefixed offset ("UTC+8").
func ParseZone(value string) (*time.Location, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultZone, nil
	}

	offset := value
	if rest, ok := strings.CutPrefix(strings.ToUpper(value), "UTC"); ok {
		if rest == "" {
			return time.UTC, nil
		}
		offset = rest
	}
	if strings.HasPrefix(offset, "+") || strings.HasPrefix(offset, "-") {
		seconds, err := parseOffset(offset)
		if err != nil {
			return nil, fmt.Errorf("zone %q: %w", value, err)
		}
		return time.FixedZone(value, seconds), nil
	}

	loc, err := time.LoadLocation(value)
	if err != nil {
		return nil, fmt.Errorf("zone %q: %w", value, err)
	}
	return loc, nil
}

func parseOffset(value string) (int, error) {
	sign := 1
	if value[0] == '-' {
		sign = -1
	}
	body := value[1:]

	var hh, mm string
	switch {
	case strings.Contains(body, ":"):
		hh, mm, _ = strings.Cut(body, ":")
	case len(body) == 4:
		hh, mm = body[:2], body[2:]
	default:
		hh, mm = body, "0"
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h > 14 {
		return 0, fmt.Errorf("invalid offset hours %q", hh)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, fmt.Errorf("invalid offset minutes %q", mm)
	}
	return sign * (h*3600 + m*60), nil
}
