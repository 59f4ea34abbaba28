package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock supplies the current time. Injected so that fallback-date behavior
// is deterministic in tests.
type Clock func() time.Time

// DateParser parses the date formats found across statement dialects.
// Malformed components are clamped rather than rejected: legacy bank
// exports contain recoverable garbage and a statement run must never die
// on a bad date.
type DateParser struct {
	Now Clock
}

// NewDateParser returns a parser backed by the given clock; a nil clock
// falls back to time.Now.
func NewDateParser(now Clock) *DateParser {
	if now == nil {
		now = time.Now
	}
	return &DateParser{Now: now}
}

// ParseOFX parses a packed OFX date: YYYYMMDD, optionally followed by
// HHMMSS and a [timezone] suffix. Invalid components clamp: month > 12
// becomes 12, day 0 or > 31 becomes 1, out-of-range time fields become 0,
// year < 1900 becomes the current year.
func (p *DateParser) ParseOFX(raw string) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "["); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	if len(raw) < 8 {
		return time.Time{}, false, fmt.Errorf("date %q too short", raw)
	}

	year, err := strconv.Atoi(raw[0:4])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid year in %q", raw)
	}
	month, err := strconv.Atoi(raw[4:6])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid month in %q", raw)
	}
	day, err := strconv.Atoi(raw[6:8])
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid day in %q", raw)
	}

	withTime := false
	hour, minute, second := 0, 0, 0
	if len(raw) >= 14 {
		hour, _ = strconv.Atoi(raw[8:10])
		minute, _ = strconv.Atoi(raw[10:12])
		second, _ = strconv.Atoi(raw[12:14])
		withTime = true
	}

	if year < 1900 {
		year = p.Now().Year()
	}
	if month > 12 {
		month = 12
	}
	if month < 1 {
		month = 1
	}
	if day > 31 || day == 0 {
		day = 1
	}
	if hour > 23 {
		hour = 0
	}
	if minute > 59 {
		minute = 0
	}
	if second > 59 {
		second = 0
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), withTime, nil
}

// ParseDayMonthYear parses DD-MM-YYYY or DD/MM/YYYY.
func (p *DateParser) ParseDayMonthYear(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"02-01-2006", "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// ParseAs parses the "DD/MM/YY às HH:MM:SS" form used by Rico and XP
// account statements.
func (p *DateParser) ParseAs(raw string) (time.Time, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(raw), " às ", " ")
	clean = strings.ReplaceAll(clean, " as ", " ")
	t, err := time.Parse("02/01/06 15:04:05", clean)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, nil
}
