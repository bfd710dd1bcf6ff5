package gameclock

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timeOfDayRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})(\.\d{1,9})?(Z)?$`)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var fallbackLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 3:04 PM",
	"2006-01-02 3:04PM",
	"2006-01-02 3:04:05 PM",
}

// Normalizer turns raw event time values into elapsed game time. It is the only
// place in the service where event time strings are parsed.
type Normalizer struct {
	loc *time.Location
}

func NewNormalizer(loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return Normalizer{loc: loc}
}

func (n Normalizer) location() *time.Location {
	if n.loc == nil {
		return time.UTC
	}
	return n.loc
}

// GameStart parses the game-start instant. ok is false when the value is not a
// recognizable timestamp.
func (n Normalizer) GameStart(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !hasDateSeparator(raw) {
		return time.Time{}, false
	}
	return n.parseTimestamp(raw)
}

// Instant resolves a raw time value against the game start. Unparsable input
// resolves to the game start itself.
func (n Normalizer) Instant(raw string, gameStart time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return gameStart
	}

	if hasDateSeparator(raw) {
		if parsed, ok := n.parseTimestamp(raw); ok {
			return parsed
		}
	}

	if parsed, ok := n.parseTimeOfDay(raw, gameStart); ok {
		return parsed
	}

	localDate := gameStart.In(n.location()).Format("2006-01-02")
	for _, layout := range fallbackLayouts {
		parsed, err := time.ParseInLocation(layout, localDate+" "+raw, n.location())
		if err == nil {
			return parsed
		}
	}

	return gameStart
}

// Elapsed is max(0, instant-start) truncated to whole seconds.
func (n Normalizer) Elapsed(raw string, gameStart time.Time) time.Duration {
	if gameStart.IsZero() {
		return 0
	}
	diff := n.Instant(raw, gameStart).Sub(gameStart)
	if diff < 0 {
		return 0
	}
	return diff.Truncate(time.Second)
}

// ElapsedLabel formats Elapsed as m:ss.
func (n Normalizer) ElapsedLabel(raw string, gameStart time.Time) string {
	return FormatElapsed(n.Elapsed(raw, gameStart))
}

func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParseDuration reads penalty style durations: HH:mm:ss, mm:ss or plain minutes.
func ParseDuration(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return 0, false
	}
	values := make([]int, 3)
	offset := 3 - len(parts)
	if len(parts) == 1 {
		offset = 1
	}
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 {
			return 0, false
		}
		values[offset+i] = v
	}
	h, m, s := values[0], values[1], values[2]

	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second, true
}

func (n Normalizer) parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, raw, n.location())
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (n Normalizer) parseTimeOfDay(raw string, gameStart time.Time) (time.Time, bool) {
	match := timeOfDayRegex.FindStringSubmatch(raw)
	if match == nil {
		return time.Time{}, false
	}

	h, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	s, _ := strconv.Atoi(match[3])
	if h > 23 || m > 59 || s > 59 {
		return time.Time{}, false
	}

	var nanos int
	if frac := strings.TrimPrefix(match[4], "."); frac != "" {
		nanos, _ = strconv.Atoi((frac + "000000000")[:9])
	}

	loc := n.location()
	if match[5] == "Z" {
		loc = time.UTC
	}
	day := gameStart.In(loc)
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, nanos, loc), true
}

func hasDateSeparator(raw string) bool {
	if len(raw) < 10 {
		return false
	}
	return raw[4] == '-' && raw[7] == '-'
}
