package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// ClockMinutes renders HH:MM.
	ClockMinutes = "15:04"
	// ClockSeconds renders HH:MM:SS.
	ClockSeconds = "15:04:05"

	day = 24 * time.Hour

	// MaxDayOffset is the largest day offset whose DayTime fits in a time.Duration.
	MaxDayOffset = int(math.MaxInt64/int64(day)) - 1
)

// clockEpoch anchors Format; only the clock of day is ever rendered.
var clockEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DayTime is an offset from midnight of service day 0.
type DayTime time.Duration

// NewDayTime builds a DayTime from a day offset and a clock time.
// dayOffset must not exceed MaxDayOffset.
func NewDayTime(dayOffset, hour, minute, second int) DayTime {
	return DayTime(time.Duration(dayOffset)*day +
		time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second)
}

// ParseDayTime parses "<dayOffset>.<HH:MM[:SS]>".
func ParseDayTime(raw string) (DayTime, error) {
	prefix, clock, ok := strings.Cut(raw, ".")
	if !ok {
		return 0, &MalformedTimeError{Raw: raw, Reason: "missing day separator"}
	}
	dayOffset, err := parseDigits(prefix, 0, MaxDayOffset)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &MalformedTimeError{Raw: raw, Reason: "day offset out of range"}
	}
	if err != nil {
		return 0, &MalformedTimeError{Raw: raw, Reason: "invalid day offset"}
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, &MalformedTimeError{Raw: raw, Reason: "clock must be HH:MM or HH:MM:SS"}
	}
	limits := []int{23, 59, 59}
	fields := make([]int, 3)
	for i, part := range parts {
		if len(part) != 2 {
			return 0, &MalformedTimeError{Raw: raw, Reason: "clock fields must be two digits"}
		}
		value, err := parseDigits(part, 0, limits[i])
		if err != nil {
			return 0, &MalformedTimeError{Raw: raw, Reason: "clock field out of range"}
		}
		fields[i] = value
	}
	return NewDayTime(dayOffset, fields[0], fields[1], fields[2]), nil
}

// MustParseDayTime panics on malformed input. Intended for fixtures.
func MustParseDayTime(raw string) DayTime {
	t, err := ParseDayTime(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func parseDigits(value string, min, max int) (int, error) {
	if value == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		// Atoi overflow is out of range too.
		return 0, strconv.ErrRange
	}
	if parsed < min || (max >= 0 && parsed > max) {
		return 0, strconv.ErrRange
	}
	return parsed, nil
}

// Day returns the day offset.
func (t DayTime) Day() int {
	return int(time.Duration(t) / day)
}

// Clock returns the time of day.
func (t DayTime) Clock() time.Duration {
	return time.Duration(t) % day
}

// Sub returns the signed duration t-u.
func (t DayTime) Sub(u DayTime) time.Duration {
	return time.Duration(t) - time.Duration(u)
}

// Format renders the clock of day with a Go time layout such as ClockMinutes.
// The day offset is not rendered.
func (t DayTime) Format(layout string) string {
	return clockEpoch.Add(t.Clock()).Format(layout)
}

// String returns the wire form "<day>.HH:MM:SS".
func (t DayTime) String() string {
	return fmt.Sprintf("%d.%s", t.Day(), t.Format(ClockSeconds))
}

// MarshalText implements encoding.TextMarshaler.
func (t DayTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *DayTime) UnmarshalText(text []byte) error {
	parsed, err := ParseDayTime(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
