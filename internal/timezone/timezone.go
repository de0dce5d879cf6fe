// Package timezone converts between wall-clock local date/times in a named
// IANA zone and the canonical UTC form classes are stored in. Conversions
// compute the zone offset from the instant being converted, never from the
// current clock, so DST rules are applied for the right calendar date.
package timezone

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidTimezone      = errors.New("unknown timezone identifier")
	ErrInvalidDateTime      = errors.New("malformed date or time")
	ErrNonexistentLocalTime = errors.New("local time does not exist in this timezone")
	ErrAmbiguousLocalTime   = errors.New("local time is ambiguous in this timezone")
)

// LocalDateTime is a wall-clock moment in a specific zone. It is only
// meaningful as an instant together with its Timezone.
type LocalDateTime struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Timezone string `json:"timezone"`
}

// CanonicalInstant is the stored form of a class start: the UTC calendar
// components plus the full RFC 3339 instant they combine into. UTCDateTime
// is the source of truth; UTCDate/UTCTime are denormalized from it.
type CanonicalInstant struct {
	UTCDate     string `json:"utc_date"`
	UTCTime     string `json:"utc_time"`
	UTCDateTime string `json:"utc_datetime"`
}

// Instant returns the time.Time the canonical components describe.
func (c CanonicalInstant) Instant() (time.Time, error) {
	return time.Parse(time.RFC3339, c.UTCDateTime)
}

// LoadLocation resolves an IANA identifier, rejecting the empty string and
// the process-local aliases that LoadLocation would otherwise accept. The
// caller always names a real region; "Local" would smuggle ambient state
// into otherwise pure conversions.
func LoadLocation(tz string) (*time.Location, error) {
	const op = "timezone.LoadLocation"

	if tz == "" || tz == "Local" {
		return nil, fmt.Errorf("%s: %q: %w", op, tz, ErrInvalidTimezone)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%s: %q: %w", op, tz, ErrInvalidTimezone)
	}

	return loc, nil
}

// IsValid reports whether tz is a usable IANA identifier.
func IsValid(tz string) bool {
	_, err := LoadLocation(tz)
	return err == nil
}

// ToUTC interprets localDate+localTime as a wall-clock moment in tz and
// returns the canonical UTC instant it corresponds to. Wall-clock moments
// skipped by a spring-forward transition fail with ErrNonexistentLocalTime;
// moments that occur twice during fall-back fail with ErrAmbiguousLocalTime.
func ToUTC(localDate, localTime, tz string) (CanonicalInstant, error) {
	const op = "timezone.ToUTC"

	loc, err := LoadLocation(tz)
	if err != nil {
		return CanonicalInstant{}, fmt.Errorf("%s: %w", op, err)
	}

	d, err := time.Parse(DateLayout, localDate)
	if err != nil {
		return CanonicalInstant{}, fmt.Errorf("%s: invalid date %q: %w", op, localDate, ErrInvalidDateTime)
	}

	clock, err := time.Parse(TimeLayout, localTime)
	if err != nil {
		return CanonicalInstant{}, fmt.Errorf("%s: invalid time %q: %w", op, localTime, ErrInvalidDateTime)
	}

	local, err := resolveWallClock(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), loc)
	if err != nil {
		return CanonicalInstant{}, fmt.Errorf("%s: %w", op, err)
	}

	utc := local.UTC()
	return CanonicalInstant{
		UTCDate:     utc.Format(DateLayout),
		UTCTime:     utc.Format(TimeLayout),
		UTCDateTime: utc.Format(time.RFC3339),
	}, nil
}

// FromUTC maps a stored UTC date/time pair onto the wall-clock date and
// time a viewer in tz observes. Pure function of its inputs: the offset
// applied is the one in force at that instant.
func FromUTC(utcDate, utcTime, tz string) (LocalDateTime, error) {
	const op = "timezone.FromUTC"

	loc, err := LoadLocation(tz)
	if err != nil {
		return LocalDateTime{}, fmt.Errorf("%s: %w", op, err)
	}

	instant, err := time.ParseInLocation(DateLayout+" "+TimeLayout, utcDate+" "+utcTime, time.UTC)
	if err != nil {
		return LocalDateTime{}, fmt.Errorf("%s: invalid utc date/time %q %q: %w", op, utcDate, utcTime, ErrInvalidDateTime)
	}

	local := instant.In(loc)
	return LocalDateTime{
		Date:     local.Format(DateLayout),
		Time:     local.Format(TimeLayout),
		Timezone: tz,
	}, nil
}

// CurrentLocalDateTime returns now expressed as a wall-clock date/time in
// tz. Used only to pre-fill scheduling forms.
func CurrentLocalDateTime(now time.Time, tz string) (LocalDateTime, error) {
	const op = "timezone.CurrentLocalDateTime"

	loc, err := LoadLocation(tz)
	if err != nil {
		return LocalDateTime{}, fmt.Errorf("%s: %w", op, err)
	}

	local := now.In(loc)
	return LocalDateTime{
		Date:     local.Format(DateLayout),
		Time:     local.Format(TimeLayout),
		Timezone: tz,
	}, nil
}

// resolveWallClock turns wall-clock fields into the unique instant they
// name in loc. time.Date normalizes fields that fall inside a DST gap, so
// a round-trip mismatch means the moment never existed. Ambiguity is
// detected by probing nearby instants for a second occurrence of the same
// wall clock (offset jumps are at most an hour in every tzdb zone).
func resolveWallClock(year int, month time.Month, day, hour, min int, loc *time.Location) (time.Time, error) {
	t := time.Date(year, month, day, hour, min, 0, 0, loc)

	if t.Year() != year || t.Month() != month || t.Day() != day || t.Hour() != hour || t.Minute() != min {
		return time.Time{}, ErrNonexistentLocalTime
	}

	for _, delta := range []time.Duration{-time.Hour, -30 * time.Minute, 30 * time.Minute, time.Hour} {
		u := t.Add(delta)
		if u.Year() == year && u.Month() == month && u.Day() == day && u.Hour() == hour && u.Minute() == min {
			return time.Time{}, ErrAmbiguousLocalTime
		}
	}

	return t, nil
}
