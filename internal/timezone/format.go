package timezone

import (
	"fmt"
	"strings"
	"time"
)

// FormatOptions selects which pieces of a class start to render.
type FormatOptions struct {
	ShowDate     bool
	ShowTime     bool
	ShowTimezone bool
	Hour12       bool
}

// DefaultFormatOptions renders date and time, 24-hour, no zone label.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{ShowDate: true, ShowTime: true}
}

// NamedZone is an entry in the timezone picker offered to schedulers.
type NamedZone struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// CommonTimezones lists the zones the academy's users are concentrated in.
func CommonTimezones() []NamedZone {
	return []NamedZone{
		{Value: "Africa/Cairo", Label: "Cairo (UTC+2/+3)"},
		{Value: "Asia/Riyadh", Label: "Riyadh (UTC+3)"},
		{Value: "Asia/Dubai", Label: "Dubai (UTC+4)"},
		{Value: "Asia/Kuwait", Label: "Kuwait (UTC+3)"},
		{Value: "Asia/Baghdad", Label: "Baghdad (UTC+3)"},
		{Value: "Europe/London", Label: "London (UTC+0/+1)"},
		{Value: "Europe/Paris", Label: "Paris (UTC+1/+2)"},
		{Value: "America/New_York", Label: "New York (UTC-5/-4)"},
		{Value: "America/Chicago", Label: "Chicago (UTC-6/-5)"},
		{Value: "America/Los_Angeles", Label: "Los Angeles (UTC-8/-7)"},
		{Value: "Australia/Sydney", Label: "Sydney (UTC+10/+11)"},
		{Value: "Asia/Tokyo", Label: "Tokyo (UTC+9)"},
		{Value: "Asia/Singapore", Label: "Singapore (UTC+8)"},
	}
}

// DisplayName renders a human label for tz, e.g. "Cairo (UTC+3)". The
// offset shown is the one in force at the given instant; callers pass
// time.Now() for picker labels.
func DisplayName(tz string, at time.Time) (string, error) {
	const op = "timezone.DisplayName"

	loc, err := LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	_, offsetSec := at.In(loc).Zone()

	city := tz
	if i := strings.LastIndex(tz, "/"); i >= 0 {
		city = tz[i+1:]
	}
	city = strings.ReplaceAll(city, "_", " ")

	return fmt.Sprintf("%s (UTC%s)", city, formatOffset(offsetSec)), nil
}

func formatOffset(sec int) string {
	sign := "+"
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	if m == 0 {
		return fmt.Sprintf("%s%d", sign, h)
	}
	return fmt.Sprintf("%s%d:%02d", sign, h, m)
}

// Format renders a stored UTC start for a viewer in tz according to opts,
// e.g. "Sun, Sep 14, 2025 at 6:00 PM (Cairo (UTC+3))".
func Format(utcDate, utcTime, tz string, opts FormatOptions) (string, error) {
	const op = "timezone.Format"

	local, err := FromUTC(utcDate, utcTime, tz)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	loc, err := LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, local.Date+" "+local.Time, loc)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidDateTime)
	}

	var b strings.Builder

	if opts.ShowDate {
		b.WriteString(t.Format("Mon, Jan 2, 2006"))
	}

	if opts.ShowTime {
		if opts.ShowDate {
			b.WriteString(" at ")
		}
		if opts.Hour12 {
			b.WriteString(t.Format("3:04 PM"))
		} else {
			b.WriteString(t.Format(TimeLayout))
		}
	}

	if opts.ShowTimezone {
		name, err := DisplayName(tz, t)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		fmt.Fprintf(&b, " (%s)", name)
	}

	return b.String(), nil
}
