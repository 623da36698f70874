// Package schedule holds the time-of-day normalization and midnight-crossing
// rules shared by the event intake, moderation and editing flows. All time
// values are normalized to the canonical zero-padded 24-hour form ("HH:mm")
// before any comparison; the 12-hour display form ("h:mm AM/PM") is accepted
// at boundaries only.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// ParseError reports a time or date string that does not match any accepted
// format. Empty input is not an error; it maps to the documented defaults.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

var valid24Hour = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsValid24Hour reports whether input is a 24-hour clock string.
func IsValid24Hour(input string) bool {
	return valid24Hour.MatchString(strings.TrimSpace(input))
}

// To24Hour converts a time in either the 12-hour ("h:mm AM/PM") or 24-hour
// ("HH:mm") form to the canonical zero-padded 24-hour form. A time containing
// a space is treated as 12-hour with the trailing token as its AM/PM marker.
// Empty input yields "00:00".
func To24Hour(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "00:00", nil
	}

	if !strings.Contains(trimmed, " ") {
		hours, minutes, err := splitClock(trimmed)
		if err != nil {
			return "", err
		}
		if hours > 23 {
			return "", &ParseError{Input: input, Reason: "hour out of range"}
		}
		return fmt.Sprintf("%02d:%02d", hours, minutes), nil
	}

	parts := strings.SplitN(trimmed, " ", 2)
	modifier := strings.ToUpper(strings.TrimSpace(parts[1]))
	if modifier != "AM" && modifier != "PM" {
		return "", &ParseError{Input: input, Reason: "expected AM or PM marker"}
	}

	hours, minutes, err := splitClock(parts[0])
	if err != nil {
		return "", err
	}
	if hours < 1 || hours > 12 {
		return "", &ParseError{Input: input, Reason: "12-hour clock hour must be 1-12"}
	}

	if modifier == "PM" && hours < 12 {
		hours += 12
	}
	if modifier == "AM" && hours == 12 {
		hours = 0
	}

	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

// To12Hour converts a canonical 24-hour time to the display form. Hour 0
// renders as 12 AM and hours 13-23 are reduced by 12. Input already carrying
// an AM/PM marker is returned unchanged; empty input yields "12:00 AM".
func To12Hour(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "12:00 AM", nil
	}
	if strings.Contains(trimmed, " ") {
		return trimmed, nil
	}

	hours, minutes, err := splitClock(trimmed)
	if err != nil {
		return "", err
	}
	if hours > 23 {
		return "", &ParseError{Input: input, Reason: "hour out of range"}
	}

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours
	switch {
	case hours == 0:
		display = 12
	case hours > 12:
		display = hours - 12
	}

	return fmt.Sprintf("%d:%02d %s", display, minutes, period), nil
}

// Ensure24Hour returns input unchanged when it is already a valid 24-hour
// string, otherwise converts it. Empty input yields "00:00".
func Ensure24Hour(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "00:00", nil
	}
	if IsValid24Hour(trimmed) {
		return trimmed, nil
	}
	return To24Hour(trimmed)
}

// CrossesMidnight reports whether an event ending at endTime on the same
// calendar day as startTime would end before it starts, meaning the event
// actually runs past midnight into the next day. Both times may arrive in
// either format. The comparison uses full minute precision, so an end time
// within the same hour but earlier than the start also counts as crossing.
func CrossesMidnight(startTime, endTime string) (bool, error) {
	if strings.TrimSpace(startTime) == "" || strings.TrimSpace(endTime) == "" {
		return false, nil
	}
	start, err := minutesOfDay(startTime)
	if err != nil {
		return false, err
	}
	end, err := minutesOfDay(endTime)
	if err != nil {
		return false, err
	}
	return end < start, nil
}

// ResolveEndDate returns the end date implied by the time pair: the day after
// startDate when the event crosses midnight, otherwise startDate itself.
func ResolveEndDate(startDate time.Time, startTime, endTime string) (time.Time, error) {
	crosses, err := CrossesMidnight(startTime, endTime)
	if err != nil {
		return time.Time{}, err
	}
	if crosses {
		return startDate.AddDate(0, 0, 1), nil
	}
	return startDate, nil
}

// EndsAfterStart reports whether endDate+endTime is strictly after
// startDate+startTime when read as instants on a shared timeline.
func EndsAfterStart(startDate, endDate time.Time, startTime, endTime string) (bool, error) {
	startMin, err := minutesOfDay(startTime)
	if err != nil {
		return false, err
	}
	endMin, err := minutesOfDay(endTime)
	if err != nil {
		return false, err
	}
	start := startDate.Add(time.Duration(startMin) * time.Minute)
	end := endDate.Add(time.Duration(endMin) * time.Minute)
	return end.After(start), nil
}

func minutesOfDay(clock string) (int, error) {
	canonical, err := To24Hour(clock)
	if err != nil {
		return 0, err
	}
	hours, minutes, err := splitClock(canonical)
	if err != nil {
		return 0, err
	}
	return hours*60 + minutes, nil
}

func splitClock(clock string) (int, int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, &ParseError{Input: clock, Reason: "expected HH:mm"}
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hours < 0 {
		return 0, 0, &ParseError{Input: clock, Reason: "hour is not a number"}
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, &ParseError{Input: clock, Reason: "minute out of range"}
	}
	return hours, minutes, nil
}
