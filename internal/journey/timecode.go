package journey

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedTimeError reports a wall-clock string that does not parse as
// HH:MM:SS.
type MalformedTimeError struct {
	Input string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q: want HH:MM:SS", e.Input)
}

// ToSeconds converts an HH:MM:SS wall-clock string into seconds since
// midnight. Hours may exceed 23 for trips that run past the end of the
// service day, so "25:10:00" is valid and larger than a day.
func ToSeconds(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, &MalformedTimeError{Input: s}
	}
	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, &MalformedTimeError{Input: s}
		}
		vals[i] = n
	}
	return vals[0]*3600 + vals[1]*60 + vals[2], nil
}

// FormatSeconds renders seconds since midnight as zero-padded HH:MM:SS.
// Values past 24h keep their large hour component.
func FormatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}

// Duration returns end minus start in seconds. The result is negative when
// end precedes start; callers clamp degenerate values instead of guessing a
// midnight correction.
func Duration(start, end string) (int, error) {
	s, err := ToSeconds(start)
	if err != nil {
		return 0, err
	}
	e, err := ToSeconds(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}
