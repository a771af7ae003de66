package journey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSeconds(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "morning", input: "08:15:30", expected: 29730},
		{name: "midnight", input: "00:00:00", expected: 0},
		{name: "end of day", input: "23:59:59", expected: 86399},
		{name: "past service midnight", input: "25:00:00", expected: 90000},
		{name: "surrounding whitespace", input: " 06:30:00 ", expected: 23400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSeconds(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestToSecondsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "two components", input: "08:15"},
		{name: "four components", input: "08:15:30:00"},
		{name: "not numbers", input: "ab:cd:ef"},
		{name: "negative hours", input: "-01:00:00"},
		{name: "empty component", input: "08::30"},
		{name: "empty string", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToSeconds(tt.input)
			require.Error(t, err)
			var malformed *MalformedTimeError
			assert.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.input, malformed.Input)
		})
	}
}

func TestDuration(t *testing.T) {
	d, err := Duration("08:00:00", "09:30:00")
	require.NoError(t, err)
	assert.Equal(t, 5400, d)
}

func TestDurationNegativeAcrossMidnight(t *testing.T) {
	d, err := Duration("23:30:00", "00:15:00")
	require.NoError(t, err)
	assert.Equal(t, -83700, d)
}

func TestDurationMalformed(t *testing.T) {
	_, err := Duration("bad", "09:30:00")
	assert.Error(t, err)

	_, err = Duration("08:00:00", "bad")
	assert.Error(t, err)
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		sec      int
		expected string
	}{
		{29730, "08:15:30"},
		{0, "00:00:00"},
		{90000, "25:00:00"},
		{-5, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSeconds(tt.sec))
		})
	}
}
