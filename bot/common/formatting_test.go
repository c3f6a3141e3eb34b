package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		balance  int64
		expected string
	}{
		{"zero", 0, "0"},
		{"three digits", 999, "999"},
		{"thousands", 1000, "1,000"},
		{"millions", 1234567, "1,234,567"},
		{"negative", -25000, "-25,000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatBalance(tt.balance))
		})
	}
}

func TestFormatCoins(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 coin", FormatCoins(1))
	assert.Equal(t, "0 coins", FormatCoins(0))
	assert.Equal(t, "1,500 coins", FormatCoins(1500))
	assert.Equal(t, "15k", FormatBalanceCompact(15000))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"under a minute", 40 * time.Second, "< 1m"},
		{"minutes", 45 * time.Minute, "45m"},
		{"hours and minutes", 3*time.Hour + 45*time.Minute, "3h 45m"},
		{"whole hours", 2 * time.Hour, "2h"},
		{"days", 62*time.Hour + 30*time.Minute, "2d 14h 30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}

func TestFormatCountdownAndSigned(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "42s", FormatCountdown(42*time.Second))
	assert.Equal(t, "1m 05s", FormatCountdown(65*time.Second))
	assert.Equal(t, "+300", FormatSigned(300))
	assert.Equal(t, "-20", FormatSigned(-20))
	assert.Equal(t, "0", FormatSigned(0))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "<t:1714593600:R>", FormatDiscordTimestamp(ts, "R"))
}
