package common

import (
	"fmt"
	"strings"
	"time"

	"herocraft/domain/utils"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	if balance < 0 {
		return "-" + FormatBalance(-balance)
	}

	str := fmt.Sprintf("%d", balance)
	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatBalanceCompact formats a balance amount in compact form (e.g. 100k, 1.5M)
func FormatBalanceCompact(balance int64) string {
	return utils.FormatShortNotation(balance)
}

// FormatCoins renders "1,234 coins" with the singular for one
func FormatCoins(amount int64) string {
	if amount == 1 || amount == -1 {
		return FormatBalance(amount) + " coin"
	}
	return FormatBalance(amount) + " coins"
}

// FormatTransferResult formats the result of a transfer
func FormatTransferResult(amount int64, recipientID string, newBalance int64) string {
	return fmt.Sprintf("✅ Sent **%s** to <@%s>. Your balance: **%s**",
		FormatCoins(amount), recipientID, FormatCoins(newBalance))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// FormatDuration formats a duration in a human-readable format
// Examples: "2d 14h 30m", "3h 45m", "45m", "< 1m"
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return "< 1m"
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}

	return strings.Join(parts, " ")
}

// FormatCountdown renders short waits with second precision ("42s", "1m 05s")
func FormatCountdown(d time.Duration) string {
	return utils.FormatDuration(d)
}

// FormatSigned renders a balance change with an explicit sign
func FormatSigned(amount int64) string {
	if amount > 0 {
		return "+" + FormatBalance(amount)
	}
	return FormatBalance(amount)
}
