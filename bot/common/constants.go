package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorError   = 0xED4245 // Red (alias for ColorDanger)
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorGold    = 0xF1C40F
)

// UI constants
const (
	MaxButtonsPerRow = 5
	MaxActionRows    = 5
	LeaderboardSize  = 10
	HistorySize      = 10
)

// CoinEmoji is appended to coin amounts in embeds
const CoinEmoji = "🪙"

// WheelOutcomeEmoji maps the default wheel colours to their square emoji
var WheelOutcomeEmoji = map[string]string{
	"yellow": "🟨",
	"green":  "🟩",
	"blue":   "🟦",
	"pink":   "🟪",
	"red":    "🟥",
}

// OutcomeEmoji returns the emoji for a wheel outcome, or a neutral square
func OutcomeEmoji(outcome string) string {
	if e, ok := WheelOutcomeEmoji[outcome]; ok {
		return e
	}
	return "⬜"
}
