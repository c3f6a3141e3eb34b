package entities

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Ticket number ranges
const (
	LotteryNumberCount = 5
	LotteryMaxNumber   = 70
	LotteryMaxBonus    = 25
)

// LotteryTier is a prize bracket. The empty tier wins nothing.
type LotteryTier string

const (
	TierNone    LotteryTier = ""
	TierJackpot LotteryTier = "JACKPOT"
	Tier5       LotteryTier = "5"
	Tier4PB     LotteryTier = "4_PB"
	Tier4       LotteryTier = "4"
	Tier3PB     LotteryTier = "3_PB"
	Tier3       LotteryTier = "3"
	Tier2PB     LotteryTier = "2_PB"
	Tier1PB     LotteryTier = "1_PB"
)

// TierOrder lists the prize tiers by descending share
var TierOrder = []LotteryTier{TierJackpot, Tier5, Tier4PB, Tier4, Tier3PB, Tier3, Tier2PB, Tier1PB}

// TierShares is the fraction of the pot allocated to each tier
var TierShares = map[LotteryTier]decimal.Decimal{
	TierJackpot: decimal.NewFromInt(1),
	Tier5:       decimal.RequireFromString("0.50"),
	Tier4PB:     decimal.RequireFromString("0.40"),
	Tier4:       decimal.RequireFromString("0.30"),
	Tier3PB:     decimal.RequireFromString("0.25"),
	Tier3:       decimal.RequireFromString("0.20"),
	Tier2PB:     decimal.RequireFromString("0.15"),
	Tier1PB:     decimal.RequireFromString("0.10"),
}

// TierFor maps a ticket's match count and bonus match to its tier
func TierFor(matches int, bonus bool) LotteryTier {
	switch {
	case matches == 5 && bonus:
		return TierJackpot
	case matches == 5:
		return Tier5
	case matches == 4 && bonus:
		return Tier4PB
	case matches == 4:
		return Tier4
	case matches == 3 && bonus:
		return Tier3PB
	case matches == 3:
		return Tier3
	case matches == 2 && bonus:
		return Tier2PB
	case matches == 1 && bonus:
		return Tier1PB
	default:
		return TierNone
	}
}

// LotteryTicket is a held ticket. Numbers are distinct and sorted ascending.
type LotteryTicket struct {
	ID          int64     `db:"id"`
	AccountID   int64     `db:"account_id"`
	Numbers     []int     `db:"numbers"`
	Bonus       int       `db:"bonus"`
	Price       int64     `db:"price"`
	PurchasedAt time.Time `db:"purchased_at"`
}

// Match counts shared main numbers and reports whether the bonus matches
func (t *LotteryTicket) Match(winning []int, bonus int) (int, bool) {
	drawn := make(map[int]struct{}, len(winning))
	for _, n := range winning {
		drawn[n] = struct{}{}
	}
	matches := 0
	for _, n := range t.Numbers {
		if _, ok := drawn[n]; ok {
			matches++
		}
	}
	return matches, t.Bonus == bonus
}

// Format renders "01 02 03 04 05 | 07"
func (t *LotteryTicket) Format() string {
	return FormatLotteryNumbers(t.Numbers, t.Bonus)
}

// FormatLotteryNumbers renders main numbers and bonus with zero padding
func FormatLotteryNumbers(numbers []int, bonus int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return fmt.Sprintf("%s | %02d", strings.Join(parts, " "), bonus)
}

// ValidateTicketNumbers checks cardinality, distinctness and ranges.
// It returns the numbers sorted ascending.
func ValidateTicketNumbers(numbers []int, bonus int) ([]int, error) {
	if len(numbers) != LotteryNumberCount {
		return nil, fmt.Errorf("%w: need %d numbers, got %d", ErrInvalidTicketNumbers, LotteryNumberCount, len(numbers))
	}
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if n < 1 || n > LotteryMaxNumber {
			return nil, fmt.Errorf("%w: %d is outside 1-%d", ErrInvalidTicketNumbers, n, LotteryMaxNumber)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: %d appears twice", ErrInvalidTicketNumbers, n)
		}
		seen[n] = struct{}{}
	}
	if bonus < 1 || bonus > LotteryMaxBonus {
		return nil, fmt.Errorf("%w: bonus %d is outside 1-%d", ErrInvalidTicketNumbers, bonus, LotteryMaxBonus)
	}

	sorted := make([]int, len(numbers))
	copy(sorted, numbers)
	sort.Ints(sorted)
	return sorted, nil
}

// ParseTicketNumbers reads space or comma separated numbers
func ParseTicketNumbers(input string) ([]int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' })
	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidTicketNumbers, f)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// DrawLotteryNumbers picks 5 distinct sorted numbers and a bonus
func DrawLotteryNumbers(rng RandomSource) ([]int, int) {
	pool := make([]int, LotteryMaxNumber)
	for i := range pool {
		pool[i] = i + 1
	}
	for i := 0; i < LotteryNumberCount; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	numbers := append([]int(nil), pool[:LotteryNumberCount]...)
	sort.Ints(numbers)
	return numbers, 1 + rng.Intn(LotteryMaxBonus)
}

// LotteryState is the persisted singleton drawing state
type LotteryState struct {
	Pot           int64      `db:"pot"`
	NextDrawingAt *time.Time `db:"next_drawing_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// IsDue reports whether a drawing should run at now
func (s *LotteryState) IsDue(now time.Time) bool {
	return s.NextDrawingAt != nil && !now.Before(*s.NextDrawingAt)
}

// LotteryWinnerEntry is a paid ticket in a drawing log
type LotteryWinnerEntry struct {
	AccountID int64       `json:"user_id"`
	TicketID  int64       `json:"ticket_id"`
	Numbers   []int       `json:"numbers"`
	Bonus     int         `json:"bonus"`
	Tier      LotteryTier `json:"tier"`
	Payout    int64       `json:"payout"`
}

// LotteryNonWinnerEntry is an unpaid ticket in a drawing log
type LotteryNonWinnerEntry struct {
	AccountID  int64 `json:"user_id"`
	TicketID   int64 `json:"ticket_id"`
	Numbers    []int `json:"numbers"`
	Bonus      int   `json:"bonus"`
	Matches    int   `json:"matches"`
	BonusMatch bool  `json:"bonus_match"`
}

// LotteryDrawing is the immutable audit record of one drawing
type LotteryDrawing struct {
	ID             int64                   `db:"id"`
	WinningNumbers []int                   `db:"winning_numbers"`
	WinningBonus   int                     `db:"winning_bonus"`
	PotBefore      int64                   `db:"pot_before"`
	TotalPaid      int64                   `db:"total_paid"`
	PotAfter       int64                   `db:"pot_after"`
	Winners        []LotteryWinnerEntry    `db:"winners"`
	NonWinners     []LotteryNonWinnerEntry `db:"non_winners"`
	LogDay         time.Time               `db:"log_day"`
	DrawnAt        time.Time               `db:"drawn_at"`
}

// HasWinners reports whether anyone was paid
func (d *LotteryDrawing) HasWinners() bool {
	return len(d.Winners) > 0
}

// ResolveLotteryDrawing tiers every ticket and allocates the pot.
// Each tier gets floor(potBefore*share), capped by what is left, walking tiers by
// descending share. The allocation is split evenly per winning ticket and
// the indivisible remainder stays in the pot.
func ResolveLotteryDrawing(potBefore int64, tickets []*LotteryTicket, winning []int, bonus int, now time.Time) *LotteryDrawing {
	drawing := &LotteryDrawing{
		WinningNumbers: winning,
		WinningBonus:   bonus,
		PotBefore:      potBefore,
		Winners:        []LotteryWinnerEntry{},
		NonWinners:     []LotteryNonWinnerEntry{},
		LogDay:         LogDay(now),
		DrawnAt:        now,
	}

	byTier := make(map[LotteryTier][]*LotteryTicket)
	for _, t := range tickets {
		matches, bonusMatch := t.Match(winning, bonus)
		tier := TierFor(matches, bonusMatch)
		if tier == TierNone {
			drawing.NonWinners = append(drawing.NonWinners, LotteryNonWinnerEntry{
				AccountID:  t.AccountID,
				TicketID:   t.ID,
				Numbers:    t.Numbers,
				Bonus:      t.Bonus,
				Matches:    matches,
				BonusMatch: bonusMatch,
			})
			continue
		}
		byTier[tier] = append(byTier[tier], t)
	}

	remaining := potBefore
	pot := decimal.NewFromInt(potBefore)
	for _, tier := range TierOrder {
		winners := byTier[tier]
		if len(winners) == 0 {
			continue
		}
		allocation := min(pot.Mul(TierShares[tier]).Floor().IntPart(), remaining)
		share := allocation / int64(len(winners))
		for _, t := range winners {
			drawing.Winners = append(drawing.Winners, LotteryWinnerEntry{
				AccountID: t.AccountID,
				TicketID:  t.ID,
				Numbers:   t.Numbers,
				Bonus:     t.Bonus,
				Tier:      tier,
				Payout:    share,
			})
		}
		paid := share * int64(len(winners))
		remaining -= paid
		drawing.TotalPaid += paid
	}

	drawing.PotAfter = potBefore - drawing.TotalPaid
	return drawing
}

// NextDailyOccurrence returns the first hour:minute UTC strictly after now
func NextDailyOccurrence(now time.Time, hour, minute int) time.Time {
	u := now.UTC()
	next := time.Date(u.Year(), u.Month(), u.Day(), hour, minute, 0, 0, time.UTC)
	if !next.After(u) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
