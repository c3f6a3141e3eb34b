package entities

import "time"

// Account is the ledger record of one Discord member
type Account struct {
	AccountID    int64      `db:"account_id"`
	Balance      int64      `db:"balance"`
	LastRewardAt *time.Time `db:"last_reward_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// CanAfford checks if the account holds at least amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// RewardCooldownRemaining returns how long until the next message reward may be paid.
// Zero means a reward is due.
func (a *Account) RewardCooldownRemaining(now time.Time, cooldown time.Duration) time.Duration {
	if a.LastRewardAt == nil {
		return 0
	}
	remaining := a.LastRewardAt.Add(cooldown).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ClampBalance applies delta to balance and floors the result at zero
func ClampBalance(balance, delta int64) int64 {
	next := balance + delta
	if next < 0 {
		return 0
	}
	return next
}
