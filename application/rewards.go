package application

import (
	"context"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/interfaces"
	"herocraft/domain/services"
	"herocraft/domain/utils"
)

// Rewards pays coins for chat and voice activity
type Rewards struct {
	ledger *Ledger
	clock  utils.Clock
	rules  services.RewardRules
}

// NewRewards creates the activity reward entry point
func NewRewards(ledger *Ledger, clock utils.Clock, rules services.RewardRules) *Rewards {
	return &Rewards{
		ledger: ledger,
		clock:  clock,
		rules:  rules,
	}
}

func (r *Rewards) service(tx *LedgerTx) interfaces.ActivityRewardService {
	return services.NewActivityRewardService(tx.Ledger, tx.UnitOfWork.VoiceRewardRepository(), r.rules)
}

// RewardMessage pays the message reward unless the member is cooling down
func (r *Rewards) RewardMessage(ctx context.Context, accountID int64) (int64, error) {
	var paid int64
	err := r.ledger.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		paid, _, err = r.service(tx).RewardMessage(ctx, accountID, r.clock.Now())
		return err
	})
	return paid, err
}

// CooldownRemaining returns the wait until the next message reward
func (r *Rewards) CooldownRemaining(ctx context.Context, accountID int64) (time.Duration, error) {
	var remaining time.Duration
	err := r.ledger.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		remaining, err = r.service(tx).CooldownRemaining(ctx, accountID, r.clock.Now())
		return err
	})
	return remaining, err
}

// RewardVoice pays for minutes spent in a rewarded voice channel
func (r *Rewards) RewardVoice(ctx context.Context, accountID int64, rule entities.VoiceChannelReward, minutes int) (int64, error) {
	var paid int64
	err := r.ledger.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		paid, err = r.service(tx).RewardVoice(ctx, accountID, rule, minutes, r.clock.Now())
		return err
	})
	return paid, err
}

// VoiceUsage returns today's rewarded voice minutes per channel
func (r *Rewards) VoiceUsage(ctx context.Context, accountID int64) ([]*entities.VoiceRewardUsage, error) {
	var usage []*entities.VoiceRewardUsage
	err := r.ledger.inUnitOfWork(ctx, func(tx *LedgerTx) error {
		var err error
		usage, err = r.service(tx).VoiceUsage(ctx, accountID, r.clock.Now())
		return err
	})
	return usage, err
}

// VoiceInterval is the length of one paid voice interval
func (r *Rewards) VoiceInterval() time.Duration {
	return r.rules.VoiceInterval
}
