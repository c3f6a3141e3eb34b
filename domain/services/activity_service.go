package services

import (
	"context"
	"fmt"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RewardRules are the configured activity reward parameters
type RewardRules struct {
	MessageReward   int64
	MessageCooldown time.Duration
	VoiceInterval   time.Duration
}

type activityRewardService struct {
	ledger    interfaces.LedgerService
	voiceRepo interfaces.VoiceRewardRepository
	rules     RewardRules
}

// NewActivityRewardService creates the message and voice reward service
func NewActivityRewardService(
	ledger interfaces.LedgerService,
	voiceRepo interfaces.VoiceRewardRepository,
	rules RewardRules,
) interfaces.ActivityRewardService {
	return &activityRewardService{
		ledger:    ledger,
		voiceRepo: voiceRepo,
		rules:     rules,
	}
}

func (s *activityRewardService) RewardMessage(ctx context.Context, accountID int64, now time.Time) (int64, time.Duration, error) {
	account, err := s.ledger.LockAccount(ctx, accountID)
	if err != nil {
		return 0, 0, err
	}

	if remaining := account.RewardCooldownRemaining(now, s.rules.MessageCooldown); remaining > 0 {
		return 0, remaining, nil
	}

	if _, err := s.ledger.Credit(ctx, accountID, s.rules.MessageReward, entities.TransactionTypeMessageReward, nil); err != nil {
		return 0, 0, err
	}
	return s.rules.MessageReward, s.rules.MessageCooldown, nil
}

func (s *activityRewardService) CooldownRemaining(ctx context.Context, accountID int64, now time.Time) (time.Duration, error) {
	account, err := s.ledger.LockAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.RewardCooldownRemaining(now, s.rules.MessageCooldown), nil
}

// RewardVoice pays CoinsPerInterval for every full interval in minutes, trimmed to the daily cap
func (s *activityRewardService) RewardVoice(ctx context.Context, accountID int64, rule entities.VoiceChannelReward, minutes int, now time.Time) (int64, error) {
	intervalMinutes := int(s.rules.VoiceInterval / time.Minute)
	if intervalMinutes <= 0 || minutes < intervalMinutes {
		return 0, nil
	}

	day := entities.LogDay(now)
	usage, err := s.voiceRepo.Get(ctx, accountID, rule.ChannelID, day)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get voice usage: %w", entities.ErrPersistenceFailure, err)
	}
	if usage == nil {
		usage = &entities.VoiceRewardUsage{AccountID: accountID, ChannelID: rule.ChannelID, Day: day}
	}

	payable := min(minutes, usage.RemainingMinutes(rule))
	intervals := payable / intervalMinutes
	if intervals == 0 {
		return 0, nil
	}

	coins := int64(intervals) * rule.CoinsPerInterval
	if _, err := s.ledger.Credit(ctx, accountID, coins, entities.TransactionTypeVoiceReward, map[string]any{
		"channel_id": rule.ChannelID,
		"minutes":    intervals * intervalMinutes,
	}); err != nil {
		return 0, err
	}

	if err := s.voiceRepo.AddUsage(ctx, accountID, rule.ChannelID, day, intervals*intervalMinutes, coins); err != nil {
		return 0, fmt.Errorf("%w: failed to record voice usage: %w", entities.ErrPersistenceFailure, err)
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"channelID": rule.ChannelID,
		"minutes":   intervals * intervalMinutes,
		"coins":     coins,
	}).Debug("Voice reward paid")

	return coins, nil
}

func (s *activityRewardService) VoiceUsage(ctx context.Context, accountID int64, now time.Time) ([]*entities.VoiceRewardUsage, error) {
	usage, err := s.voiceRepo.GetByAccountDay(ctx, accountID, entities.LogDay(now))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get voice usage: %w", entities.ErrPersistenceFailure, err)
	}
	return usage, nil
}
