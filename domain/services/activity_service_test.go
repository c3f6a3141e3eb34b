package services

import (
	"context"
	"testing"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRewardRules = RewardRules{
	MessageReward:   10,
	MessageCooldown: 15 * time.Minute,
	VoiceInterval:   5 * time.Minute,
}

func TestActivityRewardService_RewardMessage(t *testing.T) {
	t.Parallel()

	recent := testNow.Add(-10 * time.Minute)
	old := testNow.Add(-20 * time.Minute)

	tests := []struct {
		name          string
		lastRewardAt  *time.Time
		wantPaid      int64
		wantRemaining time.Duration
	}{
		{name: "first message pays", lastRewardAt: nil, wantPaid: 10, wantRemaining: 15 * time.Minute},
		{name: "cooling down pays nothing", lastRewardAt: &recent, wantPaid: 0, wantRemaining: 5 * time.Minute},
		{name: "cooldown elapsed pays", lastRewardAt: &old, wantPaid: 10, wantRemaining: 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ledger, m := newTestLedger()
			m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).
				Return(&entities.Account{AccountID: 1, Balance: 0, LastRewardAt: tt.lastRewardAt}, nil)
			m.accounts.On("UpdateBalance", mock.Anything, int64(1), int64(10), testNow).Return(nil).Maybe()

			svc := NewActivityRewardService(ledger, new(testhelpers.MockVoiceRewardRepository), testRewardRules)
			paid, remaining, err := svc.RewardMessage(context.Background(), 1, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, paid)
			assert.Equal(t, tt.wantRemaining, remaining)
			if tt.wantPaid == 0 {
				m.accounts.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestActivityRewardService_RewardVoiceHonoursDailyCap(t *testing.T) {
	t.Parallel()

	rule := entities.VoiceChannelReward{ChannelID: 77, CoinsPerInterval: 4, MaxDailyMinutes: 60}
	day := entities.LogDay(testNow)

	tests := []struct {
		name      string
		usedToday int
		minutes   int
		wantCoins int64
	}{
		{name: "one interval", usedToday: 0, minutes: 5, wantCoins: 4},
		{name: "partial interval is not paid", usedToday: 0, minutes: 4, wantCoins: 0},
		{name: "trimmed to remaining cap", usedToday: 50, minutes: 15, wantCoins: 8},
		{name: "cap reached", usedToday: 60, minutes: 5, wantCoins: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ledger, m := newTestLedger()
			voice := new(testhelpers.MockVoiceRewardRepository)
			voice.On("Get", mock.Anything, int64(1), int64(77), day).
				Return(&entities.VoiceRewardUsage{AccountID: 1, ChannelID: 77, Day: day, Minutes: tt.usedToday}, nil).Maybe()
			m.accounts.On("GetOrCreateForUpdate", mock.Anything, int64(1)).Return(&entities.Account{AccountID: 1, Balance: 100}, nil).Maybe()
			m.accounts.On("UpdateBalance", mock.Anything, int64(1), 100+tt.wantCoins, testNow).Return(nil).Maybe()
			voice.On("AddUsage", mock.Anything, int64(1), int64(77), day, mock.Anything, tt.wantCoins).Return(nil).Maybe()

			svc := NewActivityRewardService(ledger, voice, testRewardRules)
			coins, err := svc.RewardVoice(context.Background(), 1, rule, tt.minutes, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCoins, coins)
			if tt.wantCoins == 0 {
				voice.AssertNotCalled(t, "AddUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
