package entities

import "time"

// VoiceRewardUsage tracks how many rewarded minutes an account used in a channel today
type VoiceRewardUsage struct {
	AccountID int64     `db:"account_id"`
	ChannelID int64     `db:"channel_id"`
	Day       time.Time `db:"day"`
	Minutes   int       `db:"minutes"`
	Coins     int64     `db:"coins"`
}

// VoiceChannelReward is the payout rule of one rewarded voice channel
type VoiceChannelReward struct {
	ChannelID        int64
	CoinsPerInterval int64
	MaxDailyMinutes  int
}

// RemainingMinutes returns how many more minutes the account may be paid for today
func (u *VoiceRewardUsage) RemainingMinutes(rule VoiceChannelReward) int {
	return max(0, rule.MaxDailyMinutes-u.Minutes)
}
