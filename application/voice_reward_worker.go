package application

import (
	"context"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/utils"

	log "github.com/sirupsen/logrus"
)

// VoiceMember is one member currently in a voice channel
type VoiceMember struct {
	AccountID int64
	ChannelID int64
	// ActiveSince is when the member last became eligible (unmuted or streaming)
	ActiveSince time.Time
	Active      bool
}

// VoicePresence reports who is in voice right now
type VoicePresence interface {
	VoiceMembers() []VoiceMember
}

// VoiceRewardWorker pays members who stayed active in a rewarded voice channel
// for a full interval
type VoiceRewardWorker struct {
	rewards  *Rewards
	presence VoicePresence
	clock    utils.Clock
	channels map[int64]entities.VoiceChannelReward
}

// NewVoiceRewardWorker creates a new voice reward worker
func NewVoiceRewardWorker(rewards *Rewards, presence VoicePresence, clock utils.Clock, channels []entities.VoiceChannelReward) *VoiceRewardWorker {
	byID := make(map[int64]entities.VoiceChannelReward, len(channels))
	for _, c := range channels {
		byID[c.ChannelID] = c
	}
	return &VoiceRewardWorker{
		rewards:  rewards,
		presence: presence,
		clock:    clock,
		channels: byID,
	}
}

// Start begins the voice reward worker
func (w *VoiceRewardWorker) Start(ctx context.Context) func() {
	ticker := time.NewTicker(w.rewards.VoiceInterval())
	stopChan := make(chan struct{})

	go func() {
		log.WithField("channels", len(w.channels)).Info("Voice reward worker started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Voice reward worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Voice reward worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.Tick(ctx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// Tick pays one interval to every eligible member and returns the coins paid
func (w *VoiceRewardWorker) Tick(ctx context.Context) int64 {
	if len(w.channels) == 0 {
		return 0
	}

	interval := w.rewards.VoiceInterval()
	minutes := int(interval / time.Minute)
	now := w.clock.Now()

	var total int64
	for _, m := range w.presence.VoiceMembers() {
		rule, ok := w.channels[m.ChannelID]
		if !ok || !m.Active || now.Sub(m.ActiveSince) < interval {
			continue
		}

		paid, err := w.rewards.RewardVoice(ctx, m.AccountID, rule, minutes)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"accountID": m.AccountID,
				"channelID": m.ChannelID,
			}).Error("Failed to pay voice reward")
			continue
		}
		total += paid
	}

	if total > 0 {
		log.WithField("coins", total).Debug("Voice rewards paid")
	}
	return total
}
