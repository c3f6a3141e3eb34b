package cmd

import (
	"fmt"
	"strconv"

	"herocraft/application"
	"herocraft/bot"
	"herocraft/config"
	"herocraft/domain/entities"
	"herocraft/domain/services"
)

func wheelRules(cfg config.WheelConfig) application.WheelRules {
	outcomes := make(entities.WheelOutcomes, 0, len(cfg.Outcomes))
	for _, o := range cfg.Outcomes {
		outcomes = append(outcomes, entities.WheelOutcome{
			Name:       o.Name,
			Multiplier: o.Multiplier,
			Weight:     o.Weight,
		})
	}
	return application.WheelRules{
		Outcomes:        outcomes,
		CountdownPeriod: cfg.CountdownPeriod,
		SpinPeriod:      cfg.SpinPeriod,
	}
}

func lotteryRules(cfg config.LotteryConfig) services.LotteryRules {
	return services.LotteryRules{
		TicketPrice:          cfg.TicketPrice,
		PotMultiplier:        cfg.PotMultiplier,
		MaxTicketsPerAccount: cfg.MaxTicketsPerAccount,
		DrawingHour:          cfg.DrawingHour,
		DrawingMinute:        cfg.DrawingMinute,
	}
}

func rideTheBusRules(cfg config.RideTheBusConfig) application.RideTheBusRules {
	return application.RideTheBusRules{
		MinStake: cfg.MinStake,
		MaxStake: cfg.MaxStake,
		Timeout:  cfg.Timeout,
	}
}

func rewardRules(cfg config.RewardsConfig) services.RewardRules {
	return services.RewardRules{
		MessageReward:   cfg.MessageReward,
		MessageCooldown: cfg.MessageCooldown,
		VoiceInterval:   cfg.VoiceInterval,
	}
}

// voiceChannelRewards parses the configured channel IDs
func voiceChannelRewards(channels []config.VoiceChannelConfig) ([]entities.VoiceChannelReward, error) {
	rewards := make([]entities.VoiceChannelReward, 0, len(channels))
	for _, c := range channels {
		id, err := strconv.ParseInt(c.ChannelID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid voice channel id %q: %w", c.ChannelID, err)
		}
		rewards = append(rewards, entities.VoiceChannelReward{
			ChannelID:        id,
			CoinsPerInterval: c.CoinsPerInterval,
			MaxDailyMinutes:  c.MaxDailyMinutes,
		})
	}
	return rewards, nil
}

func botConfig(cfg *config.Config, voiceChannels []entities.VoiceChannelReward) bot.Config {
	return bot.Config{
		Token:            cfg.DiscordToken,
		GuildID:          cfg.GuildID,
		AdminIDs:         cfg.AdminIDs,
		WheelChannelID:   cfg.Wheel.ChannelID,
		LotteryChannelID: cfg.Lottery.ChannelID,
		WheelPresets:     cfg.Wheel.BetPresets,
		VoiceChannels:    voiceChannels,
	}
}
