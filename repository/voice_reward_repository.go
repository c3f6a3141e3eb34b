package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"herocraft/database"
	"herocraft/domain/entities"

	"github.com/jackc/pgx/v5"
)

// VoiceRewardRepository tracks per-day voice reward usage
type VoiceRewardRepository struct {
	q Queryable
}

// NewVoiceRewardRepository creates a voice usage repository on the pool
func NewVoiceRewardRepository(db *database.DB) *VoiceRewardRepository {
	return &VoiceRewardRepository{q: db.Pool}
}

func newVoiceRewardRepository(tx Queryable) *VoiceRewardRepository {
	return &VoiceRewardRepository{q: tx}
}

// Get returns nil when nothing was paid for the channel that day
func (r *VoiceRewardRepository) Get(ctx context.Context, accountID, channelID int64, day time.Time) (*entities.VoiceRewardUsage, error) {
	query := `
		SELECT account_id, channel_id, day, minutes, coins
		FROM voice_reward_usage
		WHERE account_id = $1 AND channel_id = $2 AND day = $3
	`
	var u entities.VoiceRewardUsage
	err := r.q.QueryRow(ctx, query, accountID, channelID, entities.LogDay(day)).
		Scan(&u.AccountID, &u.ChannelID, &u.Day, &u.Minutes, &u.Coins)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voice usage for account %d channel %d: %w", accountID, channelID, err)
	}
	return &u, nil
}

// AddUsage adds minutes and coins to the day's row, creating it if missing
func (r *VoiceRewardRepository) AddUsage(ctx context.Context, accountID, channelID int64, day time.Time, minutes int, coins int64) error {
	query := `
		INSERT INTO voice_reward_usage (account_id, channel_id, day, minutes, coins)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, channel_id, day) DO UPDATE
		SET minutes = voice_reward_usage.minutes + EXCLUDED.minutes,
		    coins = voice_reward_usage.coins + EXCLUDED.coins
	`
	if _, err := r.q.Exec(ctx, query, accountID, channelID, entities.LogDay(day), minutes, coins); err != nil {
		return fmt.Errorf("failed to add voice usage for account %d channel %d: %w", accountID, channelID, err)
	}
	return nil
}

func (r *VoiceRewardRepository) GetByAccountDay(ctx context.Context, accountID int64, day time.Time) ([]*entities.VoiceRewardUsage, error) {
	query := `
		SELECT account_id, channel_id, day, minutes, coins
		FROM voice_reward_usage
		WHERE account_id = $1 AND day = $2
		ORDER BY channel_id ASC
	`
	rows, err := r.q.Query(ctx, query, accountID, entities.LogDay(day))
	if err != nil {
		return nil, fmt.Errorf("failed to get voice usage for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var usage []*entities.VoiceRewardUsage
	for rows.Next() {
		var u entities.VoiceRewardUsage
		if err := rows.Scan(&u.AccountID, &u.ChannelID, &u.Day, &u.Minutes, &u.Coins); err != nil {
			return nil, fmt.Errorf("failed to scan voice usage: %w", err)
		}
		usage = append(usage, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate voice usage: %w", err)
	}
	return usage, nil
}
