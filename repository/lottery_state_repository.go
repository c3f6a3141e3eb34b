package repository

import (
	"context"
	"fmt"

	"herocraft/database"
	"herocraft/domain/entities"
)

// LotteryStateRepository implements access to the singleton drawing state row
type LotteryStateRepository struct {
	q Queryable
}

// NewLotteryStateRepository creates a lottery state repository on the pool
func NewLotteryStateRepository(db *database.DB) *LotteryStateRepository {
	return &LotteryStateRepository{q: db.Pool}
}

func newLotteryStateRepository(tx Queryable) *LotteryStateRepository {
	return &LotteryStateRepository{q: tx}
}

func (r *LotteryStateRepository) get(ctx context.Context, lock bool) (*entities.LotteryState, error) {
	query := `SELECT pot, next_drawing_at, updated_at FROM lottery_state WHERE id = 1`
	if lock {
		query += ` FOR UPDATE`
	}

	var state entities.LotteryState
	if err := r.q.QueryRow(ctx, query).Scan(&state.Pot, &state.NextDrawingAt, &state.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to get lottery state: %w", err)
	}
	return &state, nil
}

// Get returns the state without locking
func (r *LotteryStateRepository) Get(ctx context.Context) (*entities.LotteryState, error) {
	return r.get(ctx, false)
}

// GetForUpdate locks the state row until the transaction ends
func (r *LotteryStateRepository) GetForUpdate(ctx context.Context) (*entities.LotteryState, error) {
	return r.get(ctx, true)
}

// Update persists the pot and the next drawing time
func (r *LotteryStateRepository) Update(ctx context.Context, state *entities.LotteryState) error {
	query := `
		UPDATE lottery_state
		SET pot = $1, next_drawing_at = $2, updated_at = NOW()
		WHERE id = 1
		RETURNING updated_at
	`
	if err := r.q.QueryRow(ctx, query, state.Pot, state.NextDrawingAt).Scan(&state.UpdatedAt); err != nil {
		return fmt.Errorf("failed to update lottery state: %w", err)
	}
	return nil
}

// AddToPot increments the pot and returns the new value
func (r *LotteryStateRepository) AddToPot(ctx context.Context, amount int64) (int64, error) {
	query := `
		UPDATE lottery_state
		SET pot = pot + $1, updated_at = NOW()
		WHERE id = 1
		RETURNING pot
	`
	var pot int64
	if err := r.q.QueryRow(ctx, query, amount).Scan(&pot); err != nil {
		return 0, fmt.Errorf("failed to increment lottery pot by %d: %w", amount, err)
	}
	return pot, nil
}
