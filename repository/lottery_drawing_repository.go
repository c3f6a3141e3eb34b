package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"herocraft/database"
	"herocraft/domain/entities"

	"github.com/jackc/pgx/v5"
)

// LotteryDrawingRepository stores the append-only drawing log
type LotteryDrawingRepository struct {
	q Queryable
}

// NewLotteryDrawingRepository creates a drawing log repository on the pool
func NewLotteryDrawingRepository(db *database.DB) *LotteryDrawingRepository {
	return &LotteryDrawingRepository{q: db.Pool}
}

func newLotteryDrawingRepository(tx Queryable) *LotteryDrawingRepository {
	return &LotteryDrawingRepository{q: tx}
}

const lotteryDrawingColumns = `id, winning_numbers::int[], winning_bonus, pot_before, total_paid, pot_after, winners, non_winners, log_day, drawn_at`

func scanLotteryDrawing(row pgx.Row) (*entities.LotteryDrawing, error) {
	var d entities.LotteryDrawing
	var winnersJSON, nonWinnersJSON []byte
	err := row.Scan(
		&d.ID,
		&d.WinningNumbers,
		&d.WinningBonus,
		&d.PotBefore,
		&d.TotalPaid,
		&d.PotAfter,
		&winnersJSON,
		&nonWinnersJSON,
		&d.LogDay,
		&d.DrawnAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(winnersJSON, &d.Winners); err != nil {
		return nil, fmt.Errorf("failed to unmarshal winners: %w", err)
	}
	if err := json.Unmarshal(nonWinnersJSON, &d.NonWinners); err != nil {
		return nil, fmt.Errorf("failed to unmarshal non-winners: %w", err)
	}
	return &d, nil
}

// Create appends a drawing record and fills its id
func (r *LotteryDrawingRepository) Create(ctx context.Context, drawing *entities.LotteryDrawing) error {
	winners := drawing.Winners
	if winners == nil {
		winners = []entities.LotteryWinnerEntry{}
	}
	nonWinners := drawing.NonWinners
	if nonWinners == nil {
		nonWinners = []entities.LotteryNonWinnerEntry{}
	}
	winnersJSON, err := json.Marshal(winners)
	if err != nil {
		return fmt.Errorf("failed to marshal winners: %w", err)
	}
	nonWinnersJSON, err := json.Marshal(nonWinners)
	if err != nil {
		return fmt.Errorf("failed to marshal non-winners: %w", err)
	}

	query := `
		INSERT INTO lottery_drawings
		(winning_numbers, winning_bonus, pot_before, total_paid, pot_after, winners, non_winners, log_day, drawn_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = r.q.QueryRow(ctx, query,
		drawing.WinningNumbers,
		drawing.WinningBonus,
		drawing.PotBefore,
		drawing.TotalPaid,
		drawing.PotAfter,
		winnersJSON,
		nonWinnersJSON,
		drawing.LogDay,
		drawing.DrawnAt,
	).Scan(&drawing.ID)
	if err != nil {
		return fmt.Errorf("failed to create lottery drawing: %w", err)
	}
	return nil
}

// GetLatest returns nil before the first drawing
func (r *LotteryDrawingRepository) GetLatest(ctx context.Context) (*entities.LotteryDrawing, error) {
	query := `
		SELECT ` + lotteryDrawingColumns + `
		FROM lottery_drawings
		ORDER BY drawn_at DESC, id DESC
		LIMIT 1
	`
	d, err := scanLotteryDrawing(r.q.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest lottery drawing: %w", err)
	}
	return d, nil
}

func (r *LotteryDrawingRepository) GetByDay(ctx context.Context, day time.Time) ([]*entities.LotteryDrawing, error) {
	query := `
		SELECT ` + lotteryDrawingColumns + `
		FROM lottery_drawings
		WHERE log_day = $1
		ORDER BY drawn_at ASC, id ASC
	`
	rows, err := r.q.Query(ctx, query, entities.LogDay(day))
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery drawings for %s: %w", day.Format(time.DateOnly), err)
	}
	defer rows.Close()

	var drawings []*entities.LotteryDrawing
	for rows.Next() {
		d, err := scanLotteryDrawing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery drawing: %w", err)
		}
		drawings = append(drawings, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lottery drawings: %w", err)
	}
	return drawings, nil
}
