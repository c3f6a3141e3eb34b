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

// WheelSettlementRepository stores the append-only wheel log
type WheelSettlementRepository struct {
	q Queryable
}

// NewWheelSettlementRepository creates a wheel log repository on the pool
func NewWheelSettlementRepository(db *database.DB) *WheelSettlementRepository {
	return &WheelSettlementRepository{q: db.Pool}
}

func newWheelSettlementRepository(tx Queryable) *WheelSettlementRepository {
	return &WheelSettlementRepository{q: tx}
}

const wheelSettlementColumns = `id, cycle, outcome, multiplier, winners, losers, total_staked, total_paid, log_day, settled_at`

func scanWheelSettlement(row pgx.Row) (*entities.WheelSettlement, error) {
	var s entities.WheelSettlement
	var winnersJSON, losersJSON []byte
	err := row.Scan(
		&s.ID,
		&s.Cycle,
		&s.Outcome,
		&s.Multiplier,
		&winnersJSON,
		&losersJSON,
		&s.TotalStaked,
		&s.TotalPaid,
		&s.LogDay,
		&s.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(winnersJSON, &s.Winners); err != nil {
		return nil, fmt.Errorf("failed to unmarshal winners: %w", err)
	}
	if err := json.Unmarshal(losersJSON, &s.Losers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal losers: %w", err)
	}
	return &s, nil
}

// Create appends one settlement record
func (r *WheelSettlementRepository) Create(ctx context.Context, settlement *entities.WheelSettlement) error {
	winners := settlement.Winners
	if winners == nil {
		winners = []entities.WheelSettlementEntry{}
	}
	losers := settlement.Losers
	if losers == nil {
		losers = []entities.WheelSettlementEntry{}
	}
	winnersJSON, err := json.Marshal(winners)
	if err != nil {
		return fmt.Errorf("failed to marshal winners: %w", err)
	}
	losersJSON, err := json.Marshal(losers)
	if err != nil {
		return fmt.Errorf("failed to marshal losers: %w", err)
	}

	query := `
		INSERT INTO wheel_settlements (` + wheelSettlementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.q.Exec(ctx, query,
		settlement.ID,
		settlement.Cycle,
		settlement.Outcome,
		settlement.Multiplier,
		winnersJSON,
		losersJSON,
		settlement.TotalStaked,
		settlement.TotalPaid,
		settlement.LogDay,
		settlement.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create wheel settlement for cycle %d: %w", settlement.Cycle, err)
	}
	return nil
}

// GetByDay returns the day's settlements in settlement order
func (r *WheelSettlementRepository) GetByDay(ctx context.Context, day time.Time) ([]*entities.WheelSettlement, error) {
	query := `
		SELECT ` + wheelSettlementColumns + `
		FROM wheel_settlements
		WHERE log_day = $1
		ORDER BY settled_at ASC, cycle ASC
	`

	rows, err := r.q.Query(ctx, query, entities.LogDay(day))
	if err != nil {
		return nil, fmt.Errorf("failed to get wheel settlements for %s: %w", day.Format(time.DateOnly), err)
	}
	defer rows.Close()

	var settlements []*entities.WheelSettlement
	for rows.Next() {
		s, err := scanWheelSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wheel settlement: %w", err)
		}
		settlements = append(settlements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wheel settlements: %w", err)
	}
	return settlements, nil
}

// GetLatest returns nil when the wheel has never settled
func (r *WheelSettlementRepository) GetLatest(ctx context.Context) (*entities.WheelSettlement, error) {
	query := `
		SELECT ` + wheelSettlementColumns + `
		FROM wheel_settlements
		ORDER BY settled_at DESC
		LIMIT 1
	`

	s, err := scanWheelSettlement(r.q.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest wheel settlement: %w", err)
	}
	return s, nil
}
