package repository

import (
	"context"
	"fmt"

	"herocraft/database"
	"herocraft/domain/entities"

	"github.com/jackc/pgx/v5"
)

// LotteryTicketRepository implements lottery ticket data access
type LotteryTicketRepository struct {
	q Queryable
}

// NewLotteryTicketRepository creates a ticket repository on the pool
func NewLotteryTicketRepository(db *database.DB) *LotteryTicketRepository {
	return &LotteryTicketRepository{q: db.Pool}
}

func newLotteryTicketRepository(tx Queryable) *LotteryTicketRepository {
	return &LotteryTicketRepository{q: tx}
}

// numbers are stored as SMALLINT[] and read back as int[] so pgx scans into []int
const lotteryTicketColumns = `id, account_id, numbers::int[], bonus, price, purchased_at`

func collectTickets(rows pgx.Rows) ([]*entities.LotteryTicket, error) {
	defer rows.Close()

	var tickets []*entities.LotteryTicket
	for rows.Next() {
		var ticket entities.LotteryTicket
		err := rows.Scan(
			&ticket.ID,
			&ticket.AccountID,
			&ticket.Numbers,
			&ticket.Bonus,
			&ticket.Price,
			&ticket.PurchasedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lottery tickets: %w", err)
	}
	return tickets, nil
}

// Create stores a ticket and fills its id and purchase time
func (r *LotteryTicketRepository) Create(ctx context.Context, ticket *entities.LotteryTicket) error {
	query := `
		INSERT INTO lottery_tickets (account_id, numbers, bonus, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, purchased_at
	`
	err := r.q.QueryRow(ctx, query, ticket.AccountID, ticket.Numbers, ticket.Bonus, ticket.Price).
		Scan(&ticket.ID, &ticket.PurchasedAt)
	if err != nil {
		return fmt.Errorf("failed to create lottery ticket for account %d: %w", ticket.AccountID, err)
	}
	return nil
}

// GetByAccount returns tickets in purchase order
func (r *LotteryTicketRepository) GetByAccount(ctx context.Context, accountID int64) ([]*entities.LotteryTicket, error) {
	query := `
		SELECT ` + lotteryTicketColumns + `
		FROM lottery_tickets
		WHERE account_id = $1
		ORDER BY id ASC
	`
	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for account %d: %w", accountID, err)
	}
	return collectTickets(rows)
}

func (r *LotteryTicketRepository) CountByAccount(ctx context.Context, accountID int64) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM lottery_tickets WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets for account %d: %w", accountID, err)
	}
	return count, nil
}

// GetAll returns every held ticket ordered by account then purchase
func (r *LotteryTicketRepository) GetAll(ctx context.Context) ([]*entities.LotteryTicket, error) {
	query := `
		SELECT ` + lotteryTicketColumns + `
		FROM lottery_tickets
		ORDER BY account_id ASC, id ASC
	`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all lottery tickets: %w", err)
	}
	return collectTickets(rows)
}

// DeleteByIDs removes the listed tickets, ignoring ids the account does not own
func (r *LotteryTicketRepository) DeleteByIDs(ctx context.Context, accountID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := r.q.Exec(ctx, `DELETE FROM lottery_tickets WHERE account_id = $1 AND id = ANY($2)`, accountID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tickets for account %d: %w", accountID, err)
	}
	return result.RowsAffected(), nil
}

func (r *LotteryTicketRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM lottery_tickets`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear lottery tickets: %w", err)
	}
	return result.RowsAffected(), nil
}

// CountParticipants returns the number of distinct ticket holders
func (r *LotteryTicketRepository) CountParticipants(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(DISTINCT account_id) FROM lottery_tickets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lottery participants: %w", err)
	}
	return count, nil
}

func (r *LotteryTicketRepository) CountTickets(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM lottery_tickets`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count lottery tickets: %w", err)
	}
	return count, nil
}
