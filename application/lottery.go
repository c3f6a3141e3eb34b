package application

import (
	"context"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/interfaces"
	"herocraft/domain/services"
	"herocraft/domain/utils"
	"herocraft/infrastructure/observability"
)

// Lottery runs ticket operations and drawings, each in its own unit of work
type Lottery struct {
	ledger *Ledger
	rng    entities.RandomSource
	clock  utils.Clock
	rules  services.LotteryRules
}

// NewLottery creates the lottery entry point
func NewLottery(ledger *Ledger, rng entities.RandomSource, clock utils.Clock, rules services.LotteryRules) *Lottery {
	return &Lottery{
		ledger: ledger,
		rng:    rng,
		clock:  clock,
		rules:  rules,
	}
}

func (l *Lottery) service(tx *LedgerTx) interfaces.LotteryService {
	uow := tx.UnitOfWork
	return services.NewLotteryService(
		tx.Ledger,
		uow.LotteryStateRepository(),
		uow.LotteryTicketRepository(),
		uow.LotteryDrawingRepository(),
		uow.EventBus(),
		l.rng,
		l.rules,
	)
}

// BuyTicket buys a ticket with the member's own numbers
func (l *Lottery) BuyTicket(ctx context.Context, accountID int64, numbers []int, bonus int) (*interfaces.LotteryPurchaseResult, error) {
	// Reject bad numbers before taking any lock
	if _, err := entities.ValidateTicketNumbers(numbers, bonus); err != nil {
		return nil, err
	}

	var result *interfaces.LotteryPurchaseResult
	err := l.ledger.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		result, err = l.service(tx).BuyTicket(ctx, accountID, numbers, bonus)
		return err
	})
	if err != nil {
		return nil, err
	}
	observability.GetMetrics().RecordLotteryTicket(false)
	return result, nil
}

// QuickPick buys a ticket with random numbers
func (l *Lottery) QuickPick(ctx context.Context, accountID int64) (*interfaces.LotteryPurchaseResult, error) {
	var result *interfaces.LotteryPurchaseResult
	err := l.ledger.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		result, err = l.service(tx).QuickPick(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	observability.GetMetrics().RecordLotteryTicket(true)
	return result, nil
}

// DiscardTickets drops tickets by their 1-based position without refund
func (l *Lottery) DiscardTickets(ctx context.Context, accountID int64, indices []int) (int, error) {
	var discarded int
	err := l.ledger.WithAccounts(ctx, []int64{accountID}, func(tx *LedgerTx) error {
		var err error
		discarded, err = l.service(tx).DiscardTickets(ctx, accountID, indices)
		return err
	})
	return discarded, err
}

// Tickets returns the member's tickets in purchase order
func (l *Lottery) Tickets(ctx context.Context, accountID int64) ([]*entities.LotteryTicket, error) {
	var tickets []*entities.LotteryTicket
	err := l.ledger.inUnitOfWork(ctx, func(tx *LedgerTx) error {
		var err error
		tickets, err = l.service(tx).GetTickets(ctx, accountID)
		return err
	})
	return tickets, err
}

// Status returns the pot, the next drawing time and participation
func (l *Lottery) Status(ctx context.Context) (*interfaces.LotteryStatus, error) {
	var status *interfaces.LotteryStatus
	err := l.ledger.inUnitOfWork(ctx, func(tx *LedgerTx) error {
		var err error
		status, err = l.service(tx).GetStatus(ctx)
		return err
	})
	return status, err
}

// EnsureScheduled stores the first drawing time if none exists
func (l *Lottery) EnsureScheduled(ctx context.Context) (*entities.LotteryState, error) {
	var state *entities.LotteryState
	err := l.ledger.inUnitOfWork(ctx, func(tx *LedgerTx) error {
		var err error
		state, err = l.service(tx).EnsureScheduled(ctx, l.clock.Now())
		return err
	})
	return state, err
}

// ConductDrawing runs the drawing when it is due and returns nil otherwise.
// Winners are row-locked inside the transaction in ascending order.
func (l *Lottery) ConductDrawing(ctx context.Context) (*entities.LotteryDrawing, error) {
	var drawing *entities.LotteryDrawing
	err := l.ledger.inUnitOfWork(ctx, func(tx *LedgerTx) error {
		var err error
		drawing, err = l.service(tx).ConductDrawing(ctx, l.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	if drawing != nil {
		observability.GetMetrics().RecordLotteryDrawing(drawing.HasWinners())
	}
	return drawing, nil
}

// NextDrawingIn returns the time until the scheduled drawing
func (l *Lottery) NextDrawingIn(status *interfaces.LotteryStatus) time.Duration {
	if status == nil || status.NextDrawingAt == nil {
		return 0
	}
	return max(0, status.NextDrawingAt.Sub(l.clock.Now()))
}
