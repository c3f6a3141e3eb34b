package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"herocraft/domain/entities"
	"herocraft/domain/events"
	"herocraft/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LotteryRules are the configured drawing parameters
type LotteryRules struct {
	TicketPrice          int64
	PotMultiplier        int64
	MaxTicketsPerAccount int
	DrawingHour          int
	DrawingMinute        int
}

// lotteryService implements business logic for the daily drawing
type lotteryService struct {
	ledger         interfaces.LedgerService
	stateRepo      interfaces.LotteryStateRepository
	ticketRepo     interfaces.LotteryTicketRepository
	drawingRepo    interfaces.LotteryDrawingRepository
	eventPublisher interfaces.EventPublisher
	rng            entities.RandomSource
	rules          LotteryRules
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	ledger interfaces.LedgerService,
	stateRepo interfaces.LotteryStateRepository,
	ticketRepo interfaces.LotteryTicketRepository,
	drawingRepo interfaces.LotteryDrawingRepository,
	eventPublisher interfaces.EventPublisher,
	rng entities.RandomSource,
	rules LotteryRules,
) interfaces.LotteryService {
	return &lotteryService{
		ledger:         ledger,
		stateRepo:      stateRepo,
		ticketRepo:     ticketRepo,
		drawingRepo:    drawingRepo,
		eventPublisher: eventPublisher,
		rng:            rng,
		rules:          rules,
	}
}

// BuyTicket validates the numbers and buys one ticket
func (s *lotteryService) BuyTicket(ctx context.Context, accountID int64, numbers []int, bonus int) (*interfaces.LotteryPurchaseResult, error) {
	sorted, err := entities.ValidateTicketNumbers(numbers, bonus)
	if err != nil {
		return nil, err
	}
	return s.purchase(ctx, accountID, sorted, bonus, false)
}

// QuickPick buys a ticket with server-drawn numbers
func (s *lotteryService) QuickPick(ctx context.Context, accountID int64) (*interfaces.LotteryPurchaseResult, error) {
	numbers, bonus := entities.DrawLotteryNumbers(s.rng)
	return s.purchase(ctx, accountID, numbers, bonus, true)
}

func (s *lotteryService) purchase(ctx context.Context, accountID int64, numbers []int, bonus int, quickPick bool) (*interfaces.LotteryPurchaseResult, error) {
	// Lock order is state row, then account row, the same as a drawing
	if _, err := s.stateRepo.GetForUpdate(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to lock lottery state: %w", entities.ErrPersistenceFailure, err)
	}

	// The account row lock serializes the cap check with concurrent purchases
	account, err := s.ledger.LockAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	held, err := s.ticketRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count tickets: %w", entities.ErrPersistenceFailure, err)
	}
	if held >= s.rules.MaxTicketsPerAccount {
		return nil, &entities.TicketLimitError{Held: held, Max: s.rules.MaxTicketsPerAccount}
	}
	if !account.CanAfford(s.rules.TicketPrice) {
		return nil, &entities.InsufficientFundsError{Balance: account.Balance, Required: s.rules.TicketPrice}
	}

	newBalance, err := s.ledger.Debit(ctx, accountID, s.rules.TicketPrice, entities.TransactionTypeLotteryTicket, map[string]any{
		"numbers":    numbers,
		"bonus":      bonus,
		"quick_pick": quickPick,
	})
	if err != nil {
		return nil, err
	}

	ticket := &entities.LotteryTicket{
		AccountID: accountID,
		Numbers:   numbers,
		Bonus:     bonus,
		Price:     s.rules.TicketPrice,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("%w: failed to create ticket: %w", entities.ErrPersistenceFailure, err)
	}

	pot, err := s.stateRepo.AddToPot(ctx, s.rules.TicketPrice*s.rules.PotMultiplier)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to increment pot: %w", entities.ErrPersistenceFailure, err)
	}

	if err := s.eventPublisher.Publish(events.LotteryTicketPurchasedEvent{
		AccountID: accountID,
		TicketID:  ticket.ID,
		Pot:       pot,
		QuickPick: quickPick,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ticket purchased event")
	}

	return &interfaces.LotteryPurchaseResult{
		Ticket:     ticket,
		NewBalance: newBalance,
		Pot:        pot,
		Held:       held + 1,
		Max:        s.rules.MaxTicketsPerAccount,
	}, nil
}

// DiscardTickets removes tickets by 1-based position. Any invalid index rejects the whole request.
func (s *lotteryService) DiscardTickets(ctx context.Context, accountID int64, indices []int) (int, error) {
	if len(indices) == 0 {
		return 0, fmt.Errorf("%w: no tickets selected", entities.ErrInvalidTicketIndex)
	}

	tickets, err := s.ticketRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get tickets: %w", entities.ErrPersistenceFailure, err)
	}

	seen := make(map[int]struct{}, len(indices))
	ids := make([]int64, 0, len(indices))
	for _, idx := range indices {
		if idx < 1 || idx > len(tickets) {
			return 0, fmt.Errorf("%w: %d (you hold %d tickets)", entities.ErrInvalidTicketIndex, idx, len(tickets))
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		ids = append(ids, tickets[idx-1].ID)
	}

	deleted, err := s.ticketRepo.DeleteByIDs(ctx, accountID, ids)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to discard tickets: %w", entities.ErrPersistenceFailure, err)
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"discarded": deleted,
	}).Info("Lottery tickets discarded")

	return int(deleted), nil
}

func (s *lotteryService) GetTickets(ctx context.Context, accountID int64) ([]*entities.LotteryTicket, error) {
	tickets, err := s.ticketRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get tickets: %w", entities.ErrPersistenceFailure, err)
	}
	return tickets, nil
}

func (s *lotteryService) GetStatus(ctx context.Context) (*interfaces.LotteryStatus, error) {
	state, err := s.stateRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get lottery state: %w", entities.ErrPersistenceFailure, err)
	}
	participants, err := s.ticketRepo.CountParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count participants: %w", entities.ErrPersistenceFailure, err)
	}
	tickets, err := s.ticketRepo.CountTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count tickets: %w", entities.ErrPersistenceFailure, err)
	}
	last, err := s.drawingRepo.GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get last drawing: %w", entities.ErrPersistenceFailure, err)
	}

	return &interfaces.LotteryStatus{
		Pot:           state.Pot,
		NextDrawingAt: state.NextDrawingAt,
		Participants:  participants,
		Tickets:       tickets,
		TicketPrice:   s.rules.TicketPrice,
		LastDrawing:   last,
	}, nil
}

func (s *lotteryService) EnsureScheduled(ctx context.Context, now time.Time) (*entities.LotteryState, error) {
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to lock lottery state: %w", entities.ErrPersistenceFailure, err)
	}
	if state.NextDrawingAt != nil {
		return state, nil
	}

	next := entities.NextDailyOccurrence(now, s.rules.DrawingHour, s.rules.DrawingMinute)
	state.NextDrawingAt = &next
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, fmt.Errorf("%w: failed to schedule drawing: %w", entities.ErrPersistenceFailure, err)
	}

	log.WithField("nextDrawingAt", next).Info("Scheduled first lottery drawing")
	return state, nil
}

// ConductDrawing runs one drawing when due. The state row lock makes a concurrent
// second caller wait, then see the advanced drawing time and return nil.
func (s *lotteryService) ConductDrawing(ctx context.Context, now time.Time) (*entities.LotteryDrawing, error) {
	state, err := s.stateRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to lock lottery state: %w", entities.ErrPersistenceFailure, err)
	}
	if !state.IsDue(now) {
		return nil, nil
	}

	tickets, err := s.ticketRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get tickets: %w", entities.ErrPersistenceFailure, err)
	}

	winning, bonus := entities.DrawLotteryNumbers(s.rng)
	drawing := entities.ResolveLotteryDrawing(state.Pot, tickets, winning, bonus, now)

	if err := s.payWinners(ctx, drawing); err != nil {
		return nil, err
	}

	if _, err := s.ticketRepo.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to clear tickets: %w", entities.ErrPersistenceFailure, err)
	}

	next := entities.NextDailyOccurrence(now, s.rules.DrawingHour, s.rules.DrawingMinute)
	state.Pot = drawing.PotAfter
	state.NextDrawingAt = &next
	if err := s.stateRepo.Update(ctx, state); err != nil {
		return nil, fmt.Errorf("%w: failed to update lottery state: %w", entities.ErrPersistenceFailure, err)
	}

	if err := s.drawingRepo.Create(ctx, drawing); err != nil {
		return nil, fmt.Errorf("%w: failed to log drawing: %w", entities.ErrPersistenceFailure, err)
	}

	if err := s.eventPublisher.Publish(events.LotteryDrawnEvent{
		DrawingID:      drawing.ID,
		WinningNumbers: drawing.WinningNumbers,
		WinningBonus:   drawing.WinningBonus,
		PotBefore:      drawing.PotBefore,
		TotalPaid:      drawing.TotalPaid,
		PotAfter:       drawing.PotAfter,
		Winners:        len(drawing.Winners),
		Tickets:        len(tickets),
		NextDrawingAt:  next,
		Payouts:        drawing.Winners,
	}); err != nil {
		log.WithError(err).Error("Failed to publish lottery drawn event")
	}

	fields := log.Fields{
		"winningNumbers": entities.FormatLotteryNumbers(winning, bonus),
		"potBefore":      drawing.PotBefore,
		"totalPaid":      drawing.TotalPaid,
		"potAfter":       drawing.PotAfter,
		"tickets":        len(tickets),
		"nextDrawingAt":  next,
	}
	if drawing.HasWinners() {
		log.WithFields(fields).WithField("winners", len(drawing.Winners)).Info("Lottery drawing completed")
	} else {
		log.WithFields(fields).Info("Lottery drawing completed: no winners, pot rolled over")
	}

	return drawing, nil
}

// payWinners credits each account once with the sum of its winning tickets,
// in ascending account order to keep row locking consistent.
func (s *lotteryService) payWinners(ctx context.Context, drawing *entities.LotteryDrawing) error {
	totals := make(map[int64]int64)
	tiers := make(map[int64][]entities.LotteryTier)
	for _, w := range drawing.Winners {
		totals[w.AccountID] += w.Payout
		tiers[w.AccountID] = append(tiers[w.AccountID], w.Tier)
	}

	accountIDs := make([]int64, 0, len(totals))
	for id := range totals {
		accountIDs = append(accountIDs, id)
	}
	sort.Slice(accountIDs, func(i, j int) bool { return accountIDs[i] < accountIDs[j] })

	for _, id := range accountIDs {
		if totals[id] == 0 {
			continue
		}
		if _, err := s.ledger.Credit(ctx, id, totals[id], entities.TransactionTypeLotteryWin, map[string]any{
			"tiers":           tiers[id],
			"winning_numbers": drawing.WinningNumbers,
			"winning_bonus":   drawing.WinningBonus,
			"pot_before":      drawing.PotBefore,
		}); err != nil {
			return fmt.Errorf("failed to pay lottery winner %d: %w", id, err)
		}
	}
	return nil
}
