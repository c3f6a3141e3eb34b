package entities

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared by the ledger and the game engines
var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSessionAlreadyActive = errors.New("session already active")
	ErrNoActiveSession      = errors.New("no active session")
	ErrTicketLimitExceeded  = errors.New("ticket limit exceeded")
	ErrInvalidTicketNumbers = errors.New("invalid ticket numbers")
	ErrBettingClosed        = errors.New("betting closed")
	ErrPersistenceFailure   = errors.New("persistence failure")
	ErrInvalidStake         = errors.New("invalid stake")
	ErrInvalidChoice        = errors.New("invalid choice")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrSelfTransfer         = errors.New("cannot transfer to yourself")
	ErrUnknownOutcome       = errors.New("unknown wheel outcome")
	ErrInvalidTicketIndex   = errors.New("invalid ticket index")
)

// InsufficientFundsError reports the balance seen when a debit was refused
type InsufficientFundsError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d, required %d", e.Balance, e.Required)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// TicketLimitError reports how many tickets the account already holds
type TicketLimitError struct {
	Held int
	Max  int
}

func (e *TicketLimitError) Error() string {
	return fmt.Sprintf("ticket limit exceeded: holding %d of %d", e.Held, e.Max)
}

func (e *TicketLimitError) Is(target error) bool {
	return target == ErrTicketLimitExceeded
}

// BettingClosedError carries the wheel phase and the time until betting reopens.
// OpensIn is zero when the wheel is stopped.
type BettingClosedError struct {
	Phase   WheelPhase
	OpensIn time.Duration
}

func (e *BettingClosedError) Error() string {
	if e.OpensIn > 0 {
		return fmt.Sprintf("betting closed: wheel is %s, opens in %s", e.Phase, e.OpensIn.Round(time.Second))
	}
	return fmt.Sprintf("betting closed: wheel is %s", e.Phase)
}

func (e *BettingClosedError) Is(target error) bool {
	return target == ErrBettingClosed
}

// StakeRangeError carries the accepted stake bounds
type StakeRangeError struct {
	Stake int64
	Min   int64
	Max   int64
}

func (e *StakeRangeError) Error() string {
	return fmt.Sprintf("invalid stake %d: must be between %d and %d", e.Stake, e.Min, e.Max)
}

func (e *StakeRangeError) Is(target error) bool {
	return target == ErrInvalidStake
}
