package entities

import (
	"errors"
	"time"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           int64           `db:"account_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

// GetTransactionDescription returns a human-readable description of the transaction
func (bh *BalanceHistory) GetTransactionDescription() string {
	switch bh.TransactionType {
	case TransactionTypeRideTheBusStake:
		return "Ride the bus stake"
	case TransactionTypeRideTheBusPayout:
		return "Ride the bus payout"
	case TransactionTypeWheelBet:
		return "Wheel bet"
	case TransactionTypeWheelRefund:
		return "Wheel refund"
	case TransactionTypeWheelPayout:
		return "Wheel payout"
	case TransactionTypeLotteryTicket:
		return "Lottery ticket"
	case TransactionTypeLotteryWin:
		return "Lottery win"
	case TransactionTypeTransferIn:
		return "Transfer received"
	case TransactionTypeTransferOut:
		return "Transfer sent"
	case TransactionTypeMessageReward:
		return "Message reward"
	case TransactionTypeVoiceReward:
		return "Voice reward"
	default:
		return string(bh.TransactionType)
	}
}

// ValidateTransaction checks that before, after and change agree.
// A clamped debit records the applied change, so the identity always holds.
func (bh *BalanceHistory) ValidateTransaction() error {
	if bh.BalanceAfter < 0 {
		return errors.New("balance cannot go negative")
	}
	if bh.BalanceAfter != bh.BalanceBefore+bh.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}
	return nil
}
