package entities

// TransactionType represents the type of balance change
type TransactionType string

// All transaction types supported by the system
const (
	// Ride the bus
	TransactionTypeRideTheBusStake  TransactionType = "ridethebus_stake"
	TransactionTypeRideTheBusPayout TransactionType = "ridethebus_payout"

	// Wheel
	TransactionTypeWheelBet    TransactionType = "wheel_bet"
	TransactionTypeWheelRefund TransactionType = "wheel_refund"
	TransactionTypeWheelPayout TransactionType = "wheel_payout"

	// Lottery
	TransactionTypeLotteryTicket TransactionType = "lottery_ticket"
	TransactionTypeLotteryWin    TransactionType = "lottery_win"

	// Transfers
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"

	// Activity rewards and manual changes
	TransactionTypeMessageReward TransactionType = "message_reward"
	TransactionTypeVoiceReward   TransactionType = "voice_reward"
	TransactionTypeAdjustment    TransactionType = "adjustment"
)

// IsPayout returns true if the transaction pays out a game win
func (tt TransactionType) IsPayout() bool {
	return tt == TransactionTypeRideTheBusPayout ||
		tt == TransactionTypeWheelPayout ||
		tt == TransactionTypeLotteryWin
}

// IsWager returns true if the transaction escrows coins for a game
func (tt TransactionType) IsWager() bool {
	return tt == TransactionTypeRideTheBusStake ||
		tt == TransactionTypeWheelBet ||
		tt == TransactionTypeLotteryTicket
}

// IsReward returns true for activity rewards
func (tt TransactionType) IsReward() bool {
	return tt == TransactionTypeMessageReward || tt == TransactionTypeVoiceReward
}

func (tt TransactionType) String() string {
	return string(tt)
}
