package entities

import "fmt"

// RandomSource yields uniform integers in [0, n)
type RandomSource interface {
	Intn(n int) int
}

// Suit values double as the tie-break ranking used in round two
type Suit int

const (
	SuitSpades   Suit = 1
	SuitClubs    Suit = 2
	SuitDiamonds Suit = 3
	SuitHearts   Suit = 4
)

// Rank runs from 2 to 14 (ace high)
type Rank int

const (
	RankTwo Rank = 2
	RankAce Rank = 14

	rankCount = 13
)

// Card is one draw. Draws are made with replacement, so the same card may repeat.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// DrawCard samples a card uniformly from the 52 combinations
func DrawCard(rng RandomSource) Card {
	return Card{
		Rank: RankTwo + Rank(rng.Intn(rankCount)),
		Suit: Suit(1 + rng.Intn(4)),
	}
}

// IsRed reports hearts and diamonds
func (c Card) IsRed() bool {
	return c.Suit == SuitHearts || c.Suit == SuitDiamonds
}

func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

func (r Rank) String() string {
	switch r {
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	case 14:
		return "A"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// Symbol returns the suit glyph
func (s Suit) Symbol() string {
	switch s {
	case SuitHearts:
		return "♥"
	case SuitDiamonds:
		return "♦"
	case SuitClubs:
		return "♣"
	case SuitSpades:
		return "♠"
	default:
		return "?"
	}
}

func (s Suit) String() string {
	switch s {
	case SuitHearts:
		return "hearts"
	case SuitDiamonds:
		return "diamonds"
	case SuitClubs:
		return "clubs"
	case SuitSpades:
		return "spades"
	default:
		return "unknown"
	}
}
