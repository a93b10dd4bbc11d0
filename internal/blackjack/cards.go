package blackjack

import (
	"math/rand"
	"time"
)

type Suit string
type Rank string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Clubs    Suit = "clubs"
	Diamonds Suit = "diams"
)

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

var suits = []Suit{Spades, Hearts, Clubs, Diamonds}
var ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Card is immutable once dealt. Rank keeps the "num" wire key the clients
// already parse.
type Card struct {
	Suit  Suit `json:"suit"`
	Rank  Rank `json:"num"`
	Value int  `json:"value"`
}

// rankValue maps a rank to its blackjack value. Aces always count 11; there
// is no soft/hard re-valuation in this game.
func rankValue(r Rank) int {
	switch r {
	case Ace:
		return 11
	case Ten, Jack, Queen, King:
		return 10
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	}
	return 0
}

// NewCard builds a card with its value derived from the rank.
func NewCard(s Suit, r Rank) Card {
	return Card{Suit: s, Rank: r, Value: rankValue(r)}
}

// Dealer is the card source the session transitions draw from.
type Dealer interface {
	Deal() Card
}

// Shoe deals from an infinite shoe: suit and rank are drawn independently
// and uniformly, so no depletion tracking is needed and Deal never fails.
type Shoe struct {
	rng *rand.Rand
}

func NewShoe() *Shoe {
	return &Shoe{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededShoe returns a shoe with a deterministic draw sequence.
func NewSeededShoe(seed int64) *Shoe {
	return &Shoe{rng: rand.New(rand.NewSource(seed))}
}

func (s *Shoe) Deal() Card {
	suit := suits[s.rng.Intn(len(suits))]
	rank := ranks[s.rng.Intn(len(ranks))]
	return NewCard(suit, rank)
}

// HandTotal sums card values. With aces fixed at 11 this is a plain sum.
func HandTotal(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += c.Value
	}
	return total
}
