package blackjack

import "testing"

func TestNewCardValues(t *testing.T) {
	tests := []struct {
		rank  Rank
		value int
	}{
		{Ace, 11},
		{Two, 2},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
	}

	for _, tt := range tests {
		c := NewCard(Spades, tt.rank)
		if c.Value != tt.value {
			t.Errorf("NewCard(%s) value = %d, want %d", tt.rank, c.Value, tt.value)
		}
	}
}

func TestHandTotal(t *testing.T) {
	hand := []Card{NewCard(Spades, Ace), NewCard(Hearts, King)}
	if got := HandTotal(hand); got != 21 {
		t.Errorf("HandTotal(A,K) = %d, want 21", got)
	}

	// Aces always count 11, so two aces bust.
	hand = []Card{NewCard(Spades, Ace), NewCard(Hearts, Ace)}
	if got := HandTotal(hand); got != 22 {
		t.Errorf("HandTotal(A,A) = %d, want 22", got)
	}

	if got := HandTotal(nil); got != 0 {
		t.Errorf("HandTotal(empty) = %d, want 0", got)
	}
}

func TestSeededShoeIsDeterministic(t *testing.T) {
	a := NewSeededShoe(42)
	b := NewSeededShoe(42)

	for i := 0; i < 20; i++ {
		ca, cb := a.Deal(), b.Deal()
		if ca != cb {
			t.Fatalf("draw %d differs: %v vs %v", i, ca, cb)
		}
		if ca.Value != rankValue(ca.Rank) {
			t.Errorf("dealt card %v has value %d, want %d", ca, ca.Value, rankValue(ca.Rank))
		}
	}
}
