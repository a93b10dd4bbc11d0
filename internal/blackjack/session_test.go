package blackjack

import "testing"

// scriptDealer deals a fixed sequence of cards.
type scriptDealer struct {
	cards []Card
	next  int
}

func (d *scriptDealer) Deal() Card {
	c := d.cards[d.next]
	d.next++
	return c
}

func deck(pairs ...[2]Rank) *scriptDealer {
	d := &scriptDealer{}
	for _, p := range pairs {
		d.cards = append(d.cards, NewCard(Spades, p[0]), NewCard(Hearts, p[1]))
	}
	return d
}

func card(r Rank) Card { return NewCard(Clubs, r) }

func TestJoinSeatsLowestEmptyIndex(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())

	idx, ok := s.Join("c1", "alice")
	if !ok || idx != 0 {
		t.Fatalf("first join = (%d, %v), want (0, true)", idx, ok)
	}
	idx, ok = s.Join("c2", "bob")
	if !ok || idx != 1 {
		t.Fatalf("second join = (%d, %v), want (1, true)", idx, ok)
	}

	// Freeing a middle seat makes it the lowest available again.
	if _, ok := s.Leave("c1"); !ok {
		t.Fatal("leave for seated connection failed")
	}
	idx, ok = s.Join("c3", "carol")
	if !ok || idx != 0 {
		t.Fatalf("join after leave = (%d, %v), want (0, true)", idx, ok)
	}

	if s.OccupiedCount() != 2 {
		t.Errorf("OccupiedCount = %d, want 2", s.OccupiedCount())
	}
}

func TestJoinRejectsDuplicateAndFullTable(t *testing.T) {
	s := NewSession("g1", "alice", Rules{MaxSeats: 2, StartingChips: 100, DealerStandTotal: 17})

	s.Join("c1", "alice")
	if _, ok := s.Join("c1", "alice"); ok {
		t.Error("duplicate connection was seated twice")
	}

	s.Join("c2", "bob")
	if _, ok := s.Join("c3", "carol"); ok {
		t.Error("join succeeded on a full table")
	}
}

func TestRejoinGetsFreshBankroll(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	idx, _ := s.Join("c1", "alice")
	s.Seat(idx).Dollars = 5

	s.Leave("c1")
	idx, _ = s.Join("c1", "alice")
	if got := s.Seat(idx).Dollars; got != 100 {
		t.Errorf("rejoined bankroll = %d, want 100", got)
	}
}

func TestStartBettingRoundIsGuarded(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")

	if !s.StartBettingRound() {
		t.Fatal("first StartBettingRound returned false")
	}
	if s.Phase != PhaseAwaitingReady {
		t.Fatalf("phase = %q, want %q", s.Phase, PhaseAwaitingReady)
	}

	s.MarkReady(0, 10)
	if s.StartBettingRound() {
		t.Fatal("repeated StartBettingRound was not rejected")
	}
	// The rejected call must not clobber the placed bet.
	if got := s.Seat(0).CurrentBet; got != 10 {
		t.Errorf("bet after rejected restart = %d, want 10", got)
	}
}

func TestMarkReadyDebitsBet(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.StartBettingRound()

	if !s.MarkReady(0, 10) {
		t.Fatal("MarkReady failed for awaiting seat")
	}
	p := s.Seat(0)
	if p.Dollars != 90 || p.CurrentBet != 10 || p.State != SeatReady {
		t.Errorf("after ready: dollars=%d bet=%d state=%q", p.Dollars, p.CurrentBet, p.State)
	}

	// A second ready on the same seat must not double-debit.
	if s.MarkReady(0, 10) {
		t.Error("MarkReady succeeded on an already-ready seat")
	}
	if s.Seat(0).Dollars != 90 {
		t.Errorf("dollars after repeat ready = %d, want 90", s.Seat(0).Dollars)
	}

	if s.MarkReady(2, 10) {
		t.Error("MarkReady succeeded on an empty seat")
	}
}

func TestAllReady(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.Join("c2", "bob")

	if s.AllReady() {
		t.Error("AllReady true before betting phase")
	}

	s.StartBettingRound()
	s.MarkReady(0, 10)
	if s.AllReady() {
		t.Error("AllReady true with one seat still awaiting")
	}
	s.MarkReady(1, 5)
	if !s.AllReady() {
		t.Error("AllReady false with every seat ready")
	}
}

func TestBeginPlayDealsTwoCardsEach(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.Join("c2", "bob")
	s.StartBettingRound()
	s.MarkReady(0, 10)
	s.MarkReady(1, 10)

	if !s.BeginPlay(NewSeededShoe(1)) {
		t.Fatal("BeginPlay returned false")
	}
	if s.Phase != PhaseActive {
		t.Fatalf("phase = %q, want %q", s.Phase, PhaseActive)
	}
	if len(s.DealerHand) != 2 {
		t.Errorf("dealer hand size = %d, want 2", len(s.DealerHand))
	}
	for i := 0; i < 2; i++ {
		p := s.Seat(i)
		if len(p.Hand) != 2 {
			t.Errorf("seat %d hand size = %d, want 2", i, len(p.Hand))
		}
		if p.State != SeatActive {
			t.Errorf("seat %d state = %q, want %q", i, p.State, SeatActive)
		}
	}

	// A concurrent second deal must be rejected and deal nothing.
	if s.BeginPlay(NewSeededShoe(2)) {
		t.Fatal("repeated BeginPlay was not rejected")
	}
	if len(s.DealerHand) != 2 {
		t.Errorf("dealer hand size after rejected deal = %d", len(s.DealerHand))
	}
}

func TestCheckInitialBlackjacks(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.Join("c2", "bob")
	s.StartBettingRound()
	s.MarkReady(0, 10)
	s.MarkReady(1, 10)

	// Deal order: dealer, dealer, seat0, seat0, seat1, seat1.
	d := &scriptDealer{cards: []Card{
		card(King), card(Nine), // dealer 19
		card(Ace), card(Queen), // seat 0: natural
		card(Five), card(Six), // seat 1: 11
	}}
	s.BeginPlay(d)
	s.CheckInitialBlackjacks()

	if s.DealerBlackjack {
		t.Error("dealer flagged blackjack on 19")
	}
	if got := s.Seat(0).State; got != SeatBlackjack {
		t.Errorf("seat 0 state = %q, want %q", got, SeatBlackjack)
	}
	// The natural seat is skipped, so the turn lands on seat 1.
	if s.CurrentTurn != 1 {
		t.Errorf("CurrentTurn = %d, want 1", s.CurrentTurn)
	}
}

func TestCheckInitialBlackjacksDealerNatural(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.StartBettingRound()
	s.MarkReady(0, 10)

	d := &scriptDealer{cards: []Card{
		card(Ace), card(Ten), // dealer 21
		card(Five), card(Six),
	}}
	s.BeginPlay(d)
	s.CheckInitialBlackjacks()

	if !s.DealerBlackjack {
		t.Error("dealer natural was not flagged")
	}
}

func TestHitAndDouble(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.StartBettingRound()
	s.MarkReady(0, 10)
	s.BeginPlay(&scriptDealer{cards: []Card{
		card(Ten), card(Seven),
		card(Five), card(Six),
	}})

	if !s.Hit(0, false, &scriptDealer{cards: []Card{card(Two)}}) {
		t.Fatal("Hit failed for occupied seat")
	}
	p := s.Seat(0)
	if len(p.Hand) != 3 || p.HandTotal() != 13 {
		t.Errorf("after hit: hand size %d total %d", len(p.Hand), p.HandTotal())
	}

	if !s.Hit(0, true, &scriptDealer{cards: []Card{card(Three)}}) {
		t.Fatal("double failed for occupied seat")
	}
	if p.CurrentBet != 20 {
		t.Errorf("bet after double = %d, want 20", p.CurrentBet)
	}
	if p.Dollars != 80 {
		t.Errorf("dollars after double = %d, want 80", p.Dollars)
	}

	if s.Hit(2, false, &scriptDealer{cards: []Card{card(Two)}}) {
		t.Error("Hit succeeded on an empty seat")
	}
}

func TestAdvanceTurnRunsPastSeats(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.Join("c2", "bob")
	s.StartBettingRound()
	s.MarkReady(0, 10)
	s.MarkReady(1, 10)
	s.BeginPlay(NewSeededShoe(7))

	s.CurrentTurn = -1
	if got := s.AdvanceTurn(); got != 0 {
		t.Fatalf("first advance = %d, want 0", got)
	}
	if got := s.AdvanceTurn(); got != 1 {
		t.Fatalf("second advance = %d, want 1", got)
	}

	next := s.AdvanceTurn()
	if next < s.Rules.MaxSeats {
		t.Fatalf("advance past last seat = %d, want >= %d", next, s.Rules.MaxSeats)
	}
	if !s.TurnIsDealer() {
		t.Error("TurnIsDealer false after cursor ran past seats")
	}
}

func TestDealerFinalTurnDrawsToStandTotal(t *testing.T) {
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.StartBettingRound()
	s.MarkReady(0, 10)
	s.BeginPlay(&scriptDealer{cards: []Card{
		card(Five), card(Six), // dealer 11
		card(Ten), card(Nine), // seat 0: 19
	}})
	s.CheckInitialBlackjacks()

	s.DealerFinalTurn(&scriptDealer{cards: []Card{card(Four), card(Three)}})

	if got := s.DealerTotal(); got != 18 {
		t.Errorf("dealer total = %d, want 18", got)
	}
	if s.Phase != PhaseIdle {
		t.Errorf("phase after settle = %q, want %q", s.Phase, PhaseIdle)
	}
	// 19 beats 18: bet refunded plus winnings.
	p := s.Seat(0)
	if p.Outcome != OutcomeWin || p.Dollars != 110 {
		t.Errorf("seat 0 outcome=%q dollars=%d, want win/110", p.Outcome, p.Dollars)
	}
}

func TestSettlementOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		playerCards [2]Rank
		extra       []Rank // hits before the dealer turn
		dealerCards [2]Rank
		dealerDraw  []Rank
		wantOutcome Outcome
		wantDollars int // from 100 with a 10 bet
	}{
		{
			name:        "bust loses bet",
			playerCards: [2]Rank{Ten, Nine},
			extra:       []Rank{Five},
			dealerCards: [2]Rank{Ten, Seven},
			wantOutcome: OutcomeLoss,
			wantDollars: 90,
		},
		{
			name:        "natural pays three to two rounded up",
			playerCards: [2]Rank{Ace, King},
			dealerCards: [2]Rank{Ten, Seven},
			wantOutcome: OutcomeWin,
			wantDollars: 115,
		},
		{
			name:        "natural pushes against dealer natural",
			playerCards: [2]Rank{Ace, King},
			dealerCards: [2]Rank{Ace, Ten},
			wantOutcome: OutcomePush,
			wantDollars: 100,
		},
		{
			name:        "stood hand loses to dealer natural",
			playerCards: [2]Rank{Ten, Nine},
			dealerCards: [2]Rank{Ace, Ten},
			wantOutcome: OutcomeLoss,
			wantDollars: 90,
		},
		{
			name:        "dealer bust pays even money",
			playerCards: [2]Rank{Ten, Two},
			dealerCards: [2]Rank{Ten, Six},
			dealerDraw:  []Rank{King},
			wantOutcome: OutcomeWin,
			wantDollars: 110,
		},
		{
			name:        "lower total loses",
			playerCards: [2]Rank{Ten, Five},
			dealerCards: [2]Rank{Ten, Nine},
			wantOutcome: OutcomeLoss,
			wantDollars: 90,
		},
		{
			name:        "equal totals push",
			playerCards: [2]Rank{Ten, Nine},
			dealerCards: [2]Rank{Ten, Nine},
			wantOutcome: OutcomePush,
			wantDollars: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("g1", "alice", DefaultRules())
			s.Join("c1", "alice")
			s.StartBettingRound()
			s.MarkReady(0, 10)

			d := &scriptDealer{cards: []Card{
				NewCard(Spades, tt.dealerCards[0]), NewCard(Hearts, tt.dealerCards[1]),
				NewCard(Spades, tt.playerCards[0]), NewCard(Hearts, tt.playerCards[1]),
			}}
			s.BeginPlay(d)
			s.CheckInitialBlackjacks()
			for _, r := range tt.extra {
				s.Hit(0, false, &scriptDealer{cards: []Card{card(r)}})
			}

			s.DealerFinalTurn(&scriptDealer{cards: rankCards(tt.dealerDraw)})

			p := s.Seat(0)
			if p.Outcome != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", p.Outcome, tt.wantOutcome)
			}
			if p.Dollars != tt.wantDollars {
				t.Errorf("dollars = %d, want %d", p.Dollars, tt.wantDollars)
			}
			if p.CurrentBet != 0 {
				t.Errorf("bet after settle = %d, want 0", p.CurrentBet)
			}
		})
	}
}

func rankCards(ranks []Rank) []Card {
	cards := make([]Card, len(ranks))
	for i, r := range ranks {
		cards[i] = card(r)
	}
	return cards
}

func TestDoubledLossScenario(t *testing.T) {
	// Bet 5, double to 10, bust: 100 -> 90.
	s := NewSession("g1", "alice", DefaultRules())
	s.Join("c1", "alice")
	s.StartBettingRound()
	s.MarkReady(0, 5)
	s.BeginPlay(&scriptDealer{cards: []Card{
		card(Ten), card(Seven),
		card(Ten), card(Six),
	}})
	s.CheckInitialBlackjacks()

	s.Hit(0, true, &scriptDealer{cards: []Card{card(King)}})
	s.AdvanceTurn()
	s.DealerFinalTurn(&scriptDealer{cards: nil})

	p := s.Seat(0)
	if p.Outcome != OutcomeLoss {
		t.Errorf("outcome = %q, want %q", p.Outcome, OutcomeLoss)
	}
	if p.Dollars != 90 {
		t.Errorf("dollars = %d, want 90", p.Dollars)
	}
}
