package blackjack

import "math"

// Phase is the session-wide lifecycle stage.
type Phase string

const (
	PhaseIdle          Phase = "not-started"
	PhaseAwaitingReady Phase = "awaiting-ready"
	PhaseActive        Phase = "started"
)

// Rules holds the per-session game tunables. They are passed in explicitly
// so tests can vary capacity and bankroll.
type Rules struct {
	MaxSeats         int `json:"max_seats"`
	StartingChips    int `json:"starting_chips"`
	DealerStandTotal int `json:"dealer_stand_total"`
}

// DefaultRules matches the live deployment: three seats, 100 chips,
// dealer stands at 17.
func DefaultRules() Rules {
	return Rules{MaxSeats: 3, StartingChips: 100, DealerStandTotal: 17}
}

// Session is the authoritative state of one table. All methods are pure
// transitions; callers serialize access through the session store lock, so
// no internal synchronization is needed here.
type Session struct {
	URL             string         `json:"url"`
	Creator         string         `json:"creator"`
	Rules           Rules          `json:"rules"`
	Seats           []*Player      `json:"players_list"`
	SeatByConn      map[string]int `json:"players_map"`
	Phase           Phase          `json:"game_state"`
	CurrentTurn     int            `json:"current_turn"`
	DealerHand      []Card         `json:"dealer_hand"`
	DealerBlackjack bool           `json:"dealer_blackjack"`
}

func NewSession(url, creator string, rules Rules) *Session {
	return &Session{
		URL:         url,
		Creator:     creator,
		Rules:       rules,
		Seats:       make([]*Player, rules.MaxSeats),
		SeatByConn:  make(map[string]int),
		Phase:       PhaseIdle,
		CurrentTurn: -1,
		DealerHand:  []Card{},
	}
}

// OccupiedCount is the number of seated connections.
func (s *Session) OccupiedCount() int {
	return len(s.SeatByConn)
}

// DealerTotal is the dealer's current hand value.
func (s *Session) DealerTotal() int {
	return HandTotal(s.DealerHand)
}

// TurnIsDealer reports whether the turn cursor has run past the seats.
func (s *Session) TurnIsDealer() bool {
	return s.CurrentTurn >= s.Rules.MaxSeats
}

// Join seats a new connection at the lowest empty index. A rejoin gets a
// fresh player with the starting bankroll; seats are ephemeral. Returns the
// seat index, or false when the table is full or the connection is already
// seated.
func (s *Session) Join(connID, username string) (int, bool) {
	if _, seated := s.SeatByConn[connID]; seated {
		return -1, false
	}
	for idx, seat := range s.Seats {
		if seat == nil {
			s.Seats[idx] = newPlayer(connID, username, idx, s.Rules.StartingChips)
			s.SeatByConn[connID] = idx
			return idx, true
		}
	}
	return -1, false
}

// Leave frees the connection's seat and returns the removed player. The
// caller is responsible for deleting the session once no seats remain.
func (s *Session) Leave(connID string) (*Player, bool) {
	idx, seated := s.SeatByConn[connID]
	if !seated {
		return nil, false
	}
	player := s.Seats[idx]
	s.Seats[idx] = nil
	delete(s.SeatByConn, connID)
	return player, true
}

// Seat returns the player at idx, or nil for an empty or out-of-range seat.
func (s *Session) Seat(idx int) *Player {
	if idx < 0 || idx >= len(s.Seats) {
		return nil
	}
	return s.Seats[idx]
}

// StartBettingRound moves the table from idle into the betting phase and
// resets every seat for the new round. Returns false when a round is already
// underway; the repeated call must not clobber hands or bets.
func (s *Session) StartBettingRound() bool {
	if s.Phase != PhaseIdle {
		return false
	}
	s.Phase = PhaseAwaitingReady
	s.CurrentTurn = -1
	s.DealerHand = []Card{}
	s.DealerBlackjack = false

	for _, p := range s.Seats {
		if p == nil {
			continue
		}
		p.InGame = true
		p.Hand = []Card{}
		p.State = SeatAwaitingReady
		p.Outcome = OutcomeNone
		p.WinLoss = 0
		p.CurrentBet = 0
	}
	return true
}

// AllReady reports whether every seated, in-game player has placed a bet.
func (s *Session) AllReady() bool {
	if s.Phase != PhaseAwaitingReady {
		return false
	}
	for _, p := range s.Seats {
		if p == nil || !p.InGame {
			continue
		}
		if p.State != SeatReady {
			return false
		}
	}
	return true
}

// MarkReady records the seat's bet and debits it from the bankroll. Only a
// seat still awaiting its bet can be marked; anything else is a no-op.
func (s *Session) MarkReady(idx, bet int) bool {
	p := s.Seat(idx)
	if p == nil || p.State != SeatAwaitingReady {
		return false
	}
	p.CurrentBet = bet
	p.Dollars -= bet
	p.State = SeatReady
	return true
}

// BeginPlay deals two cards to the dealer and to every seated in-game
// player, flipping their seats active. Returns false if play already began.
func (s *Session) BeginPlay(d Dealer) bool {
	if s.Phase == PhaseActive {
		return false
	}
	s.Phase = PhaseActive

	s.DealerHand = append(s.DealerHand, d.Deal(), d.Deal())
	for _, p := range s.Seats {
		if p == nil || !p.InGame {
			continue
		}
		p.State = SeatActive
		p.Hand = append(p.Hand, d.Deal(), d.Deal())
	}
	return true
}

// CheckInitialBlackjacks flags the dealer and any seat dealt a natural 21,
// then advances the turn cursor to the first seat that still has to act.
// A natural seat is marked resolved so the turn scan skips it.
func (s *Session) CheckInitialBlackjacks() {
	if s.DealerTotal() == 21 {
		s.DealerBlackjack = true
	}
	for _, p := range s.Seats {
		if p != nil && p.State == SeatActive && p.HandTotal() == 21 {
			p.State = SeatBlackjack
		}
	}
	s.AdvanceTurn()
}

// Hit deals one card into the seat's hand. When double is set the current
// bet is debited a second time and doubled. Hand legality (busts, totals) is
// deliberately not checked here; the turn-ownership gate lives in the
// coordinator.
func (s *Session) Hit(idx int, double bool, d Dealer) bool {
	p := s.Seat(idx)
	if p == nil {
		return false
	}
	p.Hand = append(p.Hand, d.Deal())
	if double {
		p.Dollars -= p.CurrentBet
		p.CurrentBet *= 2
	}
	return true
}

// AdvanceTurn moves the cursor to the next active seat, scanning strictly
// forward. When no active seat remains the cursor is driven well past the
// seat array so the caller hands play to the dealer.
func (s *Session) AdvanceTurn() int {
	next := s.CurrentTurn + 1
	for next < len(s.Seats) {
		p := s.Seats[next]
		if p != nil && p.InGame && p.State == SeatActive {
			break
		}
		next++
	}
	if next >= len(s.Seats) {
		next = next + 1000
	}
	s.CurrentTurn = next
	return next
}

// DealerFinalTurn draws for the dealer until the stand total is reached,
// settles every seat and returns the table to idle.
func (s *Session) DealerFinalTurn(d Dealer) {
	for s.DealerTotal() < s.Rules.DealerStandTotal {
		s.DealerHand = append(s.DealerHand, d.Deal())
	}
	s.settleRound()
	s.Phase = PhaseIdle
}

// settleRound computes each seat's outcome and win/loss amount, refunds the
// bet and applies the result to the bankroll. Naturals pay 3:2 rounded up
// and push against a dealer blackjack.
func (s *Session) settleRound() {
	dealerTotal := s.DealerTotal()
	for _, p := range s.Seats {
		if p == nil || !p.InGame {
			continue
		}
		total := p.HandTotal()
		switch {
		case total > 21:
			p.Outcome = OutcomeLoss
			p.WinLoss = p.CurrentBet
		case p.State == SeatBlackjack:
			if s.DealerBlackjack {
				p.Outcome = OutcomePush
				p.WinLoss = 0
			} else {
				p.Outcome = OutcomeWin
				p.WinLoss = int(math.Ceil(1.5 * float64(p.CurrentBet)))
			}
		default:
			switch {
			case s.DealerBlackjack:
				p.Outcome = OutcomeLoss
				p.WinLoss = p.CurrentBet
			case dealerTotal > 21:
				p.Outcome = OutcomeWin
				p.WinLoss = p.CurrentBet
			case total > dealerTotal:
				p.Outcome = OutcomeWin
				p.WinLoss = p.CurrentBet
			case total < dealerTotal:
				p.Outcome = OutcomeLoss
				p.WinLoss = p.CurrentBet
			default:
				p.Outcome = OutcomePush
				p.WinLoss = 0
			}
		}

		p.Dollars += p.CurrentBet
		p.CurrentBet = 0
		switch p.Outcome {
		case OutcomeWin:
			p.Dollars += p.WinLoss
		case OutcomeLoss:
			p.Dollars -= p.WinLoss
		}
	}
}
