package blackjack

import "sort"

// PlayerView is the wire projection of a seat, including the computed hand
// value the clients render.
type PlayerView struct {
	Name              string    `json:"name"`
	Username          string    `json:"username"`
	Index             int       `json:"index"`
	Dollars           int       `json:"dollars"`
	CurrentBet        int       `json:"current_bet"`
	InGame            bool      `json:"in_game"`
	CurrentHand       []Card    `json:"current_hand"`
	PlayerGameState   SeatState `json:"player_game_state"`
	PlayerGameOutcome Outcome   `json:"player_game_outcome"`
	WinLoss           int       `json:"win_loss"`
	CurrentHandValue  int       `json:"current_hand_value"`
}

// Snapshot is the full read-only projection of a session pushed to clients.
// Only occupied seats appear, keyed by seat index.
type Snapshot struct {
	URL             string             `json:"url"`
	Players         map[int]PlayerView `json:"players"`
	GameState       Phase              `json:"game_state"`
	CurrentTurn     int                `json:"current_turn"`
	DealerHand      []Card             `json:"dealer_hand"`
	DealerBlackjack bool               `json:"dealer_blackjack"`
	DealerHandValue int                `json:"dealer_hand_value"`
}

func viewOf(p *Player) PlayerView {
	hand := make([]Card, len(p.Hand))
	copy(hand, p.Hand)
	return PlayerView{
		Name:              p.ConnID,
		Username:          p.Username,
		Index:             p.Index,
		Dollars:           p.Dollars,
		CurrentBet:        p.CurrentBet,
		InGame:            p.InGame,
		CurrentHand:       hand,
		PlayerGameState:   p.State,
		PlayerGameOutcome: p.Outcome,
		WinLoss:           p.WinLoss,
		CurrentHandValue:  p.HandTotal(),
	}
}

// View is the wire projection of a single seat, used for the player
// added/removed broadcasts.
func (p *Player) View() PlayerView {
	return viewOf(p)
}

// Snapshot builds a deep projection of the session. The copy is safe to
// hand out after the session lock is released.
func (s *Session) Snapshot() *Snapshot {
	players := make(map[int]PlayerView)
	for idx, p := range s.Seats {
		if p != nil {
			players[idx] = viewOf(p)
		}
	}
	dealerHand := make([]Card, len(s.DealerHand))
	copy(dealerHand, s.DealerHand)
	return &Snapshot{
		URL:             s.URL,
		Players:         players,
		GameState:       s.Phase,
		CurrentTurn:     s.CurrentTurn,
		DealerHand:      dealerHand,
		DealerBlackjack: s.DealerBlackjack,
		DealerHandValue: s.DealerTotal(),
	}
}

// SeatOf returns the seat index belonging to a connection, or -1.
func (snap *Snapshot) SeatOf(connID string) int {
	for idx, p := range snap.Players {
		if p.Name == connID {
			return idx
		}
	}
	return -1
}

// BlackjackSeats lists the seats holding a natural, for the
// PLAYERS_BLACKJACK broadcast.
func (snap *Snapshot) BlackjackSeats() []int {
	var seats []int
	for idx, p := range snap.Players {
		if p.PlayerGameState == SeatBlackjack {
			seats = append(seats, idx)
		}
	}
	sort.Ints(seats)
	return seats
}
