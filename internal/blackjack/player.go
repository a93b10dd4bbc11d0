package blackjack

// SeatState is a seat's lifecycle stage within a round. The string values
// are the wire tags the clients switch on.
type SeatState string

const (
	SeatNotStarted    SeatState = "game-not-started"
	SeatAwaitingReady SeatState = "awaiting-ready"
	SeatReady         SeatState = "ready"
	SeatActive        SeatState = "game-started"
	SeatBlackjack     SeatState = "game-over-blackjack"
)

// Outcome is the per-seat result of the last settled round.
type Outcome string

const (
	OutcomeNone Outcome = "na"
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomePush Outcome = "push"
)

// Player is one occupied seat. ConnID is the opaque connection identity the
// seat belongs to ("name" on the wire); Username is the display name.
type Player struct {
	ConnID     string    `json:"name"`
	Username   string    `json:"username"`
	Index      int       `json:"index"`
	Dollars    int       `json:"dollars"`
	CurrentBet int       `json:"current_bet"`
	WinLoss    int       `json:"win_loss"`
	InGame     bool      `json:"in_game"`
	Hand       []Card    `json:"current_hand"`
	State      SeatState `json:"player_game_state"`
	Outcome    Outcome   `json:"player_game_outcome"`
}

func newPlayer(connID, username string, index, startingChips int) *Player {
	return &Player{
		ConnID:   connID,
		Username: username,
		Index:    index,
		Dollars:  startingChips,
		Hand:     []Card{},
		State:    SeatNotStarted,
		Outcome:  OutcomeNone,
	}
}

// HandTotal is the seat's current hand value.
func (p *Player) HandTotal() int {
	return HandTotal(p.Hand)
}
