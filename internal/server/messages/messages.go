package messages

import (
	"encoding/json"
	"errors"
	"fmt"

	"blackjack-platform/backend/internal/blackjack"
)

// Inbound action types a session member may send.
const (
	TypeChat        = "CHAT"
	TypeInitGame    = "INIT_GAME"
	TypeStartGame   = "START_GAME"
	TypeHit         = "HIT"
	TypeDouble      = "DOUBLE"
	TypeHold        = "HOLD"
	TypePlayerReady = "PLAYER_READY"
)

// Outbound broadcast types.
const (
	TypeInitState           = "INIT_STATE"
	TypePlayerAdded         = "PLAYER_ADDED"
	TypePlayerRemoved       = "PLAYER_REMOVED"
	TypeGameStarted         = "GAME_STARTED"
	TypeGameStartedAllReady = "GAME_STARTED_ALL_READY"
	TypeNextTurn            = "NEXT_TURN"
	TypePlayerHit           = "PLAYER_HIT"
	TypePlayerReadyOut      = "PLAYER_READY"
	TypeDealerFinalTurn     = "DEALER_FINAL_TURN"
	TypePlayersBlackjack    = "PLAYERS_BLACKJACK"
	TypeChatMessage         = "CHAT_MESSAGE"
	TypeUpdateGame          = "UPDATE_GAME"
	TypeRemoveGame          = "REMOVE_GAME"
)

var (
	ErrUnknownType = errors.New("unknown message type")
	ErrMissingSeat = errors.New("message is missing a seat index")
)

// Action is the closed set of decoded inbound messages. Raw payloads are
// decoded and validated once here, never inside the handlers.
type Action interface {
	isAction()
}

type Chat struct {
	Message string
}

type InitGame struct{}

type StartGame struct{}

type Hit struct {
	Seat int
}

type Double struct {
	Seat int
}

type Hold struct {
	Seat int
}

type Ready struct {
	Seat int
	Bet  int
}

func (Chat) isAction()      {}
func (InitGame) isAction()  {}
func (StartGame) isAction() {}
func (Hit) isAction()       {}
func (Double) isAction()    {}
func (Hold) isAction()      {}
func (Ready) isAction()     {}

// inboundFrame is the raw wire shape of a client message.
type inboundFrame struct {
	Type        string `json:"type"`
	Idx         *int   `json:"idx"`
	Bet         *int   `json:"bet"`
	ChatMessage string `json:"chat_message"`
}

// defaultBet matches the client's fallback when no bet is supplied.
const defaultBet = 5

// Decode parses one inbound frame into its typed action.
func Decode(data []byte) (Action, error) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	switch frame.Type {
	case TypeChat:
		return Chat{Message: frame.ChatMessage}, nil
	case TypeInitGame:
		return InitGame{}, nil
	case TypeStartGame:
		return StartGame{}, nil
	case TypeHit:
		if frame.Idx == nil {
			return nil, ErrMissingSeat
		}
		return Hit{Seat: *frame.Idx}, nil
	case TypeDouble:
		if frame.Idx == nil {
			return nil, ErrMissingSeat
		}
		return Double{Seat: *frame.Idx}, nil
	case TypeHold:
		if frame.Idx == nil {
			return nil, ErrMissingSeat
		}
		return Hold{Seat: *frame.Idx}, nil
	case TypePlayerReady:
		if frame.Idx == nil {
			return nil, ErrMissingSeat
		}
		bet := defaultBet
		if frame.Bet != nil {
			bet = *frame.Bet
		}
		return Ready{Seat: *frame.Idx, Bet: bet}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, frame.Type)
}

// Outbound message payloads. Each carries its own type tag so the hub can
// marshal once and fan out.

type InitState struct {
	Type  string              `json:"type"`
	MyIdx int                 `json:"my_idx"`
	State *blackjack.Snapshot `json:"state"`
}

func NewInitState(myIdx int, state *blackjack.Snapshot) InitState {
	return InitState{Type: TypeInitState, MyIdx: myIdx, State: state}
}

type PlayerAdded struct {
	Type   string               `json:"type"`
	Idx    int                  `json:"idx"`
	Player blackjack.PlayerView `json:"player_added"`
}

func NewPlayerAdded(idx int, player blackjack.PlayerView) PlayerAdded {
	return PlayerAdded{Type: TypePlayerAdded, Idx: idx, Player: player}
}

type PlayerRemoved struct {
	Type   string               `json:"type"`
	Idx    int                  `json:"idx"`
	Player blackjack.PlayerView `json:"player_removed"`
}

func NewPlayerRemoved(idx int, player blackjack.PlayerView) PlayerRemoved {
	return PlayerRemoved{Type: TypePlayerRemoved, Idx: idx, Player: player}
}

// StateUpdate covers the broadcasts whose payload is just the new snapshot:
// GAME_STARTED, GAME_STARTED_ALL_READY, NEXT_TURN and DEALER_FINAL_TURN.
type StateUpdate struct {
	Type  string              `json:"type"`
	State *blackjack.Snapshot `json:"state"`
}

func NewStateUpdate(msgType string, state *blackjack.Snapshot) StateUpdate {
	return StateUpdate{Type: msgType, State: state}
}

// SeatUpdate covers PLAYER_HIT and PLAYER_READY: the new snapshot plus the
// acting seat.
type SeatUpdate struct {
	Type  string              `json:"type"`
	Idx   int                 `json:"idx"`
	State *blackjack.Snapshot `json:"state"`
}

func NewSeatUpdate(msgType string, idx int, state *blackjack.Snapshot) SeatUpdate {
	return SeatUpdate{Type: msgType, Idx: idx, State: state}
}

type PlayersBlackjack struct {
	Type    string `json:"type"`
	Players []int  `json:"players"`
}

func NewPlayersBlackjack(seats []int) PlayersBlackjack {
	return PlayersBlackjack{Type: TypePlayersBlackjack, Players: seats}
}

type ChatMessage struct {
	Type        string `json:"type"`
	Player      string `json:"player"`
	ChatMessage string `json:"chat_message"`
}

func NewChatMessage(player, message string) ChatMessage {
	return ChatMessage{Type: TypeChatMessage, Player: player, ChatMessage: message}
}

// UpdateGame is the lobby-wide summary broadcast while a session has open seats.
type UpdateGame struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	Creator    string `json:"creator"`
	NumPlayers int    `json:"num_players"`
}

func NewUpdateGame(url, creator string, numPlayers int) UpdateGame {
	return UpdateGame{Type: TypeUpdateGame, URL: url, Creator: creator, NumPlayers: numPlayers}
}

// RemoveGame tells the lobby a session is full or gone.
type RemoveGame struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func NewRemoveGame(url string) RemoveGame {
	return RemoveGame{Type: TypeRemoveGame, URL: url}
}
