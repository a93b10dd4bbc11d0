package game

import (
	"context"
	"log"

	"blackjack-platform/backend/internal/blackjack"
	"blackjack-platform/backend/internal/server/messages"
	ws "blackjack-platform/backend/internal/server/websocket"
	"blackjack-platform/backend/internal/store"
	"blackjack-platform/backend/internal/validation"
)

// Dispatcher delivers a broadcast to every socket in a group. Implemented
// by the websocket hub.
type Dispatcher interface {
	Broadcast(group string, v any)
}

// Catalog is the durable lobby record updated as a side effect of
// join/leave. It plays no part in the game state machine.
type Catalog interface {
	SetOccupancy(url string, count int) error
	Delete(url string) error
}

// Coordinator drives a session through its phases: betting, dealing, player
// turns, dealer resolution and settlement. Every mutation runs inside the
// store's per-session lock; broadcasts go out only after the lock has been
// released and the new state persisted, so clients never observe interleaved
// states.
//
// Precondition failures (not your turn, wrong seat owner, phase mismatch)
// are silently dropped: no mutation, no broadcast. Stale or duplicate client
// messages must not disrupt the table.
type Coordinator struct {
	store   *store.Store
	hub     Dispatcher
	catalog Catalog
	shoe    blackjack.Dealer
	rules   blackjack.Rules
}

func NewCoordinator(st *store.Store, hub Dispatcher, cat Catalog, shoe blackjack.Dealer, rules blackjack.Rules) *Coordinator {
	return &Coordinator{store: st, hub: hub, catalog: cat, shoe: shoe, rules: rules}
}

// HandleJoin seats a connection, creating the session on first join.
// Returns whether a seat was taken; a full table rejects the join and the
// caller should close the connection.
func (co *Coordinator) HandleJoin(ctx context.Context, url, connID, username, creatorName string) (bool, error) {
	var (
		joined  bool
		count   int
		creator string
	)
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		if s.Creator == "" {
			s.Creator = creatorName
		}
		creator = s.Creator
		_, joined = s.Join(connID, username)
		count = s.OccupiedCount()
		return nil
	})
	if err != nil {
		return false, err
	}
	if !joined {
		log.Printf("[GAME] Join rejected for session %s: table full or already seated", url)
		return false, nil
	}

	if err := co.catalog.SetOccupancy(url, count); err != nil {
		log.Printf("[GAME] Failed to update catalog for session %s: %v", url, err)
	}
	co.broadcastLobby(url, creator, count)
	return true, nil
}

// HandleLeave frees the connection's seat. It always runs, even for a
// connection that is already gone, so seat and chip bookkeeping stay
// accurate. If the departure leaves every remaining seat ready, the deal
// fires as if the last ready had just arrived.
func (co *Coordinator) HandleLeave(ctx context.Context, url, connID string) error {
	var (
		removed  *blackjack.Player
		count    int
		creator  string
		allReady bool
	)
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		removed, _ = s.Leave(connID)
		count = s.OccupiedCount()
		creator = s.Creator
		allReady = count > 0 && s.AllReady()
		return nil
	})
	if err != nil {
		return err
	}
	if removed == nil {
		return nil
	}

	if count == 0 {
		if err := co.catalog.Delete(url); err != nil {
			log.Printf("[GAME] Failed to delete catalog record for session %s: %v", url, err)
		}
	} else if err := co.catalog.SetOccupancy(url, count); err != nil {
		log.Printf("[GAME] Failed to update catalog for session %s: %v", url, err)
	}
	co.broadcastLobby(url, creator, count)

	co.hub.Broadcast(ws.GameGroup(url), messages.NewPlayerRemoved(removed.Index, removed.View()))

	if allReady {
		return co.deal(ctx, url)
	}
	return nil
}

// HandleInitGame answers a member's snapshot request and announces their
// seat to the rest of the table.
func (co *Coordinator) HandleInitGame(ctx context.Context, url, connID string, send func(v any)) error {
	snap, err := co.store.Snapshot(ctx, url)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	idx := snap.SeatOf(connID)
	send(messages.NewInitState(idx, snap))

	if view, ok := snap.Players[idx]; ok {
		co.hub.Broadcast(ws.GameGroup(url), messages.NewPlayerAdded(idx, view))
	}
	return nil
}

// HandleStartGame opens the betting phase. A second request while a round
// is underway is dropped without touching hands or bets.
func (co *Coordinator) HandleStartGame(ctx context.Context, url string) error {
	var snap *blackjack.Snapshot
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		if s.StartBettingRound() {
			snap = s.Snapshot()
		}
		return nil
	})
	if err != nil || snap == nil {
		return err
	}

	co.hub.Broadcast(ws.GameGroup(url), messages.NewStateUpdate(messages.TypeGameStarted, snap))
	return nil
}

// HandleReady records a seat's bet. The caller must own the seat and the
// bet must fit the bankroll. The last ready chains straight into the deal.
func (co *Coordinator) HandleReady(ctx context.Context, url, connID string, seat, bet int) error {
	var (
		snap     *blackjack.Snapshot
		allReady bool
	)
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		p := s.Seat(seat)
		if p == nil || p.ConnID != connID {
			return nil
		}
		if err := validation.ValidateBet(bet, p.Dollars); err != nil {
			log.Printf("[GAME] Rejecting bet on session %s seat %d: %v", url, seat, err)
			return nil
		}
		if s.MarkReady(seat, bet) {
			snap = s.Snapshot()
			allReady = s.AllReady()
		}
		return nil
	})
	if err != nil || snap == nil {
		return err
	}

	co.hub.Broadcast(ws.GameGroup(url), messages.NewSeatUpdate(messages.TypePlayerReadyOut, seat, snap))

	if allReady {
		return co.deal(ctx, url)
	}
	return nil
}

// HandleHit deals the acting seat one card. On a double the bet is doubled
// and the turn always ends; a plain hit ends the turn once the hand reaches
// 21 or busts.
func (co *Coordinator) HandleHit(ctx context.Context, url, connID string, seat int, double bool) error {
	var (
		snap  *blackjack.Snapshot
		total int
	)
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		if !co.ownsTurn(s, connID, seat) {
			return nil
		}
		if s.Hit(seat, double, co.shoe) {
			total = s.Seat(seat).HandTotal()
			snap = s.Snapshot()
		}
		return nil
	})
	if err != nil || snap == nil {
		return err
	}

	co.hub.Broadcast(ws.GameGroup(url), messages.NewSeatUpdate(messages.TypePlayerHit, seat, snap))

	if double || total >= 21 {
		return co.advanceTurn(ctx, url)
	}
	return nil
}

// HandleHold ends the acting seat's turn without touching its hand.
func (co *Coordinator) HandleHold(ctx context.Context, url, connID string, seat int) error {
	held := false
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		held = co.ownsTurn(s, connID, seat)
		return nil
	})
	if err != nil || !held {
		return err
	}
	return co.advanceTurn(ctx, url)
}

// HandleChat relays a table chat line. Oversized messages are dropped.
func (co *Coordinator) HandleChat(url, username, message string) {
	if err := validation.ValidateChatMessage(message); err != nil {
		return
	}
	co.hub.Broadcast(ws.GameGroup(url), messages.NewChatMessage(username, message))
}

// ownsTurn is the identity gate for player actions: the target seat must be
// the current turn and must belong to the calling connection.
func (co *Coordinator) ownsTurn(s *blackjack.Session, connID string, seat int) bool {
	if s.CurrentTurn != seat {
		return false
	}
	p := s.Seat(seat)
	return p != nil && p.ConnID == connID
}

// deal starts play once every seat is ready: initial cards go out, naturals
// are flagged, and play passes to the first seat that still has to act, or
// straight to the dealer when it has blackjack or nobody is left to act.
func (co *Coordinator) deal(ctx context.Context, url string) error {
	var snap *blackjack.Snapshot
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		if s.BeginPlay(co.shoe) {
			snap = s.Snapshot()
		}
		return nil
	})
	if err != nil || snap == nil {
		return err
	}

	co.hub.Broadcast(ws.GameGroup(url), messages.NewStateUpdate(messages.TypeGameStartedAllReady, snap))

	err = co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		s.CheckInitialBlackjacks()
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}

	if naturals := snap.BlackjackSeats(); len(naturals) > 0 {
		co.hub.Broadcast(ws.GameGroup(url), messages.NewPlayersBlackjack(naturals))
	}

	if snap.DealerBlackjack || snap.CurrentTurn >= co.rules.MaxSeats {
		return co.dealerFinalTurn(ctx, url)
	}
	co.hub.Broadcast(ws.GameGroup(url), messages.NewStateUpdate(messages.TypeNextTurn, snap))
	return nil
}

// advanceTurn moves play to the next active seat, or to the dealer once the
// scan runs off the seat array.
func (co *Coordinator) advanceTurn(ctx context.Context, url string) error {
	var (
		snap *blackjack.Snapshot
		next int
	)
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		next = s.AdvanceTurn()
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}

	if next >= co.rules.MaxSeats {
		return co.dealerFinalTurn(ctx, url)
	}
	co.hub.Broadcast(ws.GameGroup(url), messages.NewStateUpdate(messages.TypeNextTurn, snap))
	return nil
}

// dealerFinalTurn resolves the dealer's hand, settles the round and
// broadcasts the result.
func (co *Coordinator) dealerFinalTurn(ctx context.Context, url string) error {
	var snap *blackjack.Snapshot
	err := co.store.WithLockedSession(ctx, url, func(s *blackjack.Session) error {
		s.DealerFinalTurn(co.shoe)
		snap = s.Snapshot()
		return nil
	})
	if err != nil {
		return err
	}

	co.hub.Broadcast(ws.GameGroup(url), messages.NewStateUpdate(messages.TypeDealerFinalTurn, snap))
	return nil
}

// broadcastLobby advertises the session while it has open seats and retracts
// it once full or empty.
func (co *Coordinator) broadcastLobby(url, creator string, count int) {
	if count > 0 && count < co.rules.MaxSeats {
		co.hub.Broadcast(ws.LobbyGroup, messages.NewUpdateGame(url, creator, count))
	} else {
		co.hub.Broadcast(ws.LobbyGroup, messages.NewRemoveGame(url))
	}
}
