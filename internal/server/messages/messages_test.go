package messages

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Action
	}{
		{"chat", `{"type":"CHAT","chat_message":"hi all"}`, Chat{Message: "hi all"}},
		{"init", `{"type":"INIT_GAME"}`, InitGame{}},
		{"start", `{"type":"START_GAME"}`, StartGame{}},
		{"hit", `{"type":"HIT","idx":1}`, Hit{Seat: 1}},
		{"double", `{"type":"DOUBLE","idx":0}`, Double{Seat: 0}},
		{"hold", `{"type":"HOLD","idx":2}`, Hold{Seat: 2}},
		{"ready", `{"type":"PLAYER_READY","idx":1,"bet":25}`, Ready{Seat: 1, Bet: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeReadyDefaultBet(t *testing.T) {
	got, err := Decode([]byte(`{"type":"PLAYER_READY","idx":0}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != (Ready{Seat: 0, Bet: 5}) {
		t.Errorf("Decode = %#v, want default bet 5", got)
	}
}

func TestDecodeMissingSeat(t *testing.T) {
	for _, raw := range []string{
		`{"type":"HIT"}`,
		`{"type":"DOUBLE"}`,
		`{"type":"HOLD"}`,
		`{"type":"PLAYER_READY"}`,
	} {
		if _, err := Decode([]byte(raw)); !errors.Is(err, ErrMissingSeat) {
			t.Errorf("Decode(%s) error = %v, want ErrMissingSeat", raw, err)
		}
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, err := Decode([]byte(`{"type":"SPLIT","idx":0}`)); !errors.Is(err, ErrUnknownType) {
		t.Errorf("unknown type error = %v, want ErrUnknownType", err)
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"type":`)); err == nil {
		t.Error("Decode accepted malformed JSON")
	}
}

func TestOutboundTypeTags(t *testing.T) {
	payloads := map[string]any{
		TypeInitState:        NewInitState(1, nil),
		TypePlayersBlackjack: NewPlayersBlackjack([]int{0, 2}),
		TypeChatMessage:      NewChatMessage("alice", "gg"),
		TypeUpdateGame:       NewUpdateGame("g1", "alice", 2),
		TypeRemoveGame:       NewRemoveGame("g1"),
		TypeNextTurn:         NewStateUpdate(TypeNextTurn, nil),
		TypePlayerHit:        NewSeatUpdate(TypePlayerHit, 0, nil),
	}

	for wantType, payload := range payloads {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal %T: %v", payload, err)
		}
		var frame struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &frame); err != nil {
			t.Fatalf("unmarshal %T: %v", payload, err)
		}
		if frame.Type != wantType {
			t.Errorf("%T type tag = %q, want %q", payload, frame.Type, wantType)
		}
	}
}
