package lobby

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"draw-poker/internal/service/game"
	appErr "draw-poker/pkg/errors"
)

// Client action types.
const (
	ActionStart    = "start"
	ActionBet      = "bet"
	ActionFold     = "fold"
	ActionDraw     = "draw"
	ActionGetState = "getGameState"
	ActionLeave    = "leave"
	ActionPing     = "ping"
)

// Slot ids rendered by older clients look like "<seat>_<slot>".
var slotIDPattern = regexp.MustCompile(`^\d+_(\d+)$`)

type betPayload struct {
	Amount int64 `json:"amount"`
}

type drawPayload struct {
	Cards []json.RawMessage `json:"cards"`
}

// HandleAction applies one client action on behalf of identity in lobby
// code. The returned message, if any, goes back to the requesting
// connection only; everyone else learns of the change through the table's
// broadcast.
func (s *Service) HandleAction(identity, code, action string, data json.RawMessage) (*game.OutgoingMessage, error) {
	if action == ActionPing {
		return &game.OutgoingMessage{Type: "pong"}, nil
	}
	table, err := s.Get(code)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionStart:
		return nil, s.Start(identity, code)
	case ActionBet:
		var body betPayload
		if err := decode(data, &body); err != nil {
			return nil, err
		}
		state, err := table.Bet(identity, body.Amount, false)
		if err != nil {
			return nil, err
		}
		return &game.OutgoingMessage{Type: "state", Data: state}, nil
	case ActionFold:
		state, err := table.Bet(identity, 0, true)
		if err != nil {
			return nil, err
		}
		return &game.OutgoingMessage{Type: "state", Data: state}, nil
	case ActionDraw:
		var body drawPayload
		if err := decode(data, &body); err != nil {
			return nil, err
		}
		slots, err := parseSlots(body.Cards)
		if err != nil {
			return nil, err
		}
		hand, err := table.DrawCards(identity, slots)
		if err != nil {
			return nil, err
		}
		return &game.OutgoingMessage{Type: "hand", Data: hand}, nil
	case ActionGetState:
		state := table.GameState(identity, false)
		return &game.OutgoingMessage{Type: "state", Data: state}, nil
	case ActionLeave:
		return nil, s.Leave(identity)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", appErr.ErrInvalidPayload, action)
	}
}

func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", appErr.ErrInvalidPayload, err)
	}
	return nil
}

// parseSlots accepts plain slot indexes or "<seat>_<slot>" ids.
func parseSlots(raw []json.RawMessage) ([]int, error) {
	slots := make([]int, 0, len(raw))
	for _, r := range raw {
		slot, err := parseSlot(r)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func parseSlot(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return 0, fmt.Errorf("%w: %s", appErr.ErrInvalidCardSlot, string(raw))
	}
	id = strings.TrimSpace(id)
	if m := slotIDPattern.FindStringSubmatch(id); m != nil {
		id = m[1]
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", appErr.ErrInvalidCardSlot, id)
	}
	return n, nil
}
