package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	actionState  = "game:state"
	actionPlay   = "game:play"
	actionJump   = "game:jump"
	actionUpdate = "game:update"
	actionError  = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	Cell *int `json:"cell,omitempty"`
	Move *int `json:"move,omitempty"`
}

type ResponsePayload struct {
	Game  *entity.View `json:"game,omitempty"`
	Error string       `json:"error,omitempty"`
}

func (that *session) sendMessage(action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err = that.conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *session) sendGame(action string, game *entity.Game) error {
	view := game.View(that.order)
	return that.sendMessage(action, ResponsePayload{Game: &view})
}

func (that *session) sendError(action, message string) error {
	return that.sendMessage(action, ResponsePayload{Error: message})
}
