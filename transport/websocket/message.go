package websocket

import (
	"encoding/json"
	"fmt"
)

const (
	actionGameState      = "game:state"
	actionGameTurn       = "game:turn"
	actionGameRestart    = "game:restart"
	actionGameClose      = "game:close"
	actionProviderSelect = "provider:select"
	actionError          = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TurnPayload struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type ProviderPayload struct {
	Provider string `json:"provider"`
}

type ErrorPayload struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}

func encode(action string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	data, err := json.Marshal(Message{Action: action, Payload: raw})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return data, nil
}
