package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	errUnknownAction   = errors.New("unknown action")
	errMissingProvider = errors.New("provider is required")
)

func (that *Hub) handleTurn(msg *Message) error {
	var payload TurnPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal turn: %w", err)
	}

	that.console.SubmitHumanMove(payload.Row, payload.Col)

	return nil
}

func (that *Hub) handleRestart(_ *Message) error {
	that.console.RequestRestart()

	return nil
}

func (that *Hub) handleClose(_ *Message) error {
	that.logger.Info("close requested by client")
	that.console.RequestShutdown()

	return nil
}

func (that *Hub) handleProviderSelect(msg *Message) error {
	var payload ProviderPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal provider: %w", err)
	}

	if payload.Provider == "" {
		return errMissingProvider
	}

	that.console.SelectProvider(payload.Provider)

	return nil
}
