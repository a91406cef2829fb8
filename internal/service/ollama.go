package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

const (
	chatPath             = "/api/chat"
	maxChatResponseBytes = 1 << 20
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
}

// ChatPlayer asks an Ollama compatible chat endpoint for a move.
type ChatPlayer struct {
	logger *slog.Logger
	client *http.Client

	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
}

func NewChatPlayer(logger *slog.Logger, client *http.Client, baseURL, apiKey, model string, timeout time.Duration) *ChatPlayer {
	if client == nil {
		client = http.DefaultClient
	}

	return &ChatPlayer{
		logger:  logger.With("component", "chat_player", "model", model),
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

func (that *ChatPlayer) Model() string {
	return that.model
}

func (that *ChatPlayer) RequestMove(ctx context.Context, board entity.Board, mark entity.Cell) (entity.MoveRequest, error) {
	log := that.logger.With("method", "RequestMove", "mark", string(mark))

	reply, err := that.chat(ctx, []chatMessage{
		{Role: "system", Content: SystemPrompt(mark)},
		{Role: "user", Content: PlayerPrompt(mark, board)},
	})
	if err != nil {
		return entity.MoveRequest{}, err
	}

	tokens := reply.PromptEvalCount + reply.EvalCount
	log.Debug("model replied", "content", reply.Message.Content, "tokens", tokens)

	target, err := ParseCoord(reply.Message.Content)
	if err != nil {
		log.Warn("could not parse model reply", "error", err)
		return entity.MoveRequest{}, err
	}

	return entity.MoveRequest{
		Player: entity.PlayerForMark(mark),
		Target: target,
		Tokens: tokens,
	}, nil
}

func (that *ChatPlayer) chat(ctx context.Context, messages []chatMessage) (chatResponse, error) {
	payload, err := json.Marshal(chatRequest{Model: that.model, Messages: messages})
	if err != nil {
		return chatResponse{}, fmt.Errorf("could not marshal chat request: %w", err)
	}

	if that.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.baseURL+chatPath, bytes.NewReader(payload))
	if err != nil {
		return chatResponse{}, fmt.Errorf("%w: create request: %w", apperror.ErrProviderRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if that.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+that.apiKey)
	}

	resp, err := that.client.Do(req)
	if err != nil {
		return chatResponse{}, fmt.Errorf("%w: %w", apperror.ErrProviderRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return chatResponse{}, fmt.Errorf("%w: status %d: %s", apperror.ErrProviderRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var reply chatResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxChatResponseBytes)).Decode(&reply); err != nil {
		return chatResponse{}, fmt.Errorf("%w: decode response: %w", apperror.ErrProviderRequest, err)
	}

	return reply, nil
}
