package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChatPlayer_RequestMove(t *testing.T) {
	t.Run("Sends the prompt and parses the reply", func(t *testing.T) {
		// Given: a chat endpoint answering "1,2"
		var got chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/chat", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"model":"m","message":{"role":"assistant","content":" 1,2 "},"done":true,"prompt_eval_count":120,"eval_count":4}`))
		}))
		t.Cleanup(server.Close)

		player := NewChatPlayer(discardLogger(), server.Client(), server.URL+"/", "secret", "deepseek-v3.2:cloud", time.Second)

		var board entity.Board
		board[1][1] = entity.MarkO

		// When: requesting a move for X
		move, err := player.RequestMove(context.Background(), board, entity.MarkX)

		// Then: the move and token usage are returned
		require.NoError(t, err)
		assert.Equal(t, entity.MoveRequest{Player: entity.SecondMover, Target: entity.Position{Row: 1, Col: 2}, Tokens: 124}, move)

		assert.Equal(t, "deepseek-v3.2:cloud", got.Model)
		assert.False(t, got.Stream)
		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, "user", got.Messages[1].Role)
		assert.Contains(t, got.Messages[1].Content, "YOUR SYMBOL: X")
	})

	t.Run("Out of range reply is returned for the coordinator to reject", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"5,5"}}`))
		}))
		t.Cleanup(server.Close)

		player := NewChatPlayer(discardLogger(), server.Client(), server.URL, "", "m", time.Second)

		move, err := player.RequestMove(context.Background(), entity.Board{}, entity.MarkO)

		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 5, Col: 5}, move.Target)
	})

	t.Run("Free text reply is unparsable", func(t *testing.T) {
		// Given: a model that ignores the output format
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"I would take the center."}}`))
		}))
		t.Cleanup(server.Close)

		player := NewChatPlayer(discardLogger(), server.Client(), server.URL, "", "m", time.Second)

		// When: requesting a move
		_, err := player.RequestMove(context.Background(), entity.Board{}, entity.MarkO)

		// Then: the error is an unparsable move
		require.ErrorIs(t, err, apperror.ErrUnparsableMove)
	})

	t.Run("Non 2xx status is a provider failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		}))
		t.Cleanup(server.Close)

		player := NewChatPlayer(discardLogger(), server.Client(), server.URL, "", "m", time.Second)

		_, err := player.RequestMove(context.Background(), entity.Board{}, entity.MarkO)

		require.ErrorIs(t, err, apperror.ErrProviderRequest)
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("Slow endpoint times out", func(t *testing.T) {
		// Given: an endpoint slower than the player timeout
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"message":{"content":"1,1"}}`))
		}))
		t.Cleanup(server.Close)

		player := NewChatPlayer(discardLogger(), server.Client(), server.URL, "", "m", 20*time.Millisecond)

		// When: requesting a move
		_, err := player.RequestMove(context.Background(), entity.Board{}, entity.MarkO)

		// Then: it fails as a provider request error
		require.ErrorIs(t, err, apperror.ErrProviderRequest)
	})
}
