package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel: "error",
		HTTPPort: "0",
		Storage:  config.Storage{Driver: config.StorageMemory},
		UI:       config.UI{TickRate: 100, SnapshotBuffer: 4},
		Game:     config.Game{InvalidMoveLimit: 3, HumanRole: "second", Provider: "random"},
	}
}

func TestRunApp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("Cancel stops every context cleanly", func(t *testing.T) {
		// Given: a running app waiting for the human's move
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- RunApp(ctx, logger, testConfig())
		}()

		time.Sleep(100 * time.Millisecond)

		// When: the context is canceled
		cancel()

		// Then: RunApp returns without error
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("RunApp did not stop")
		}
	})

	t.Run("Invalid human role is rejected", func(t *testing.T) {
		conf := testConfig()
		conf.Game.HumanRole = "third"

		err := RunApp(context.Background(), logger, conf)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid game config")
	})

	t.Run("Unknown storage driver is rejected", func(t *testing.T) {
		conf := testConfig()
		conf.Storage.Driver = "postgres"

		err := RunApp(context.Background(), logger, conf)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not open storage")
	})
}
