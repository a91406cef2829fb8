package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository"
	"github.com/rocketscienceinc/tictactoe-duel/internal/service"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-duel/internal/ui"
	"github.com/rocketscienceinc/tictactoe-duel/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-duel/transport/rest"
	"github.com/rocketscienceinc/tictactoe-duel/transport/websocket"
)

const shutdownTimeout = 5 * time.Second

var ErrLogicJoinTimeout = errors.New("logic context did not stop in time")

// RunApp - runs the UI context, the logic context and the HTTP server until shutdown.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	humanRole, err := entity.ParsePlayerID(conf.Game.HumanRole)
	if err != nil {
		return fmt.Errorf("invalid game config: %w", err)
	}

	repos, err := repository.Open(ctx, logger, conf)
	if err != nil {
		return fmt.Errorf("could not open storage: %w", err)
	}

	defer func() {
		if err = repos.Close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	registry := service.NewDefaultRegistry(logger, conf.Providers, conf.Game.Provider)
	if !registry.Has(conf.Game.Provider) {
		log.Warn("configured provider is unknown, sessions will fail until another is selected", "provider", conf.Game.Provider)
	}

	gate := tictactoe.NewGate()
	signals := usecase.NewSignals()

	console := ui.NewConsole(logger, gate, signals, registry, humanRole, conf.Game.Provider, conf.UI.TickRate)

	score, err := repos.Scores.Get(ctx)
	if err != nil {
		log.Error("could not load score", "error", err)
	} else {
		console.SetScore(score)
	}

	coordinator := tictactoe.NewCoordinator(logger, console, conf.Game.InvalidMoveLimit)
	manager := usecase.NewSessionManager(logger, coordinator, gate, signals, console, registry, repos.Scores, repos.Games, humanRole)

	hub := websocket.NewHub(logger, console, conf.UI.SnapshotBuffer)
	console.AddRenderer(hub)

	server := rest.NewServer(logger, conf.HTTPPort, console, registry, repos.Games, hub)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig.String())
			console.RequestShutdown()
		case <-ctx.Done():
		}
	}()

	logicErrCh := make(chan error, 1)
	go func() {
		logicErrCh <- manager.Run(ctx)
	}()

	uiErrCh := make(chan error, 1)
	go func() {
		uiErrCh <- console.Run(ctx)
	}()

	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- server.Start()
	}()

	var runErr error
	logicDone := false

	select {
	case err = <-uiErrCh:
		log.Info("Console stopped, shutting down")
		runErr = err
	case err = <-logicErrCh:
		logicDone = true
		if err != nil {
			runErr = fmt.Errorf("logic context failed: %w", err)
		}
	case err = <-httpErrCh:
		if err != nil {
			runErr = fmt.Errorf("HTTP server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	signals.RequestShutdown()

	if !logicDone {
		if err = joinLogic(logicErrCh); err != nil && runErr == nil {
			runErr = err
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()

	if err = server.Stop(stopCtx); err != nil {
		log.Error("could not stop HTTP server", "error", err)
	}

	hub.Close()

	return runErr
}

// joinLogic waits for the session loop to return after shutdown was requested.
func joinLogic(logicErrCh <-chan error) error {
	select {
	case err := <-logicErrCh:
		if err != nil {
			return fmt.Errorf("logic context failed: %w", err)
		}

		return nil
	case <-time.After(shutdownTimeout):
		return ErrLogicJoinTimeout
	}
}
