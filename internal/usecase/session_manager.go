package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
)

// UI is the core to UI boundary.
type UI interface {
	tictactoe.Publisher
	PublishScoreIncrement(outcome entity.Outcome)
	SetInputEnabled(enabled bool)
	SelectedProvider() string
}

type playerRegistry interface {
	Get(id string) (tictactoe.Player, error)
}

type scoreRepo interface {
	Increment(ctx context.Context, outcome entity.Outcome) (entity.Score, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameRecord) error
}

// SessionManager runs sessions back to back on the logic side: start, play to
// a finish, then wait for a restart or shutdown request.
type SessionManager struct {
	logger      *slog.Logger
	coordinator *tictactoe.Coordinator
	gate        *tictactoe.Gate
	signals     *Signals
	ui          UI

	registry  playerRegistry
	scoreRepo scoreRepo
	gameRepo  gameRepo

	humanRole entity.PlayerID
	newID     func() string
}

func NewSessionManager(
	logger *slog.Logger,
	coordinator *tictactoe.Coordinator,
	gate *tictactoe.Gate,
	signals *Signals,
	ui UI,
	registry playerRegistry,
	scoreRepo scoreRepo,
	gameRepo gameRepo,
	humanRole entity.PlayerID,
) *SessionManager {
	if !humanRole.Valid() {
		humanRole = entity.SecondMover
	}

	return &SessionManager{
		logger:      logger.With("component", "session_manager"),
		coordinator: coordinator,
		gate:        gate,
		signals:     signals,
		ui:          ui,
		registry:    registry,
		scoreRepo:   scoreRepo,
		gameRepo:    gameRepo,
		humanRole:   humanRole,
		newID:       uuid.NewString,
	}
}

// Run blocks until shutdown is requested or ctx is done. It returns nil on a
// clean shutdown, including one that interrupts a game in progress.
func (that *SessionManager) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-that.signals.Done():
			log.Info("shutdown requested")
		case <-ctx.Done():
		}

		cancel()
		that.gate.Shutdown()
	}()

	for {
		if that.stopping(ctx) {
			return nil
		}

		status, err := that.RunSession(ctx)
		if err != nil {
			if errors.Is(err, apperror.ErrShutdown) {
				log.Info("session interrupted by shutdown")
				return nil
			}

			return fmt.Errorf("session failed: %w", err)
		}

		log.Info("waiting for restart or shutdown", "status", status.String())

		if !that.awaitRestart(ctx) {
			log.Info("stopping session loop")
			return nil
		}

		log.Info("restart requested")
	}
}

// RunSession plays one session against the provider currently selected in the UI.
func (that *SessionManager) RunSession(ctx context.Context) (entity.Status, error) {
	that.signals.drainRestart()
	that.gate.Reset()

	// provider selection is locked from here until the session ends
	that.ui.SetInputEnabled(true)

	providerID := that.ui.SelectedProvider()
	automated, err := that.registry.Get(providerID)
	if err != nil {
		that.ui.SetInputEnabled(false)
		return entity.Status{}, fmt.Errorf("failed to get automated player: %w", err)
	}

	players := tictactoe.Players{First: automated, Second: tictactoe.NewHumanPlayer(that.gate)}
	if that.humanRole == entity.FirstMover {
		players = tictactoe.Players{First: players.Second, Second: players.First}
	}

	sessionID := that.newID()
	log := that.logger.With("method", "RunSession", "sessionID", sessionID, "provider", providerID)

	that.coordinator.Start(sessionID, players)
	that.ui.PublishBoardSnapshot(that.coordinator.Snapshot())

	log.Info("session started", "humanRole", that.humanRole)

	status, err := that.coordinator.Play(ctx)
	that.ui.SetInputEnabled(false)
	if err != nil {
		return entity.Status{}, err
	}

	that.finish(ctx, providerID, status)

	return status, nil
}

func (that *SessionManager) finish(ctx context.Context, providerID string, status entity.Status) {
	log := that.logger.With("method", "finish", "status", status.String())

	if outcome, ok := entity.OutcomeFor(status, that.humanRole); ok {
		that.ui.PublishScoreIncrement(outcome)

		if _, err := that.scoreRepo.Increment(ctx, outcome); err != nil {
			log.Error("failed to persist score", "error", err)
		}
	}

	record := that.coordinator.Record(providerID, that.humanRole)
	if err := that.gameRepo.CreateOrUpdate(ctx, record); err != nil {
		log.Error("failed to store game record", "error", err)
	}
}

// awaitRestart reports whether a new session should start. Shutdown wins over restart.
func (that *SessionManager) awaitRestart(ctx context.Context) bool {
	select {
	case <-that.signals.Restart():
		return !that.stopping(ctx)
	case <-that.signals.Done():
		return false
	case <-ctx.Done():
		return false
	}
}

func (that *SessionManager) stopping(ctx context.Context) bool {
	return that.signals.IsShutdown() || ctx.Err() != nil
}
