package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type sqlGame struct {
	conn *sql.DB
}

// NewSQLGameRepository expects the tables created by sqlite.Storage.Init.
func NewSQLGameRepository(conn *sql.DB) GameRepository {
	return &sqlGame{
		conn: conn,
	}
}

func (that *sqlGame) CreateOrUpdate(ctx context.Context, game *entity.GameRecord) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	query := `INSERT OR REPLACE INTO games (id, record, finished_at) VALUES (?, ?, ?)`

	if _, err = that.conn.ExecContext(ctx, query, game.ID, string(gameJSON), game.FinishedAt); err != nil {
		return fmt.Errorf("can't save game: %w", err)
	}

	return nil
}

func (that *sqlGame) GetByID(ctx context.Context, id string) (*entity.GameRecord, error) {
	query := `SELECT record FROM games WHERE id = ?`

	var gameJSON string
	err := that.conn.QueryRowContext(ctx, query, id).Scan(&gameJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return &entity.GameRecord{}, apperror.ErrGameNotFound
	}
	if err != nil {
		return &entity.GameRecord{}, fmt.Errorf("can't find game: %w", err)
	}

	var existingGame entity.GameRecord
	if err = json.Unmarshal([]byte(gameJSON), &existingGame); err != nil {
		return &entity.GameRecord{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func (that *sqlGame) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM games WHERE id = ?`

	result, err := that.conn.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("can't delete game: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't delete game: %w", err)
	}

	if affected == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}

type sqlScore struct {
	conn *sql.DB
}

func NewSQLScoreRepository(conn *sql.DB) ScoreRepository {
	return &sqlScore{
		conn: conn,
	}
}

func (that *sqlScore) Increment(ctx context.Context, outcome entity.Outcome) (entity.Score, error) {
	query := `INSERT INTO scores (outcome, count) VALUES (?, 1)
		ON CONFLICT(outcome) DO UPDATE SET count = count + 1`

	if _, err := that.conn.ExecContext(ctx, query, string(outcome)); err != nil {
		return entity.Score{}, fmt.Errorf("can't increment score: %w", err)
	}

	return that.Get(ctx)
}

func (that *sqlScore) Get(ctx context.Context) (entity.Score, error) {
	rows, err := that.conn.QueryContext(ctx, `SELECT outcome, count FROM scores`)
	if err != nil {
		return entity.Score{}, fmt.Errorf("can't get score: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[entity.Outcome]int, 3)
	for rows.Next() {
		var (
			outcome string
			count   int
		)
		if err = rows.Scan(&outcome, &count); err != nil {
			return entity.Score{}, fmt.Errorf("can't scan score: %w", err)
		}

		counts[entity.Outcome(outcome)] = count
	}

	if err = rows.Err(); err != nil {
		return entity.Score{}, fmt.Errorf("can't read score: %w", err)
	}

	return scoreFrom(counts), nil
}
