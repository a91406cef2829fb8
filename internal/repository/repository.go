package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-duel/internal/config"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-duel/internal/repository/storage/sqlite"
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrAddrNotFound  = errors.New("redis address string is empty")
)

// Repositories bundles the stores picked by the storage driver.
type Repositories struct {
	Games  GameRepository
	Scores ScoreRepository

	closers []func() error
}

// Open connects the repositories for conf.Storage.Driver.
func Open(ctx context.Context, logger *slog.Logger, conf *config.Config) (*Repositories, error) {
	log := logger.With("component", "repository", "driver", conf.Storage.Driver)

	switch conf.Storage.Driver {
	case "", config.StorageMemory:
		log.Info("using in-memory storage")

		return &Repositories{
			Games:  NewMemoryGameRepository(),
			Scores: NewMemoryScoreRepository(),
		}, nil

	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		log.Info("connected to redis", "addr", redisAddrString)

		return &Repositories{
			Games:   NewGameRepository(redisStorage.Connection),
			Scores:  NewScoreRepository(redisStorage.Connection),
			closers: []func() error{redisStorage.Close},
		}, nil

	case config.StorageSQLite:
		sqliteStorage, err := sqlite.New(conf.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("could not open sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		log.Info("opened sqlite storage", "path", conf.Storage.SQLitePath)

		return &Repositories{
			Games:   NewSQLGameRepository(sqliteStorage.Connection),
			Scores:  NewSQLScoreRepository(sqliteStorage.Connection),
			closers: []func() error{sqliteStorage.Close},
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, conf.Storage.Driver)
	}
}

func (that *Repositories) Close() error {
	var errs []error
	for _, closeFn := range that.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
