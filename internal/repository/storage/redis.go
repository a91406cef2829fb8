package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const clientName = "tictactoe-duel"

// RedisStorage holds the connection shared by the game record and score repositories.
type RedisStorage struct {
	Connection *redis.Client
}

// NewRedisStorage dials addr and fails fast when the server does not answer PING.
func NewRedisStorage(ctx context.Context, addr string) (*RedisStorage, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:       addr,
		ClientName: clientName,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("redis storage unreachable at %s: %w", addr, err)
	}

	return &RedisStorage{Connection: conn}, nil
}

func (that *RedisStorage) Close() error {
	if err := that.Connection.Close(); err != nil {
		return fmt.Errorf("could not close redis storage: %w", err)
	}

	return nil
}
