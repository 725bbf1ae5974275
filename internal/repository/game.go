package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const maxUpdateRetries = 5

type GameRepository interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, mutate func(game *entity.Game) (bool, error)) (*entity.Game, bool, error)
	DeleteByID(ctx context.Context, id string) error
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository stores games as JSON under game:<id>. A zero ttl keeps them forever.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	err = that.client.Set(ctx, gameKey(game.ID), gameJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return that.get(ctx, that.client, id)
}

// Update runs mutate inside a WATCH/MULTI transaction so that two moves on
// the same game never overwrite each other. The game is written back only
// when mutate reports a change.
func (that *dbGame) Update(ctx context.Context, id string, mutate func(game *entity.Game) (bool, error)) (*entity.Game, bool, error) {
	var (
		game    *entity.Game
		changed bool
	)

	txf := func(tx *redis.Tx) error {
		var err error

		game, err = that.get(ctx, tx, id)
		if err != nil {
			return err
		}

		changed, err = mutate(game)
		if err != nil || !changed {
			return err
		}

		gameJSON, err := json.Marshal(game)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey(id), gameJSON, that.ttl)
			return nil
		})

		return err
	}

	for range maxUpdateRetries {
		err := that.client.Watch(ctx, txf, gameKey(id))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return nil, false, err
		}

		return game, changed, nil
	}

	return nil, false, fmt.Errorf("%w: game %s", apperror.ErrGameConflict, id)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by ID: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrGameNotFound
	}

	return nil
}

func (that *dbGame) get(ctx context.Context, client getter, id string) (*entity.Game, error) {
	response, err := client.Get(ctx, gameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedGame, err)
	}

	if err = existingGame.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptedGame, err)
	}

	return &existingGame, nil
}
