package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const updatesBuffer = 16

// Client fans game changes out through Redis pub/sub so that every server
// instance can push them to its own connections.
type Client struct {
	logger *slog.Logger
	client *redis.Client
}

func New(logger *slog.Logger, client *redis.Client) *Client {
	return &Client{
		logger: logger.With("component", "pubsub"),
		client: client,
	}
}

func updatesChannel(gameID string) string {
	return "game:updates:" + gameID
}

// Publish - sends the new state of the game to its subscribers.
func (that *Client) Publish(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("failed to marshal game data: %w", err)
	}

	if err = that.client.Publish(ctx, updatesChannel(game.ID), gameJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish game update: %w", err)
	}

	return nil
}

// Subscribe - returns updates of one game until ctx is done or the returned
// func is called.
func (that *Client) Subscribe(ctx context.Context, gameID string) (<-chan *entity.Game, func(), error) {
	log := that.logger.With("method", "Subscribe", "gameID", gameID)

	pubsub := that.client.Subscribe(ctx, updatesChannel(gameID))

	// wait for the subscription to be confirmed, otherwise early updates are lost
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to game updates: %w", err)
	}

	updates := make(chan *entity.Game, updatesBuffer)
	messages := pubsub.Channel()

	go func() {
		defer close(updates)

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var game entity.Game
				if err := json.Unmarshal([]byte(msg.Payload), &game); err != nil {
					log.Error("failed to unmarshal game update", "error", err)
					continue
				}

				select {
				case updates <- &game:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	unsubscribe := func() {
		if err := pubsub.Close(); err != nil {
			log.Error("failed to close subscription", "error", err)
		}
	}

	return updates, unsubscribe, nil
}
