package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type GameService interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error

	Play(ctx context.Context, id string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, id string, move int) (*entity.Game, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, mutate func(game *entity.Game) (bool, error)) (*entity.Game, bool, error)
	DeleteByID(ctx context.Context, id string) error
}

type notifier interface {
	Publish(ctx context.Context, game *entity.Game) error
}

type gameService struct {
	logger *slog.Logger

	gameRepo gameRepo
	notifier notifier
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo, notifier notifier) GameService {
	return &gameService{
		logger:   logger.With("component", "gameService"),
		gameRepo: gameRepo,
		notifier: notifier,
	}
}

func (that *gameService) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game in storage: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *gameService) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game, nil
}

func (that *gameService) DeleteGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// Play applies a move. Ignored moves return the game unchanged and notify nobody.
func (that *gameService) Play(ctx context.Context, id string, cell int) (*entity.Game, error) {
	game, changed, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) (bool, error) {
		return game.Play(cell), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to play cell %d: %w", cell, err)
	}

	if changed {
		that.notify(ctx, game)
	}

	return game, nil
}

func (that *gameService) JumpTo(ctx context.Context, id string, move int) (*entity.Game, error) {
	game, changed, err := that.gameRepo.Update(ctx, id, func(game *entity.Game) (bool, error) {
		if game.CurrentMove == move {
			return false, nil
		}

		if err := game.JumpTo(move); err != nil {
			return false, err
		}

		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to jump to move %d: %w", move, err)
	}

	if changed {
		that.notify(ctx, game)
	}

	return game, nil
}

// notify - a failed publish is logged only, the move itself is already stored.
func (that *gameService) notify(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "notify", "gameID", game.ID)

	if err := that.notifier.Publish(ctx, game); err != nil {
		log.Error("failed to publish game update", "error", err)
		return
	}

	log.Debug("game update published", "currentMove", game.CurrentMove)
}
