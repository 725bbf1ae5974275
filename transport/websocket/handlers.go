package websocket

import (
	"context"
	"errors"
	"fmt"
)

var errMissingField = errors.New("required field is missing")

func (that *Server) handleState(ctx context.Context, sess *session, _ *RequestPayload) error {
	game, err := that.gameService.GetGame(ctx, sess.gameID)
	if err != nil {
		return fmt.Errorf("failed to get game: %w", err)
	}

	return sess.sendGame(actionState, game)
}

// handlePlay - the answer carries the game even when the move was ignored,
// subscribers get a game:update only for applied moves.
func (that *Server) handlePlay(ctx context.Context, sess *session, payload *RequestPayload) error {
	if payload.Cell == nil {
		return fmt.Errorf("%w: cell", errMissingField)
	}

	game, err := that.gameService.Play(ctx, sess.gameID, *payload.Cell)
	if err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	return sess.sendGame(actionPlay, game)
}

func (that *Server) handleJump(ctx context.Context, sess *session, payload *RequestPayload) error {
	if payload.Move == nil {
		return fmt.Errorf("%w: move", errMissingField)
	}

	game, err := that.gameService.JumpTo(ctx, sess.gameID, *payload.Move)
	if err != nil {
		return fmt.Errorf("failed to jump: %w", err)
	}

	return sess.sendGame(actionJump, game)
}
