package entity

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
)

const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

var ErrCorruptedHistory = errors.New("corrupted game history")

// Game owns the ordered board snapshots and the selected move.
// X always moves first, so X is next whenever CurrentMove is even.
type Game struct {
	ID          string  `json:"id"`
	History     []Board `json:"history"`
	CurrentMove int     `json:"current_move"`
}

// Move is one entry of the move list shown next to the board.
type Move struct {
	Number      int       `json:"number"`
	Location    *Location `json:"location,omitempty"`
	IsCurrent   bool      `json:"is_current"`
	Description string    `json:"description"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		History:     []Board{{}},
		CurrentMove: 0,
	}
}

func (that *Game) CurrentBoard() Board {
	return that.History[that.CurrentMove]
}

func (that *Game) XIsNext() bool {
	return that.CurrentMove%2 == 0
}

func (that *Game) NextMark() string {
	if that.XIsNext() {
		return PlayerX
	}

	return PlayerO
}

func (that *Game) HistoryLength() int {
	return len(that.History)
}

func (that *Game) Result() GameResult {
	return Evaluate(that.CurrentBoard())
}

// Play puts the next mark on cell and reports whether the game changed.
// Clicks on a filled cell, outside the board or after the game is decided are ignored.
func (that *Game) Play(cell int) bool {
	if !IsValidCell(cell) {
		return false
	}

	current := that.CurrentBoard()
	if Evaluate(current).IsFinished() || current[cell] != EmptyCell {
		return false
	}

	next := current
	next[cell] = that.NextMark()

	// playing from a past snapshot drops everything after it
	that.History = append(slices.Clip(that.History[:that.CurrentMove+1]), next)
	that.CurrentMove = len(that.History) - 1

	return true
}

// JumpTo selects a snapshot without touching the history.
func (that *Game) JumpTo(move int) error {
	if move < 0 || move >= len(that.History) {
		return fmt.Errorf("%w: move %d, history length %d", apperror.ErrInvalidMove, move, len(that.History))
	}

	that.CurrentMove = move

	return nil
}

// MoveLocation returns where the mark of the given move was placed.
func (that *Game) MoveLocation(move int) Location {
	return LocationOf(DiffCell(that.History[move-1], that.History[move]))
}

func (that *Game) StatusText() string {
	switch result := that.Result(); result.Status {
	case StatusHasWinner:
		return "Winner: " + result.Winner
	case StatusDraw:
		return "Draw"
	default:
		return "Next player: " + that.NextMark()
	}
}

func (that *Game) Moves(order string) []Move {
	moves := make([]Move, 0, len(that.History))

	for i := range that.History {
		move := Move{Number: i, IsCurrent: i == that.CurrentMove}

		if i > 0 {
			location := that.MoveLocation(i)
			move.Location = &location
		}

		move.Description = describeMove(move)
		moves = append(moves, move)
	}

	if order == SortDescending {
		slices.Reverse(moves)
	}

	return moves
}

func describeMove(move Move) string {
	switch {
	case move.Number == 0 && move.IsCurrent:
		return "You are at game start"
	case move.Number == 0:
		return "Go to game start"
	case move.IsCurrent:
		return fmt.Sprintf("You are at move #%d %s", move.Number, move.Location)
	default:
		return fmt.Sprintf("Go to move #%d %s", move.Number, move.Location)
	}
}

// Validate checks the history invariants of a game that came from outside,
// e.g. from storage.
func (that *Game) Validate() error {
	if len(that.History) == 0 {
		return fmt.Errorf("%w: empty history", ErrCorruptedHistory)
	}

	if !that.History[0].IsEmpty() {
		return fmt.Errorf("%w: first snapshot is not empty", ErrCorruptedHistory)
	}

	if that.CurrentMove < 0 || that.CurrentMove >= len(that.History) {
		return fmt.Errorf("%w: current move %d out of range", ErrCorruptedHistory, that.CurrentMove)
	}

	for i := 1; i < len(that.History); i++ {
		if Evaluate(that.History[i-1]).IsFinished() {
			return fmt.Errorf("%w: move %d played after the game was decided", ErrCorruptedHistory, i)
		}

		cell, err := diffCell(that.History[i-1], that.History[i])
		if err != nil {
			return fmt.Errorf("move %d: %w", i, err)
		}

		mark := PlayerX
		if i%2 == 0 {
			mark = PlayerO
		}

		if that.History[i-1][cell] != EmptyCell || that.History[i][cell] != mark {
			return fmt.Errorf("%w: move %d must place %s on an empty cell", ErrCorruptedHistory, i, mark)
		}
	}

	return nil
}
