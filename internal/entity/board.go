package entity

import "fmt"

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
	boardSide = 3
)

const (
	StatusNotFinished = "not_finished"
	StatusHasWinner   = "has_winner"
	StatusDraw        = "draw"
)

// WinCombos are scanned in order: rows top to bottom, columns left to right,
// then the two diagonals. The first match wins.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board is one snapshot of the 3x3 grid, row-major.
type Board [BoardSize]string

// GameResult is recomputed from a board on every read and never stored.
type GameResult struct {
	Status      string  `json:"status"`
	Winner      string  `json:"winner,omitempty"`
	WinningLine *[3]int `json:"winning_line,omitempty"`
}

// Location is a zero-based (row, col) position on the board.
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Location) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// Evaluate reports whether the board has a winner, is a draw, or is still open.
func Evaluate(board Board) GameResult {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			line := combo
			return GameResult{Status: StatusHasWinner, Winner: a, WinningLine: &line}
		}
	}

	// the game will continue until all the squares are full
	if !board.IsFull() {
		return GameResult{Status: StatusNotFinished}
	}

	return GameResult{Status: StatusDraw}
}

func (that GameResult) IsFinished() bool {
	return that.Status != StatusNotFinished
}

// IsOnWinningLine reports whether cell belongs to the winning line, if any.
func (that GameResult) IsOnWinningLine(cell int) bool {
	if that.WinningLine == nil {
		return false
	}

	for _, idx := range that.WinningLine {
		if idx == cell {
			return true
		}
	}

	return false
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that Board) IsEmpty() bool {
	return that == Board{}
}

// LocationOf converts a cell index into its (row, col) position.
func LocationOf(cell int) Location {
	return Location{Row: cell / boardSide, Col: cell % boardSide}
}

func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// DiffCell returns the single cell that differs between prev and next.
// Snapshots that differ in zero or several cells mean the history was
// corrupted, so it panics.
func DiffCell(prev, next Board) int {
	cell, err := diffCell(prev, next)
	if err != nil {
		panic(err)
	}

	return cell
}

func diffCell(prev, next Board) (int, error) {
	changed := -1

	for i := range prev {
		if prev[i] == next[i] {
			continue
		}

		if changed != -1 {
			return -1, fmt.Errorf("%w: cells %d and %d both changed", ErrCorruptedHistory, changed, i)
		}

		changed = i
	}

	if changed == -1 {
		return -1, fmt.Errorf("%w: no cell changed", ErrCorruptedHistory)
	}

	return changed, nil
}
