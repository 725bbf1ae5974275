// Package tui is a terminal front end for a local game: it renders the
// board, the status line and the move list, and maps keys to moves.
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const localGameID = "local"

type Model struct {
	game   *entity.Game
	cursor int
	order  string
}

func New() Model {
	return Model{
		game:   entity.NewGame(localGameID),
		cursor: 4,
		order:  entity.SortAscending,
	}
}

func (m Model) Game() *entity.Game {
	return m.game
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-3)
	case "down", "j":
		m.moveCursor(3)
	case "left", "h":
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%3 < 2 {
			m.cursor++
		}
	case "enter", " ":
		m.game.Play(m.cursor)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		m.cursor = int(key.Runes[0] - '1')
		m.game.Play(m.cursor)
	case "[":
		_ = m.game.JumpTo(m.game.CurrentMove - 1)
	case "]":
		_ = m.game.JumpTo(m.game.CurrentMove + 1)
	case "g":
		_ = m.game.JumpTo(0)
	case "G":
		_ = m.game.JumpTo(m.game.HistoryLength() - 1)
	case "s":
		m.toggleOrder()
	case "n":
		m.game = entity.NewGame(localGameID)
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if next := m.cursor + delta; entity.IsValidCell(next) {
		m.cursor = next
	}
}

func (m *Model) toggleOrder() {
	if m.order == entity.SortAscending {
		m.order = entity.SortDescending
		return
	}

	m.order = entity.SortAscending
}

func (m Model) View() string {
	var b strings.Builder

	board := m.game.CurrentBoard()
	result := m.game.Result()

	for row := range 3 {
		for col := range 3 {
			cell := row*3 + col
			b.WriteString(renderCell(board[cell], cell == m.cursor, result.IsOnWinningLine(cell)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.game.StatusText())
	b.WriteString("\n\n")

	for _, move := range m.game.Moves(m.order) {
		if move.IsCurrent {
			b.WriteString("> ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(move.Description)
		b.WriteString("\n")
	}

	b.WriteString("\narrows/1-9 play, [ ] time-travel, s sort, n new game, q quit\n")

	return b.String()
}

// renderCell marks the cursor with brackets and the winning line with stars.
func renderCell(mark string, isCursor, isWinning bool) string {
	if mark == entity.EmptyCell {
		mark = "."
	}

	switch {
	case isCursor:
		return "[" + mark + "]"
	case isWinning:
		return "*" + mark + "*"
	default:
		return " " + mark + " "
	}
}
