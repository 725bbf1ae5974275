package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playAll(t *testing.T, game *Game, cells ...int) {
	t.Helper()

	for _, cell := range cells {
		require.True(t, game.Play(cell), "move on cell %d was rejected", cell)
	}
}

func TestNewGame(t *testing.T) {
	// When: a new game is created
	game := NewGame("123")

	// Then: it has a single empty snapshot and X to move
	expectedGame := &Game{
		ID:          "123",
		History:     []Board{{}},
		CurrentMove: 0,
	}

	require.Equal(t, expectedGame, game)
	assert.True(t, game.XIsNext())
	assert.Equal(t, 1, game.HistoryLength())
	assert.Equal(t, Board{}, game.CurrentBoard())
}

func TestGame_Play(t *testing.T) {
	t.Run("Successful Turn", func(t *testing.T) {
		// Given: a new game
		game := NewGame("123")

		// When: the first move is played on cell 0
		applied := game.Play(0)

		// Then: X is placed and O is next
		require.True(t, applied)
		assert.Equal(t, Board{PlayerX}, game.CurrentBoard())
		assert.Equal(t, 1, game.CurrentMove)
		assert.Equal(t, 2, game.HistoryLength())
		assert.False(t, game.XIsNext())
	})

	t.Run("Marks alternate starting with X", func(t *testing.T) {
		// Given: a new game
		game := NewGame("123")

		// When: three moves are played
		playAll(t, game, 0, 4, 8)

		// Then: the marks alternate
		assert.Equal(t, Board{PlayerX, EmptyCell, EmptyCell, EmptyCell, PlayerO, EmptyCell, EmptyCell, EmptyCell, PlayerX}, game.CurrentBoard())
	})

	t.Run("Occupied cell is ignored", func(t *testing.T) {
		// Given: a game where cell 0 is taken
		game := NewGame("123")
		playAll(t, game, 0)
		before := slicesClone(game.History)

		// When: cell 0 is played again
		applied := game.Play(0)

		// Then: nothing changes
		assert.False(t, applied)
		assert.Equal(t, before, game.History)
		assert.Equal(t, 1, game.CurrentMove)
	})

	t.Run("Cell outside the board is ignored", func(t *testing.T) {
		// Given: a new game
		game := NewGame("123")

		// When: invalid cells are played
		// Then: they are rejected without changes
		assert.False(t, game.Play(-1))
		assert.False(t, game.Play(9))
		assert.Equal(t, 1, game.HistoryLength())
	})

	t.Run("Moves after a win are ignored", func(t *testing.T) {
		// Given: X wins on the top row
		game := NewGame("123")
		playAll(t, game, 0, 4, 1, 7, 2)

		// When: O tries another move
		applied := game.Play(5)

		// Then: nothing changes
		assert.False(t, applied)
		assert.Equal(t, 6, game.HistoryLength())
		assert.Equal(t, 5, game.CurrentMove)
	})

	t.Run("Top row scenario reports X as winner", func(t *testing.T) {
		// Given: a new game
		game := NewGame("123")

		// When: X takes the top row
		playAll(t, game, 0, 4, 1, 7, 2)

		// Then: X wins on [0, 1, 2]
		result := game.Result()
		require.Equal(t, StatusHasWinner, result.Status)
		assert.Equal(t, PlayerX, result.Winner)
		assert.Equal(t, [3]int{0, 1, 2}, *result.WinningLine)
		assert.Equal(t, "Winner: X", game.StatusText())
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		// Given: a new game
		game := NewGame("123")

		// When: the board is filled without three in a row
		// X O X
		// X O O
		// O X X
		playAll(t, game, 0, 1, 2, 4, 3, 5, 7, 6, 8)

		// Then: the game is a draw and no more moves are accepted
		assert.Equal(t, StatusDraw, game.Result().Status)
		assert.Equal(t, "Draw", game.StatusText())
		assert.False(t, game.Play(0))
	})

	t.Run("Alternate full board is also a draw", func(t *testing.T) {
		// Given: a new game
		game := NewGame("123")

		// When: the cells are played in the order 0,1,2,3,5,4,6,8,7
		// X O X
		// O O X
		// X X O
		playAll(t, game, 0, 1, 2, 3, 5, 4, 6, 8, 7)

		// Then: nobody won and every cell is filled
		result := game.Result()
		assert.Equal(t, StatusDraw, result.Status)
		assert.Empty(t, result.Winner)
		assert.Nil(t, result.WinningLine)
		assert.True(t, game.CurrentBoard().IsFull())
		assert.Equal(t, 10, game.HistoryLength())
		assert.Equal(t, "Draw", game.StatusText())
	})

	t.Run("Playing from the past truncates the future", func(t *testing.T) {
		// Given: a history of length 5 viewed at move 2
		game := NewGame("123")
		playAll(t, game, 0, 1, 2, 3)
		require.Equal(t, 5, game.HistoryLength())
		require.NoError(t, game.JumpTo(2))

		// When: a new move is played
		applied := game.Play(8)

		// Then: moves 3 and 4 are discarded and the new one is appended
		require.True(t, applied)
		assert.Equal(t, 4, game.HistoryLength())
		assert.Equal(t, 3, game.CurrentMove)
		assert.Equal(t, Board{PlayerX, PlayerO, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, EmptyCell, PlayerX}, game.CurrentBoard())
		require.NoError(t, game.Validate())
	})

	t.Run("Playing from the past does not alias old snapshots", func(t *testing.T) {
		// Given: a game rewound to the start
		game := NewGame("123")
		playAll(t, game, 0, 1)
		require.NoError(t, game.JumpTo(0))

		// When: a different first move is played
		playAll(t, game, 4)

		// Then: the first snapshot is still empty
		assert.Equal(t, Board{}, game.History[0])
		assert.Equal(t, 2, game.HistoryLength())
	})
}

func TestGame_JumpTo(t *testing.T) {
	t.Run("Changes only the current move", func(t *testing.T) {
		// Given: a game with three moves
		game := NewGame("123")
		playAll(t, game, 0, 4, 8)
		history := slicesClone(game.History)

		// When: jumping back to move 1
		err := game.JumpTo(1)

		// Then: the board is the old snapshot and history is intact
		require.NoError(t, err)
		assert.Equal(t, 1, game.CurrentMove)
		assert.Equal(t, history, game.History)
		assert.Equal(t, Board{PlayerX}, game.CurrentBoard())
		assert.False(t, game.XIsNext())
	})

	t.Run("Jumping out of range is rejected", func(t *testing.T) {
		// Given: a game with two snapshots
		game := NewGame("123")
		playAll(t, game, 0)

		// When: jumping outside the history
		// Then: ErrInvalidMove is returned and nothing changes
		assert.ErrorIs(t, game.JumpTo(2), apperror.ErrInvalidMove)
		assert.ErrorIs(t, game.JumpTo(-1), apperror.ErrInvalidMove)
		assert.Equal(t, 1, game.CurrentMove)
	})

	t.Run("Jumping back from a finished game allows playing again", func(t *testing.T) {
		// Given: X has won
		game := NewGame("123")
		playAll(t, game, 0, 4, 1, 7, 2)

		// When: jumping back before the winning move
		require.NoError(t, game.JumpTo(4))

		// Then: the game is open again and X can play elsewhere
		assert.Equal(t, "Next player: X", game.StatusText())
		assert.True(t, game.Play(5))
		assert.Equal(t, 6, game.HistoryLength())
	})
}

func TestGame_Moves(t *testing.T) {
	// Given: a game with three moves, viewed at move 2
	game := NewGame("123")
	playAll(t, game, 0, 4, 7)
	require.NoError(t, game.JumpTo(2))

	t.Run("Ascending order", func(t *testing.T) {
		// When: listing the moves
		moves := game.Moves(SortAscending)

		// Then: each move carries its location and description
		require.Len(t, moves, 4)
		assert.Equal(t, Move{Number: 0, Description: "Go to game start"}, moves[0])
		assert.Equal(t, &Location{Row: 0, Col: 0}, moves[1].Location)
		assert.Equal(t, "Go to move #1 (0, 0)", moves[1].Description)
		assert.True(t, moves[2].IsCurrent)
		assert.Equal(t, "You are at move #2 (1, 1)", moves[2].Description)
		assert.Equal(t, "Go to move #3 (2, 1)", moves[3].Description)
	})

	t.Run("Descending order", func(t *testing.T) {
		// When: listing the moves newest first
		moves := game.Moves(SortDescending)

		// Then: the order is reversed
		require.Len(t, moves, 4)
		assert.Equal(t, 3, moves[0].Number)
		assert.Equal(t, 0, moves[3].Number)
	})

	t.Run("Game start is the current move on a new game", func(t *testing.T) {
		moves := NewGame("1").Moves(SortAscending)

		require.Len(t, moves, 1)
		assert.Equal(t, "You are at game start", moves[0].Description)
	})
}

func TestGame_MoveLocation(t *testing.T) {
	t.Run("Returns the row and column of the move", func(t *testing.T) {
		// Given: moves on cells 5 and 6
		game := NewGame("123")
		playAll(t, game, 5, 6)

		// Then: locations are derived from the history
		assert.Equal(t, Location{Row: 1, Col: 2}, game.MoveLocation(1))
		assert.Equal(t, Location{Row: 2, Col: 0}, game.MoveLocation(2))
	})

	t.Run("Panics on a corrupted history", func(t *testing.T) {
		// Given: a history where a snapshot repeats
		game := &Game{History: []Board{{}, {}}}

		// Then: the location cannot be derived
		assert.Panics(t, func() { game.MoveLocation(1) })
	})
}

func TestGame_View(t *testing.T) {
	// Given: a game where O is to move
	game := NewGame("abc")
	playAll(t, game, 4)

	// When: building the view
	view := game.View(SortAscending)

	// Then: it reflects the current snapshot
	assert.Equal(t, "abc", view.ID)
	assert.Equal(t, game.CurrentBoard(), view.Board)
	assert.Equal(t, 1, view.CurrentMove)
	assert.Equal(t, 2, view.HistoryLength)
	assert.Equal(t, PlayerO, view.NextPlayer)
	assert.Equal(t, StatusNotFinished, view.Result.Status)
	assert.Equal(t, "Next player: O", view.StatusText)
	assert.Len(t, view.Moves, 2)
}

func TestGame_Validate(t *testing.T) {
	t.Run("Accepts a played game after a JSON round trip", func(t *testing.T) {
		// Given: a game stored as JSON
		game := NewGame("123")
		playAll(t, game, 0, 4, 1, 7, 2)
		require.NoError(t, game.JumpTo(3))

		raw, err := json.Marshal(game)
		require.NoError(t, err)

		// When: it is decoded again
		var decoded Game
		require.NoError(t, json.Unmarshal(raw, &decoded))

		// Then: it is equal and valid
		assert.Equal(t, game, &decoded)
		assert.NoError(t, decoded.Validate())
	})

	cases := map[string]*Game{
		"empty history":         {History: []Board{}},
		"non empty start":       {History: []Board{{PlayerX}}},
		"current move too high": {History: []Board{{}}, CurrentMove: 1},
		"repeated snapshot":     {History: []Board{{}, {}}},
		"two cells at once":     {History: []Board{{}, {PlayerX, PlayerO}}},
		"O moves first":         {History: []Board{{}, {PlayerO}}},
		"move after a win": {History: []Board{
			{},
			{PlayerX},
			{PlayerX, EmptyCell, EmptyCell, PlayerO},
			{PlayerX, PlayerX, EmptyCell, PlayerO},
			{PlayerX, PlayerX, EmptyCell, PlayerO, PlayerO},
			{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO},
			{PlayerX, PlayerX, PlayerX, PlayerO, PlayerO, PlayerO},
		}},
	}

	for name, game := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, game.Validate(), ErrCorruptedHistory)
		})
	}
}

func slicesClone(history []Board) []Board {
	return append([]Board(nil), history...)
}
