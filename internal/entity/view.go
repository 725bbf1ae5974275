package entity

// View is what presentation layers render: the current snapshot plus
// everything derived from it.
type View struct {
	ID            string     `json:"id"`
	Board         Board      `json:"board"`
	CurrentMove   int        `json:"current_move"`
	HistoryLength int        `json:"history_length"`
	NextPlayer    string     `json:"next_player"`
	Result        GameResult `json:"result"`
	StatusText    string     `json:"status_text"`
	Moves         []Move     `json:"moves"`
}

func (that *Game) View(order string) View {
	return View{
		ID:            that.ID,
		Board:         that.CurrentBoard(),
		CurrentMove:   that.CurrentMove,
		HistoryLength: that.HistoryLength(),
		NextPlayer:    that.NextMark(),
		Result:        that.Result(),
		StatusText:    that.StatusText(),
		Moves:         that.Moves(order),
	}
}
