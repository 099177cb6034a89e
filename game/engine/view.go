package engine

import "fmt"

// CardState is how a card is shown to the player
type CardState string

const (
	CardHidden   CardState = "hidden"
	CardRevealed CardState = "revealed"
	CardMatched  CardState = "matched"
)

const (
	BannerWon      = "You Won!"
	BannerLost     = "Game Over!"
	ResetLabel     = "Reset"
	PlayAgainLabel = "Play Again"
)

// CardView is the client-facing representation of a card.
// Value is only included when the card is face up.
type CardView struct {
	ID    int       `json:"id"`
	Row   int       `json:"row"`
	Col   int       `json:"col"`
	State CardState `json:"state"`
	Value *int      `json:"value,omitempty"`
}

// BoardView is the read-only projection rendered by every front end
type BoardView struct {
	GameID       string     `json:"game_id"`
	ConfigName   string     `json:"config_name"`
	Generation   uint64     `json:"generation"`
	GridSize     int        `json:"grid_size"`
	Cards        []CardView `json:"cards"`
	Moves        int        `json:"moves"`
	MaxMoves     int        `json:"max_moves"`
	MovesLabel   string     `json:"moves_label"`
	MatchedPairs int        `json:"matched_pairs"`
	TotalPairs   int        `json:"total_pairs"`
	Outcome      Outcome    `json:"outcome"`
	Phase        Phase      `json:"phase"`
	Pending      bool       `json:"pending"`
	Banner       string     `json:"banner,omitempty"`
	ResetLabel   string     `json:"reset_label"`
	Message      string     `json:"message"`
}

// View projects the state into what a player is allowed to see
func (gs *GameState) View() *BoardView {
	faceUp := make(map[int]bool, len(gs.Revealed))
	for _, id := range gs.Revealed {
		faceUp[id] = true
	}

	cards := make([]CardView, len(gs.Deck))
	for i, card := range gs.Deck {
		cv := CardView{ID: card.ID, State: CardHidden}
		if gs.GridSize > 0 {
			cv.Row, cv.Col = i/gs.GridSize, i%gs.GridSize
		}
		switch {
		case gs.Matched[card.ID]:
			cv.State = CardMatched
		case faceUp[card.ID]:
			cv.State = CardRevealed
		}
		if cv.State != CardHidden {
			value := card.Value
			cv.Value = &value
		}
		cards[i] = cv
	}

	v := &BoardView{
		GameID:       gs.GameID,
		ConfigName:   gs.ConfigName,
		Generation:   gs.Generation,
		GridSize:     gs.GridSize,
		Cards:        cards,
		Moves:        gs.MoveCount,
		MaxMoves:     gs.MaxMoves,
		MovesLabel:   fmt.Sprintf("%d / %d", gs.MoveCount, gs.MaxMoves),
		MatchedPairs: len(gs.Matched) / 2,
		TotalPairs:   len(gs.Deck) / 2,
		Outcome:      gs.Outcome,
		Phase:        gs.Phase(),
		Pending:      gs.Pending,
		ResetLabel:   ResetLabel,
		Message:      gs.Message,
	}

	switch gs.Outcome {
	case Won:
		v.Banner = BannerWon
		v.ResetLabel = PlayAgainLabel
	case Lost:
		v.Banner = BannerLost
		v.ResetLabel = PlayAgainLabel
	}
	return v
}

// Card returns the view of the card with the given id
func (v *BoardView) Card(id int) (CardView, bool) {
	if id < 0 || id >= len(v.Cards) {
		return CardView{}, false
	}
	return v.Cards[id], true
}
