package engine

// EventType indicates the category of an emitted event.
type EventType string

const (
	EventHandReveal EventType = "hand_reveal"
	EventRoundScore EventType = "round_score"
	EventCardReveal EventType = "card_reveal"
)

// Event is one entry in the per-call event list. Events describe what a
// UI layer needs to render (reveals, scores); they are returned from
// each execute call rather than persisted on the state.
type Event struct {
	Type     EventType `json:"type"`
	PlayerID string    `json:"playerId,omitempty"`

	// card_reveal
	CardCode  string `json:"cardCode,omitempty"`
	HandIndex int    `json:"handIndex,omitempty"`

	// hand_reveal: copy of the player's hand at emission time
	Hand []string `json:"hand,omitempty"`

	// round_score
	RoundScore int `json:"roundScore,omitempty"`
	TotalScore int `json:"totalScore,omitempty"`
}
