package engine

import (
	"github.com/google/uuid"
)

// GameState is the sole mutable aggregate of a match. The engine mutates
// it in place on every call; the caller owns it for the match duration
// and is responsible for serializing access (the state carries no locks).
type GameState struct {
	Deck    []string      `json:"deck"`
	Discard []string      `json:"discard"`
	Players []PlayerState `json:"players"`
	Turn    TurnState     `json:"turn"`
	Round   RoundState    `json:"round"`
	Match   MatchState    `json:"match"`

	// Log is an append-only human-readable audit trail.
	Log []string `json:"log"`

	// Events is reserved for a future structured event log; per-call
	// events currently flow through execute results instead.
	Events []Event `json:"events,omitempty"`
}

// PlayerState is one seat at the table. Entries are created during
// InitState and never removed or reordered; ID is immutable.
//
// Known parallels Hand slot for slot: Known[i] records whether Hand[i]'s
// identity has been revealed. Every hand mutation keeps the two slices
// the same length.
type PlayerState struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Hand             []string `json:"hand"`
	Known            []bool   `json:"known"`
	DeclaredKabu     bool     `json:"declaredKabu"`
	HasJustDrawn     bool     `json:"hasJustDrawn"`
	LastDrawSource   string   `json:"lastDrawSource"`
	LastDrawCardCode string   `json:"lastDrawCardCode"`
	Score            int      `json:"score"`
}

// TurnState holds the turn-scoped flags actions and abilities gate on.
type TurnState struct {
	PhaseID            string `json:"phaseId"`
	CurrentPlayerIndex int    `json:"currentPlayerIndex"`
	HasDrawn           bool   `json:"hasDrawn"`
	JustBurned         bool   `json:"justBurned"`
	HasUsedAbility     bool   `json:"hasUsedAbility"`
	HasDiscarded       bool   `json:"hasDiscarded"`
}

// RoundState counts rounds; advancing it is the host's job.
type RoundState struct {
	Number int `json:"number"`
}

// MatchState flags match termination.
type MatchState struct {
	HasWinner bool   `json:"hasWinner"`
	WinnerID  string `json:"winnerId"`
}

// PhaseGameOver is the terminal phase id scoreRound forces once a winner
// is found. Other phase ids are whatever the rule document declares.
const PhaseGameOver = "game_over"

// PlayerSpec names a player joining a match. An empty ID gets a
// generated uuid; tests and replays that need reproducible states supply
// their own ids.
type PlayerSpec struct {
	ID   string
	Name string
}

// InitOptions tweak InitState for tests and scripted scenarios.
type InitOptions struct {
	// DeckOverride replaces the configured ranks x suits deck.
	DeckOverride []string
	// Shuffle overrides metadata.setup.shuffle when non-nil.
	Shuffle *bool
}

// InitState creates the state for a fresh match: builds the deck from
// configured ranks x suits (rank outer, suit inner, so disabling shuffle
// gives a reproducible order), shuffles unless disabled, then deals
// initialHandSize cards to each player in seat order from the deck
// front. Empty ranks or suits silently yield an empty deck; configuration
// validity is the document author's responsibility.
func (e *Engine) InitState(players []PlayerSpec, opts InitOptions) *GameState {
	setup := e.doc.Metadata.Setup

	deck := opts.DeckOverride
	if deck == nil {
		deckCfg := e.doc.Metadata.Deck
		deck = make([]string, 0, len(deckCfg.Ranks)*len(deckCfg.Suits))
		for _, rank := range deckCfg.Ranks {
			for _, suit := range deckCfg.Suits {
				deck = append(deck, rank+suit)
			}
		}
	} else {
		deck = append([]string(nil), deck...)
	}

	doShuffle := setup.Shuffle
	if opts.Shuffle != nil {
		doShuffle = *opts.Shuffle
	}
	if doShuffle {
		shuffle(deck, e.rnd)
	}

	state := &GameState{
		Deck:    deck,
		Discard: []string{},
		Players: make([]PlayerState, 0, len(players)),
		Turn: TurnState{
			PhaseID:            setup.InitialPhaseID,
			CurrentPlayerIndex: 0,
		},
		Round: RoundState{Number: 1},
		Log:   []string{},
	}

	for _, spec := range players {
		id := spec.ID
		if id == "" {
			id = uuid.NewString()
		}
		state.Players = append(state.Players, PlayerState{
			ID:    id,
			Name:  spec.Name,
			Hand:  []string{},
			Known: []bool{},
		})
	}

	// Deal from the deck front; all later pile operations work from the
	// end (top of pile = end of sequence).
	for i := range state.Players {
		n := setup.InitialHandSize
		if n > len(state.Deck) {
			n = len(state.Deck)
		}
		p := &state.Players[i]
		p.Hand = append(p.Hand, state.Deck[:n]...)
		p.Known = append(p.Known, make([]bool, n)...)
		state.Deck = state.Deck[n:]
	}

	return state
}

// Clone returns a deep copy of the state. Hosts that need atomic action
// attempts snapshot before a call and restore on failure; the engine
// itself never rolls back (see the error propagation contract).
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Deck:    cloneStrings(s.Deck),
		Discard: cloneStrings(s.Discard),
		Players: make([]PlayerState, len(s.Players)),
		Turn:    s.Turn,
		Round:   s.Round,
		Match:   s.Match,
		Log:     cloneStrings(s.Log),
	}
	if s.Events != nil {
		out.Events = make([]Event, len(s.Events))
		copy(out.Events, s.Events)
	}
	for i, p := range s.Players {
		cp := p
		cp.Hand = cloneStrings(p.Hand)
		if p.Known != nil {
			cp.Known = make([]bool, len(p.Known))
			copy(cp.Known, p.Known)
		}
		out.Players[i] = cp
	}
	return out
}

// cloneStrings copies a slice preserving nil-ness, so cloned states
// compare equal to their originals under reflect.DeepEqual.
func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Player returns the player with the given id, if present.
func (s *GameState) Player(id string) *PlayerState {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() *PlayerState {
	return &s.Players[s.Turn.CurrentPlayerIndex]
}

// NextPlayer returns the player after the current one, wrapping around.
func (s *GameState) NextPlayer() *PlayerState {
	return &s.Players[(s.Turn.CurrentPlayerIndex+1)%len(s.Players)]
}

// rankOf recovers a card's rank by stripping the trailing suit rune.
func rankOf(code string) string {
	runes := []rune(code)
	if len(runes) == 0 {
		return ""
	}
	return string(runes[:len(runes)-1])
}
