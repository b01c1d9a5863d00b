// Package rules defines the declarative rule document the engine
// interprets. A document is authored externally (typically by a visual
// editor) and describes a complete card game: deck composition, setup
// parameters, card values and ability bindings, plus the actions and
// abilities players can invoke. The engine itself carries no
// game-specific logic.
package rules

// Document is the immutable root of a rule document.
type Document struct {
	Metadata  Metadata        `json:"metadata"`
	Actions   map[string]Rule `json:"actions"`
	Abilities map[string]Rule `json:"abilities"`
}

// Metadata holds game-wide configuration read by setup and scoring.
type Metadata struct {
	Deck          DeckConfig         `json:"deck"`
	Setup         SetupConfig        `json:"setup"`
	CardValues    map[string]float64 `json:"cardValues"`
	CardAbilities map[string]string  `json:"cardAbilities"`
	KabuWinScore  *float64           `json:"kabuWinScore,omitempty"`
}

// DeckConfig describes the full deck as a rank x suit cartesian product.
type DeckConfig struct {
	Ranks []string `json:"ranks"`
	Suits []string `json:"suits"`
}

// SetupConfig describes match initialization.
type SetupConfig struct {
	InitialHandSize int    `json:"initialHandSize"`
	Shuffle         bool   `json:"shuffle"`
	InitialPhaseID  string `json:"initialPhaseId"`
}

// Rule is one action or ability: a phase-gated, condition-gated effect
// sequence. Actions and abilities share this shape; abilities are
// addressed independently of phase-triggered actions and may be invoked
// for another player's benefit via card bindings.
type Rule struct {
	AllowedPhases []string `json:"allowedPhases,omitempty"`
	Conditions    []string `json:"conditions,omitempty"`
	Effects       []Effect `json:"effects"`
}

// Effect is one primitive operation in an effect list. Op selects the
// handler; the remaining fields are op-specific and ignored by handlers
// that do not read them.
type Effect struct {
	Op string `json:"op"`

	// moveCard / moveCardByIndex
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Count      int    `json:"count,omitempty"`
	Index      *int   `json:"index,omitempty"`
	IndexParam string `json:"indexParam,omitempty"`

	// setFlag
	Target string `json:"target,omitempty"`
	Flag   string `json:"flag,omitempty"`
	Value  any    `json:"value,omitempty"`

	// setPhase / advanceTurnOrder
	Phase string `json:"phase,omitempty"`

	// log
	Message string `json:"message,omitempty"`

	// if
	Condition string   `json:"condition,omitempty"`
	Then      []Effect `json:"then,omitempty"`
	Else      []Effect `json:"else,omitempty"`

	// swapCards / swapCardsWithPeek
	PlayerA     string `json:"playerA,omitempty"`
	PlayerB     string `json:"playerB,omitempty"`
	IndexAParam string `json:"indexAParam,omitempty"`
	IndexBParam string `json:"indexBParam,omitempty"`
	Reveal      bool   `json:"reveal,omitempty"`

	// revealCard
	Player string `json:"player,omitempty"`
}

// Action returns the action with the given id.
func (d *Document) Action(id string) (Rule, bool) {
	r, ok := d.Actions[id]
	return r, ok
}

// Ability returns the ability with the given id.
func (d *Document) Ability(id string) (Rule, bool) {
	r, ok := d.Abilities[id]
	return r, ok
}

// AbilityForCard returns the ability id bound to a card code, if any.
func (d *Document) AbilityForCard(cardCode string) (string, bool) {
	id, ok := d.Metadata.CardAbilities[cardCode]
	return id, ok && id != ""
}
