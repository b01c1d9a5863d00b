package engine

// Shared fixtures for engine tests: a compact two-rank ruleset and some
// canned players. Tests that need other actions or metadata clone and
// adjust the document before building an engine.

import (
	"github.com/kabugame/kabu-engine-go/internal/rules"
)

func floatPtr(v float64) *float64 { return &v }

// testDoc returns a minimal Kabu-like ruleset: a 4-card deck (A,K x
// H,S), one-card hands, a draw/discard/score action set and a peek
// ability bound to the kings.
func testDoc() *rules.Document {
	return &rules.Document{
		Metadata: rules.Metadata{
			Deck: rules.DeckConfig{
				Ranks: []string{"A", "K"},
				Suits: []string{"H", "S"},
			},
			Setup: rules.SetupConfig{
				InitialHandSize: 1,
				Shuffle:         false,
				InitialPhaseID:  "main_turn",
			},
			CardValues: map[string]float64{
				"A": 1, "K": 13, "5": 5, "9": 9,
			},
			CardAbilities: map[string]string{
				"KH": "peek_self",
				"KS": "peek_self",
			},
			KabuWinScore: floatPtr(5),
		},
		Actions: map[string]rules.Rule{
			"draw": {
				AllowedPhases: []string{"main_turn"},
				Conditions:    []string{"!turn.hasDrawn", "deck.size > 0"},
				Effects: []rules.Effect{
					{Op: "moveCard", From: "deck", To: "currentPlayer.hand"},
					{Op: "setFlag", Target: "turn", Flag: "hasDrawn", Value: true},
				},
			},
			"discard": {
				AllowedPhases: []string{"main_turn"},
				Conditions:    []string{"turn.hasDrawn", "!turn.hasDiscarded"},
				Effects: []rules.Effect{
					{Op: "moveCardByIndex", From: "currentPlayer.hand", To: "discard", IndexParam: "handIndex"},
					{Op: "setFlag", Target: "turn", Flag: "hasDiscarded", Value: true},
				},
			},
			"end_turn": {
				AllowedPhases: []string{"main_turn"},
				Conditions:    []string{"turn.hasDiscarded"},
				Effects: []rules.Effect{
					{Op: "advanceTurnOrder"},
				},
			},
			"score": {
				Effects: []rules.Effect{
					{Op: "scoreRound"},
				},
			},
		},
		Abilities: map[string]rules.Rule{
			"peek_self": {
				AllowedPhases: []string{"main_turn"},
				Effects: []rules.Effect{
					{Op: "revealCard", Player: "currentPlayer", IndexParam: "handIndex"},
				},
			},
		},
	}
}

func testEngine() *Engine {
	return New(testDoc(), Options{})
}

func twoPlayers() []PlayerSpec {
	return []PlayerSpec{
		{ID: "p1", Name: "Alice"},
		{ID: "p2", Name: "Bob"},
	}
}

// cardCount returns the multiset of card codes across deck, discard and
// every hand, for conservation checks.
func cardCount(s *GameState) map[string]int {
	counts := map[string]int{}
	for _, c := range s.Deck {
		counts[c]++
	}
	for _, c := range s.Discard {
		counts[c]++
	}
	for _, p := range s.Players {
		for _, c := range p.Hand {
			counts[c]++
		}
	}
	return counts
}

// knownParity reports whether every player's known slice tracks the
// hand slice in length.
func knownParity(s *GameState) bool {
	for _, p := range s.Players {
		if len(p.Known) != len(p.Hand) {
			return false
		}
	}
	return true
}
