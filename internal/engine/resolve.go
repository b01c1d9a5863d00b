package engine

import (
	"strings"

	"github.com/spf13/cast"
)

// resolvePlayer maps a symbolic player reference to a live player
// record. Recognized refs: "currentPlayer" (also the default for an
// empty ref), "nextPlayer", or a bare player id. Unknown ids surface
// CodePlayerNotFound unless LegacyPlayerFallback restores the historical
// first-player fallback some older documents rely on.
func (e *Engine) resolvePlayer(s *GameState, ref string) (*PlayerState, error) {
	switch ref {
	case "", "currentPlayer":
		return s.CurrentPlayer(), nil
	case "nextPlayer":
		return s.NextPlayer(), nil
	}
	if p := s.Player(ref); p != nil {
		return p, nil
	}
	if e.opts.LegacyPlayerFallback && len(s.Players) > 0 {
		return &s.Players[0], nil
	}
	return nil, newError(CodePlayerNotFound, "player %q not found", ref)
}

// pile is a mutable ordered card sequence. Top of pile is the end of the
// sequence. Hand piles keep the owner's known flags parallel on every
// mutation; plain piles have no visibility tracking.
type pile interface {
	size() int
	// removeAt takes the card at index i; false when i is out of bounds.
	removeAt(i int) (string, bool)
	// removeTop takes the last card; false when the pile is empty.
	removeTop() (string, bool)
	push(code string)
}

type slicePile struct {
	cards *[]string
}

func (p slicePile) size() int { return len(*p.cards) }

func (p slicePile) removeAt(i int) (string, bool) {
	cards := *p.cards
	if i < 0 || i >= len(cards) {
		return "", false
	}
	code := cards[i]
	*p.cards = append(cards[:i], cards[i+1:]...)
	return code, true
}

func (p slicePile) removeTop() (string, bool) {
	return p.removeAt(len(*p.cards) - 1)
}

func (p slicePile) push(code string) {
	*p.cards = append(*p.cards, code)
}

type handPile struct {
	owner *PlayerState
}

func (p handPile) size() int { return len(p.owner.Hand) }

func (p handPile) removeAt(i int) (string, bool) {
	if i < 0 || i >= len(p.owner.Hand) {
		return "", false
	}
	code := p.owner.Hand[i]
	p.owner.Hand = append(p.owner.Hand[:i], p.owner.Hand[i+1:]...)
	p.owner.Known = append(p.owner.Known[:i], p.owner.Known[i+1:]...)
	return code, true
}

func (p handPile) removeTop() (string, bool) {
	return p.removeAt(len(p.owner.Hand) - 1)
}

// push appends an unknown slot; revealing is its own effect.
func (p handPile) push(code string) {
	p.owner.Hand = append(p.owner.Hand, code)
	p.owner.Known = append(p.owner.Known, false)
}

// resolvePile maps a symbolic pile reference to a mutable pile.
// Recognized refs: "deck", "discard", and anything ending in "hand"
// (the substring "nextPlayer" selects the next player's hand, otherwise
// the current player's).
func resolvePile(s *GameState, ref string) (pile, error) {
	switch {
	case ref == "deck":
		return slicePile{&s.Deck}, nil
	case ref == "discard":
		return slicePile{&s.Discard}, nil
	case strings.HasSuffix(ref, "hand"):
		if strings.Contains(ref, "nextPlayer") {
			return handPile{s.NextPlayer()}, nil
		}
		return handPile{s.CurrentPlayer()}, nil
	}
	return nil, newError(CodeUnsupportedReference, "unsupported pile reference %q", ref)
}

// intParam reads an integer parameter by name. The second return is
// false when the parameter is absent; a present but non-numeric value is
// treated the same way a missing one is by callers that require it.
func intParam(params map[string]any, name string) (int, bool) {
	v, ok := params[name]
	if !ok {
		return 0, false
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// flagTarget is a mutable record addressed by the setFlag effect.
type flagTarget interface {
	set(flag string, value any) error
}

type turnTarget struct{ t *TurnState }

func (tt turnTarget) set(flag string, value any) error {
	switch flag {
	case "phaseId":
		tt.t.PhaseID = cast.ToString(value)
	case "currentPlayerIndex":
		tt.t.CurrentPlayerIndex = cast.ToInt(value)
	case "hasDrawn":
		tt.t.HasDrawn = cast.ToBool(value)
	case "justBurned":
		tt.t.JustBurned = cast.ToBool(value)
	case "hasUsedAbility":
		tt.t.HasUsedAbility = cast.ToBool(value)
	case "hasDiscarded":
		tt.t.HasDiscarded = cast.ToBool(value)
	default:
		return newError(CodeUnsupportedTarget, "turn has no flag %q", flag)
	}
	return nil
}

type roundTarget struct{ r *RoundState }

func (rt roundTarget) set(flag string, value any) error {
	switch flag {
	case "number":
		rt.r.Number = cast.ToInt(value)
	default:
		return newError(CodeUnsupportedTarget, "round has no flag %q", flag)
	}
	return nil
}

type matchTarget struct{ m *MatchState }

func (mt matchTarget) set(flag string, value any) error {
	switch flag {
	case "hasWinner":
		mt.m.HasWinner = cast.ToBool(value)
	case "winnerId":
		mt.m.WinnerID = cast.ToString(value)
	default:
		return newError(CodeUnsupportedTarget, "match has no flag %q", flag)
	}
	return nil
}

type playerTarget struct{ p *PlayerState }

func (pt playerTarget) set(flag string, value any) error {
	switch flag {
	case "name":
		pt.p.Name = cast.ToString(value)
	case "declaredKabu":
		pt.p.DeclaredKabu = cast.ToBool(value)
	case "hasJustDrawn":
		pt.p.HasJustDrawn = cast.ToBool(value)
	case "lastDrawSource":
		pt.p.LastDrawSource = cast.ToString(value)
	case "lastDrawCardCode":
		pt.p.LastDrawCardCode = cast.ToString(value)
	case "score":
		pt.p.Score = cast.ToInt(value)
	default:
		return newError(CodeUnsupportedTarget, "player has no flag %q", flag)
	}
	return nil
}

// resolveTarget maps a symbolic target reference to a flag-settable
// record for the setFlag effect.
func resolveTarget(s *GameState, ref string) (flagTarget, error) {
	switch ref {
	case "turn":
		return turnTarget{&s.Turn}, nil
	case "round":
		return roundTarget{&s.Round}, nil
	case "match":
		return matchTarget{&s.Match}, nil
	case "currentPlayer", "turn.currentPlayer":
		return playerTarget{s.CurrentPlayer()}, nil
	case "nextPlayer":
		return playerTarget{s.NextPlayer()}, nil
	}
	return nil, newError(CodeUnsupportedTarget, "unsupported target reference %q", ref)
}
