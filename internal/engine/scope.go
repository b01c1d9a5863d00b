package engine

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Condition expressions run against a read-only scope built fresh for
// every evaluation. The scope is plain nested maps rather than Go
// structs so documents keep the field spelling they were authored with
// (turn.hasDrawn, currentPlayer.declaredKabu). Expressions are compiled
// by expr and can only reach names placed in this scope: no I/O, no
// ambient program state, nothing retained across calls.

// buildScope assembles the evaluation environment.
func (e *Engine) buildScope(s *GameState, actor *PlayerState, params, ability map[string]any) map[string]any {
	if params == nil {
		params = map[string]any{}
	}
	if ability == nil {
		ability = map[string]any{}
	}

	current := playerScope(s.CurrentPlayer())
	next := playerScope(s.NextPlayer())

	players := make([]any, len(s.Players))
	for i := range s.Players {
		players[i] = playerScope(&s.Players[i])
	}

	values := e.doc.Metadata.CardValues
	handScore := func(hand any) float64 {
		return scoreHand(hand, values)
	}

	scope := map[string]any{
		"state": map[string]any{
			"deck":    append([]string(nil), s.Deck...),
			"discard": append([]string(nil), s.Discard...),
			"players": players,
			"turn":    turnScope(s.Turn),
			"round":   map[string]any{"number": s.Round.Number},
			"match": map[string]any{
				"hasWinner": s.Match.HasWinner,
				"winnerId":  s.Match.WinnerID,
			},
		},
		"metadata":      e.metadataScope(),
		"currentPlayer": current,
		"nextPlayer":    next,
		"deck":          map[string]any{"size": len(s.Deck)},
		"discard":       map[string]any{"size": len(s.Discard)},
		"turn":          turnScope(s.Turn),
		"params":        params,
		"ability":       ability,
		"handScore":     handScore,
	}
	if actor != nil {
		scope["player"] = playerScope(actor)
	}
	return scope
}

func playerScope(p *PlayerState) map[string]any {
	return map[string]any{
		"id":               p.ID,
		"name":             p.Name,
		"hand":             append([]string(nil), p.Hand...),
		"known":            append([]bool(nil), p.Known...),
		"declaredKabu":     p.DeclaredKabu,
		"hasJustDrawn":     p.HasJustDrawn,
		"lastDrawSource":   p.LastDrawSource,
		"lastDrawCardCode": p.LastDrawCardCode,
		"score":            p.Score,
		"handSize":         len(p.Hand),
	}
}

func turnScope(t TurnState) map[string]any {
	return map[string]any{
		"phaseId":            t.PhaseID,
		"currentPlayerIndex": t.CurrentPlayerIndex,
		"hasDrawn":           t.HasDrawn,
		"justBurned":         t.JustBurned,
		"hasUsedAbility":     t.HasUsedAbility,
		"hasDiscarded":       t.HasDiscarded,
	}
}

func (e *Engine) metadataScope() map[string]any {
	md := e.doc.Metadata
	values := make(map[string]any, len(md.CardValues))
	for rank, v := range md.CardValues {
		values[rank] = v
	}
	abilities := make(map[string]any, len(md.CardAbilities))
	for code, id := range md.CardAbilities {
		abilities[code] = id
	}
	scope := map[string]any{
		"deck": map[string]any{
			"ranks": append([]string(nil), md.Deck.Ranks...),
			"suits": append([]string(nil), md.Deck.Suits...),
		},
		"setup": map[string]any{
			"initialHandSize": md.Setup.InitialHandSize,
			"shuffle":         md.Setup.Shuffle,
			"initialPhaseId":  md.Setup.InitialPhaseID,
		},
		"cardValues":    values,
		"cardAbilities": abilities,
	}
	if md.KabuWinScore != nil {
		scope["kabuWinScore"] = *md.KabuWinScore
	}
	return scope
}

// scoreHand sums configured per-rank values over a hand. Ranks without a
// configured value score 0. The hand may arrive as []string (engine
// side) or []any (from inside an expression).
func scoreHand(hand any, values map[string]float64) float64 {
	var total float64
	switch cards := hand.(type) {
	case []string:
		for _, code := range cards {
			total += values[rankOf(code)]
		}
	case []any:
		for _, c := range cards {
			if code, ok := c.(string); ok {
				total += values[rankOf(code)]
			}
		}
	}
	return total
}

// evalCondition evaluates one gate expression. An absent expression is a
// no-op gate and passes. A non-boolean result is a document bug and
// fails with CodeBadCondition rather than being truthy-coerced.
func (e *Engine) evalCondition(expression string, s *GameState, actor *PlayerState, params, ability map[string]any) (bool, error) {
	if expression == "" {
		return true, nil
	}

	program, err := e.compile(expression)
	if err != nil {
		return false, &Error{Code: CodeBadCondition, Message: "compile condition " + expression, Err: err}
	}

	out, err := expr.Run(program, e.buildScope(s, actor, params, ability))
	if err != nil {
		return false, &Error{Code: CodeBadCondition, Message: "evaluate condition " + expression, Err: err}
	}
	result, ok := out.(bool)
	if !ok {
		return false, newError(CodeBadCondition, "condition %q evaluated to non-boolean %T", expression, out)
	}
	return result, nil
}

// compile returns the cached program for an expression, compiling on
// first use. One engine serves many matches, so the cache is guarded.
func (e *Engine) compile(expression string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.programs[expression] = program
	e.mu.Unlock()
	return program, nil
}
