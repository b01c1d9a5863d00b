package engine

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/kabugame/kabu-engine-go/internal/rules"
)

// execContext threads the mutable call state through the effect chain:
// the shared game state, the acting player, the invocation parameters,
// the ability context (when running inside a card-bound ability), and
// the accumulating event list. Nested effects (if branches, abilities
// triggering abilities) run depth-first against the same context.
type execContext struct {
	state   *GameState
	actor   *PlayerState
	ruleID  string
	params  map[string]any
	ability map[string]any
	events  *[]Event
}

func (c *execContext) emit(ev Event) {
	*c.events = append(*c.events, ev)
}

// runEffects applies an effect list in declared order. The first failure
// aborts the list; effects already applied stay applied (no rollback —
// hosts needing atomicity clone the state before the call).
func (e *Engine) runEffects(ctx *execContext, effects []rules.Effect) error {
	for _, eff := range effects {
		if err := e.applyEffect(ctx, &eff); err != nil {
			return err
		}
	}
	return nil
}

// applyEffect dispatches one effect to its handler. The op set is fixed;
// anything else is an authoring error surfaced with the op name.
func (e *Engine) applyEffect(ctx *execContext, eff *rules.Effect) error {
	var err error
	switch eff.Op {
	case "moveCard":
		err = e.applyMoveCard(ctx, eff, false)
	case "moveCardByIndex":
		err = e.applyMoveCard(ctx, eff, true)
	case "setFlag":
		err = e.applySetFlag(ctx, eff)
	case "advanceTurnOrder":
		err = e.applyAdvanceTurnOrder(ctx, eff)
	case "resetTurnFlags":
		resetTurnFlags(&ctx.state.Turn)
	case "setPhase":
		ctx.state.Turn.PhaseID = eff.Phase
	case "log":
		e.applyLog(ctx, eff)
	case "revealAllHands":
		e.applyRevealAllHands(ctx)
	case "scoreRound":
		e.applyScoreRound(ctx)
	case "if":
		err = e.applyIf(ctx, eff)
	case "runAbilityForCard":
		err = e.applyRunAbilityForCard(ctx, eff)
	case "swapCards":
		err = e.applySwapCards(ctx, eff, false)
	case "swapCardsWithPeek":
		err = e.applySwapCards(ctx, eff, true)
	case "revealCard":
		err = e.applyRevealCard(ctx, eff)
	default:
		err = newError(CodeUnsupportedOperation, "no handler for op %q", eff.Op)
	}
	if ie, ok := err.(*Error); ok && ie.Op == "" {
		ie.Op = eff.Op
	}
	return err
}

// applyMoveCard moves count cards (default 1) from one pile to another.
// The source position is a forced index, a parameter-supplied index, or
// the top of the pile; an empty source makes that iteration a no-op.
// With byIndex the parameter is mandatory.
func (e *Engine) applyMoveCard(ctx *execContext, eff *rules.Effect, byIndex bool) error {
	from, err := resolvePile(ctx.state, eff.From)
	if err != nil {
		return err
	}
	to, err := resolvePile(ctx.state, eff.To)
	if err != nil {
		return err
	}

	count := eff.Count
	if count <= 0 {
		count = 1
	}

	for i := 0; i < count; i++ {
		var code string
		var ok bool
		switch {
		case eff.Index != nil:
			code, ok = from.removeAt(*eff.Index)
		case eff.IndexParam != "":
			idx, present := intParam(ctx.params, eff.IndexParam)
			if !present {
				return newError(CodeMissingParameter, "parameter %q required for indexed move", eff.IndexParam)
			}
			code, ok = from.removeAt(idx)
		case byIndex:
			return newError(CodeMissingParameter, "moveCardByIndex requires indexParam")
		default:
			code, ok = from.removeTop()
		}
		if !ok {
			continue
		}
		to.push(code)
	}
	return nil
}

func (e *Engine) applySetFlag(ctx *execContext, eff *rules.Effect) error {
	target, err := resolveTarget(ctx.state, eff.Target)
	if err != nil {
		return err
	}
	return target.set(eff.Flag, eff.Value)
}

func (e *Engine) applyAdvanceTurnOrder(ctx *execContext, eff *rules.Effect) error {
	turn := &ctx.state.Turn
	turn.CurrentPlayerIndex = (turn.CurrentPlayerIndex + 1) % len(ctx.state.Players)
	if eff.Phase != "" {
		turn.PhaseID = eff.Phase
	}
	resetTurnFlags(turn)
	return nil
}

func resetTurnFlags(turn *TurnState) {
	turn.HasDrawn = false
	turn.JustBurned = false
	turn.HasUsedAbility = false
	turn.HasDiscarded = false
}

// applyLog renders the message template ({player} is the current
// player's name, {param} a JSON rendering of the invocation params),
// appends it to the state log and forwards it to the configured sink.
func (e *Engine) applyLog(ctx *execContext, eff *rules.Effect) {
	msg := eff.Message
	msg = strings.ReplaceAll(msg, "{player}", ctx.state.CurrentPlayer().Name)
	if strings.Contains(msg, "{param}") {
		rendered, err := json.Marshal(ctx.params)
		if err != nil {
			rendered = []byte("{}")
		}
		msg = strings.ReplaceAll(msg, "{param}", string(rendered))
	}

	ctx.state.Log = append(ctx.state.Log, msg)
	if e.sink != nil {
		e.sink(msg)
	}
	e.logger.Debug("rule log", zap.String("message", msg), zap.String("rule", ctx.ruleID))
}

func (e *Engine) applyRevealAllHands(ctx *execContext) {
	for i := range ctx.state.Players {
		p := &ctx.state.Players[i]
		for j := range p.Known {
			p.Known[j] = true
		}
		ctx.emit(Event{
			Type:     EventHandReveal,
			PlayerID: p.ID,
			Hand:     append([]string(nil), p.Hand...),
		})
	}
}

// applyScoreRound accumulates each player's hand score, then checks the
// configured win threshold: the first player in seat order whose total
// is at or below it wins the match and play moves to the terminal phase.
func (e *Engine) applyScoreRound(ctx *execContext) {
	values := e.doc.Metadata.CardValues
	for i := range ctx.state.Players {
		p := &ctx.state.Players[i]
		roundScore := int(scoreHand(p.Hand, values))
		p.Score += roundScore
		ctx.emit(Event{
			Type:       EventRoundScore,
			PlayerID:   p.ID,
			RoundScore: roundScore,
			TotalScore: p.Score,
		})
	}

	threshold := e.doc.Metadata.KabuWinScore
	if threshold == nil {
		return
	}
	for i := range ctx.state.Players {
		p := &ctx.state.Players[i]
		if float64(p.Score) <= *threshold {
			ctx.state.Match.HasWinner = true
			ctx.state.Match.WinnerID = p.ID
			ctx.state.Turn.PhaseID = PhaseGameOver
			return
		}
	}
}

func (e *Engine) applyIf(ctx *execContext, eff *rules.Effect) error {
	ok, err := e.evalCondition(eff.Condition, ctx.state, ctx.actor, ctx.params, ctx.ability)
	if err != nil {
		return err
	}
	if ok {
		return e.runEffects(ctx, eff.Then)
	}
	return e.runEffects(ctx, eff.Else)
}

// applyRunAbilityForCard looks up the card at a parameter-supplied hand
// index of the current player and, when the metadata binds that card to
// an ability, invokes it (its own phase and condition gates apply) with
// {handIndex, cardCode} as parameters. A card with no binding is a
// no-op. Recursion depth is bounded only by the document's structure; a
// self-triggering ability is an authoring error, not one the engine
// guards against.
func (e *Engine) applyRunAbilityForCard(ctx *execContext, eff *rules.Effect) error {
	if eff.IndexParam == "" {
		return newError(CodeMissingParameter, "runAbilityForCard requires indexParam")
	}
	idx, ok := intParam(ctx.params, eff.IndexParam)
	if !ok {
		return newError(CodeMissingParameter, "parameter %q required to locate card", eff.IndexParam)
	}

	current := ctx.state.CurrentPlayer()
	if idx < 0 || idx >= len(current.Hand) {
		return newError(CodeInvalidIndex, "hand index %d out of bounds (hand size %d)", idx, len(current.Hand))
	}
	cardCode := current.Hand[idx]

	abilityID, bound := e.doc.AbilityForCard(cardCode)
	if !bound {
		return nil
	}

	params := map[string]any{
		"handIndex": idx,
		"cardCode":  cardCode,
	}
	abilityCtx := map[string]any{
		"id":        abilityID,
		"handIndex": idx,
		"cardCode":  cardCode,
	}
	return e.runAbility(ctx, abilityID, params, abilityCtx)
}

// applySwapCards exchanges one card between two resolved players at two
// parameter-supplied indices. Plain swaps set both known flags to the
// effect's reveal flag and emit paired card_reveal events only when
// revealing; peek swaps reveal both cards via events before the
// exchange and always leave both post-swap positions known.
func (e *Engine) applySwapCards(ctx *execContext, eff *rules.Effect, peek bool) error {
	playerA, err := e.resolvePlayer(ctx.state, eff.PlayerA)
	if err != nil {
		return err
	}
	refB := eff.PlayerB
	if refB == "" {
		refB = "nextPlayer"
	}
	playerB, err := e.resolvePlayer(ctx.state, refB)
	if err != nil {
		return err
	}

	indexA, okA := intParam(ctx.params, eff.IndexAParam)
	if eff.IndexAParam == "" || !okA {
		return newError(CodeMissingParameter, "parameter %q required for swap", eff.IndexAParam)
	}
	indexB, okB := intParam(ctx.params, eff.IndexBParam)
	if eff.IndexBParam == "" || !okB {
		return newError(CodeMissingParameter, "parameter %q required for swap", eff.IndexBParam)
	}
	if indexA < 0 || indexA >= len(playerA.Hand) {
		return newError(CodeInvalidIndex, "hand index %d out of bounds for player %s", indexA, playerA.ID)
	}
	if indexB < 0 || indexB >= len(playerB.Hand) {
		return newError(CodeInvalidIndex, "hand index %d out of bounds for player %s", indexB, playerB.ID)
	}

	if peek {
		ctx.emit(Event{Type: EventCardReveal, PlayerID: playerA.ID, CardCode: playerA.Hand[indexA], HandIndex: indexA})
		ctx.emit(Event{Type: EventCardReveal, PlayerID: playerB.ID, CardCode: playerB.Hand[indexB], HandIndex: indexB})
	}

	playerA.Hand[indexA], playerB.Hand[indexB] = playerB.Hand[indexB], playerA.Hand[indexA]

	known := eff.Reveal || peek
	playerA.Known[indexA] = known
	playerB.Known[indexB] = known

	if !peek && eff.Reveal {
		ctx.emit(Event{Type: EventCardReveal, PlayerID: playerA.ID, CardCode: playerA.Hand[indexA], HandIndex: indexA})
		ctx.emit(Event{Type: EventCardReveal, PlayerID: playerB.ID, CardCode: playerB.Hand[indexB], HandIndex: indexB})
	}
	return nil
}

func (e *Engine) applyRevealCard(ctx *execContext, eff *rules.Effect) error {
	player, err := e.resolvePlayer(ctx.state, eff.Player)
	if err != nil {
		return err
	}

	var idx int
	switch {
	case eff.Index != nil:
		idx = *eff.Index
	case eff.IndexParam != "":
		n, ok := intParam(ctx.params, eff.IndexParam)
		if !ok {
			return newError(CodeInvalidIndex, "parameter %q required to reveal a card", eff.IndexParam)
		}
		idx = n
	default:
		return newError(CodeInvalidIndex, "revealCard requires an index")
	}

	if idx < 0 || idx >= len(player.Hand) {
		return newError(CodeInvalidIndex, "hand index %d out of bounds (hand size %d)", idx, len(player.Hand))
	}

	player.Known[idx] = true
	ctx.emit(Event{Type: EventCardReveal, PlayerID: player.ID, CardCode: player.Hand[idx], HandIndex: idx})
	return nil
}
