// Package engine implements a data-driven rules interpreter for
// turn-based card games. All game logic lives in a declarative rule
// document (internal/rules); the engine only knows how to evaluate
// boolean conditions against a live game state and how to apply a small
// fixed vocabulary of effect operations.
//
// The engine is synchronous: every call runs to completion, mutating the
// caller-owned GameState in place and returning the events the call
// emitted. The engine holds no per-match state of its own; one engine
// may serve any number of matches, but calls against a single GameState
// must be serialized by the host.
package engine

import (
	"sort"
	"sync"

	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	"github.com/kabugame/kabu-engine-go/internal/rules"
)

// Options configure an Engine. The zero value is usable: a
// non-deterministic RNG, no sink, a no-op logger.
type Options struct {
	// Rand supplies the shuffle RNG; takes precedence over Seed.
	Rand Rand

	// Seed builds the deterministic RNG when Rand is absent. Accepts a
	// string or a number.
	Seed any

	// Sink receives every rendered log-effect message as a side channel.
	Sink func(string)

	// Logger is the structured logger; defaults to zap.NewNop().
	Logger *zap.Logger

	// LegacyPlayerFallback restores the historical behavior of resolving
	// an unknown player id to the first player instead of failing.
	LegacyPlayerFallback bool
}

// Engine interprets one rule document. Immutable after New apart from
// the guarded expression-program cache.
type Engine struct {
	doc    *rules.Document
	rnd    Rand
	sink   func(string)
	logger *zap.Logger
	opts   Options

	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// New creates an engine for a rule document.
func New(doc *rules.Document, opts Options) *Engine {
	rnd := opts.Rand
	if rnd == nil {
		rnd = SeedRand(opts.Seed)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		doc:      doc,
		rnd:      rnd,
		sink:     opts.Sink,
		logger:   logger,
		opts:     opts,
		programs: map[string]*vm.Program{},
	}
}

// Document returns the rule document the engine interprets.
func (e *Engine) Document() *rules.Document { return e.doc }

// ExecuteAction runs a player-initiated action: phase gate, condition
// gates, then the effect list in declared order. The state is mutated in
// place; the returned events describe reveals and scores emitted along
// the way. On error the call aborts immediately and effects already
// applied stay applied.
func (e *Engine) ExecuteAction(s *GameState, playerID, actionID string, params map[string]any) ([]Event, error) {
	rule, ok := e.doc.Action(actionID)
	if !ok {
		return nil, &Error{Code: CodeNotFound, RuleID: actionID, Message: "action not found"}
	}

	actor := s.Player(playerID)
	if actor == nil {
		return nil, newError(CodePlayerNotFound, "player %q not found", playerID)
	}

	if err := e.checkPhase(s, actionID, rule); err != nil {
		return nil, err
	}
	for _, cond := range rule.Conditions {
		ok, err := e.evalCondition(cond, s, actor, params, nil)
		if err != nil {
			return nil, withRule(err, actionID)
		}
		if !ok {
			return nil, &Error{Code: CodeActionNotAllowed, RuleID: actionID, Message: "condition failed: " + cond}
		}
	}

	e.logger.Debug("executing action",
		zap.String("action", actionID),
		zap.String("player", playerID),
	)

	events := []Event{}
	ctx := &execContext{
		state:  s,
		actor:  actor,
		ruleID: actionID,
		params: params,
		events: &events,
	}
	if err := e.runEffects(ctx, rule.Effects); err != nil {
		return events, withRule(err, actionID)
	}
	return events, nil
}

// ExecuteAbility runs an ability by id for a player, independent of turn
// ownership. Gating mirrors actions except that a failed condition is
// reported as CONDITION_NOT_SATISFIED naming the ability.
func (e *Engine) ExecuteAbility(s *GameState, playerID, abilityID string, params map[string]any) ([]Event, error) {
	actor := s.Player(playerID)
	if actor == nil {
		return nil, newError(CodePlayerNotFound, "player %q not found", playerID)
	}

	events := []Event{}
	ctx := &execContext{
		state:  s,
		actor:  actor,
		params: params,
		events: &events,
	}
	if err := e.runAbility(ctx, abilityID, params, map[string]any{"id": abilityID}); err != nil {
		return events, err
	}
	return events, nil
}

// runAbility executes an ability inside an existing call context, so
// events from ability-triggered abilities accumulate into the same list.
func (e *Engine) runAbility(ctx *execContext, abilityID string, params, abilityCtx map[string]any) error {
	rule, ok := e.doc.Ability(abilityID)
	if !ok {
		return &Error{Code: CodeNotFound, RuleID: abilityID, Message: "ability not found"}
	}

	if err := e.checkPhase(ctx.state, abilityID, rule); err != nil {
		return err
	}
	for _, cond := range rule.Conditions {
		ok, err := e.evalCondition(cond, ctx.state, ctx.actor, params, abilityCtx)
		if err != nil {
			return withRule(err, abilityID)
		}
		if !ok {
			return &Error{Code: CodeConditionNotSatisfied, RuleID: abilityID, Message: "condition failed: " + cond}
		}
	}

	e.logger.Debug("executing ability", zap.String("ability", abilityID))

	nested := &execContext{
		state:   ctx.state,
		actor:   ctx.actor,
		ruleID:  abilityID,
		params:  params,
		ability: abilityCtx,
		events:  ctx.events,
	}
	return withRule(e.runEffects(nested, rule.Effects), abilityID)
}

func (e *Engine) checkPhase(s *GameState, ruleID string, rule rules.Rule) error {
	if len(rule.AllowedPhases) == 0 {
		return nil
	}
	for _, phase := range rule.AllowedPhases {
		if phase == s.Turn.PhaseID {
			return nil
		}
	}
	return &Error{
		Code:    CodePhaseNotAllowed,
		RuleID:  ruleID,
		Message: "not allowed in phase " + s.Turn.PhaseID,
	}
}

// IsActionAllowed reports whether an action's phase and condition gates
// currently pass for a player. Gate evaluation errors count as not
// allowed; a missing action id is simply false.
func (e *Engine) IsActionAllowed(s *GameState, playerID, actionID string) bool {
	rule, ok := e.doc.Action(actionID)
	if !ok {
		return false
	}
	actor := s.Player(playerID)
	if actor == nil {
		return false
	}
	if err := e.checkPhase(s, actionID, rule); err != nil {
		return false
	}
	for _, cond := range rule.Conditions {
		pass, err := e.evalCondition(cond, s, actor, nil, nil)
		if err != nil || !pass {
			return false
		}
	}
	return true
}

// GetAvailableActions returns the ids of every action whose gates pass
// for a player, in lexical order so hosts can offer a stable move list.
func (e *Engine) GetAvailableActions(s *GameState, playerID string) []string {
	ids := make([]string, 0, len(e.doc.Actions))
	for id := range e.doc.Actions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	available := ids[:0]
	for _, id := range ids {
		if e.IsActionAllowed(s, playerID, id) {
			available = append(available, id)
		}
	}
	return available
}
