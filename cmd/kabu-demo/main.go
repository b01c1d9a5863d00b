// Command kabu-demo loads a rule document and plays a scripted
// two-player match through the interpreter, driving every move through
// GetAvailableActions/ExecuteAction the way a real host would.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kabugame/kabu-engine-go/internal/config"
	"github.com/kabugame/kabu-engine-go/internal/engine"
	"github.com/kabugame/kabu-engine-go/internal/rules"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	maxSteps   = flag.Int("max-steps", 200, "abort the demo after this many executed actions")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	doc, err := rules.Load(cfg.Rules)
	if err != nil {
		logger.Fatal("failed to load rule document", zap.Error(err))
	}
	logger.Info("rule document loaded",
		zap.String("path", cfg.Rules),
		zap.Int("actions", len(doc.Actions)),
		zap.Int("abilities", len(doc.Abilities)),
	)

	var seed any
	if cfg.Seed != "" {
		seed = cfg.Seed
	}
	eng := engine.New(doc, engine.Options{
		Seed:   seed,
		Logger: logger,
	})

	specs := make([]engine.PlayerSpec, len(cfg.Players))
	for i, name := range cfg.Players {
		specs[i] = engine.PlayerSpec{Name: name}
	}
	state := eng.InitState(specs, engine.InitOptions{})
	logger.Info("match initialized",
		zap.Int("players", len(state.Players)),
		zap.Int("deck_size", len(state.Deck)),
		zap.String("phase", state.Turn.PhaseID),
	)

	runScriptedMatch(eng, state, logger)

	fmt.Println("--- game log ---")
	for _, line := range state.Log {
		fmt.Println(line)
	}
	fmt.Println("--- final scores ---")
	for _, p := range state.Players {
		fmt.Printf("%s: %d\n", p.Name, p.Score)
	}
	if state.Match.HasWinner {
		if winner := state.Player(state.Match.WinnerID); winner != nil {
			fmt.Printf("winner: %s\n", winner.Name)
		}
	}
}

// runScriptedMatch plays with a trivial policy: draw, discard the first
// card, end the turn — and once a few turns have passed, declare Kabu to
// bring the round to scoring.
func runScriptedMatch(eng *engine.Engine, state *engine.GameState, logger *zap.Logger) {
	turns := 0
	for step := 0; step < *maxSteps; step++ {
		if state.Match.HasWinner || state.Turn.PhaseID != "main_turn" {
			logger.Info("match finished", zap.String("phase", state.Turn.PhaseID))
			return
		}

		player := state.CurrentPlayer()
		available := eng.GetAvailableActions(state, player.ID)
		if len(available) == 0 {
			logger.Warn("no available actions, stopping", zap.String("player", player.Name))
			return
		}

		actionID, params := pickMove(available, turns)
		if actionID == "" {
			logger.Warn("no scripted move applies, stopping",
				zap.Strings("available", available))
			return
		}
		if actionID == "end_turn" || actionID == "declare_kabu" {
			turns++
		}

		events, err := eng.ExecuteAction(state, player.ID, actionID, params)
		if err != nil {
			logger.Error("action failed",
				zap.String("action", actionID),
				zap.String("player", player.Name),
				zap.Error(err),
			)
			return
		}
		for _, ev := range events {
			logger.Info("event",
				zap.String("type", string(ev.Type)),
				zap.String("player", ev.PlayerID),
				zap.String("card", ev.CardCode),
			)
		}
	}
	logger.Warn("step limit reached before the match ended")
}

func pickMove(available []string, turns int) (string, map[string]any) {
	has := func(id string) bool {
		for _, a := range available {
			if a == id {
				return true
			}
		}
		return false
	}
	switch {
	case turns >= 6 && has("declare_kabu"):
		return "declare_kabu", nil
	case has("draw_from_deck"):
		return "draw_from_deck", nil
	case has("discard_card"):
		return "discard_card", map[string]any{"handIndex": 0}
	case has("end_turn"):
		return "end_turn", nil
	}
	return "", nil
}

// initLogger builds the zap logger from configuration.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
