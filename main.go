package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/papaveez/metropolis-gen/config"
	"github.com/papaveez/metropolis-gen/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Generate without graphics and exit")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV telemetry and config snapshot")
	passes := flag.Int("passes", 1, "Headless generation passes")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := game.Options{
		Seed:      rngSeed,
		OutputDir: *outputDir,
		Headless:  *headless,
	}

	if *headless {
		g, err := game.New(opts)
		if err != nil {
			slog.Error("failed to set up", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		g.SeedDefaultScene()

		slog.Info("starting headless generation",
			"seed", rngSeed,
			"passes", *passes,
		)

		for i := 0; i < *passes; i++ {
			g.UpdateHeadless()
		}

		if err := g.WriteOutput(); err != nil {
			slog.Error("failed to write output", "error", err)
			os.Exit(1)
		}
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Metropolis")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to set up", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}

	if err := g.WriteOutput(); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}
