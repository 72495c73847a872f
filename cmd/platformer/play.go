package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
	"github.com/vovakirdan/tui-platformer/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Run a game",
	Long: `Load the game's assets, build its scene and run it.

Remote assets are cached in the asset database, so later runs work offline.
Logs go to --log-file while the game owns the terminal.

Controls:
  P/Esc      - Pause
  D          - Toggle physics body outlines
  R          - Rebuild the scene
  Ctrl+S     - Save a text screenshot
  Q/Ctrl+C   - Quit

Examples:
  platformer play
  platformer play platformer --fps 30
  platformer play --config ./my-scene.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID := "platformer"
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'platformer list' to see available games", gameID)
	}

	// Resolve config up front so errors print before the alt screen opens
	gameCfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: gameCfg.FPS,
	}
	if flagFPS > 0 {
		rc.TickRate = flagFPS
	}

	logger, closeLog, err := newFileLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	store, fetcher := openCache(logger)
	if store != nil {
		defer store.Close()
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "game", gameID, "screen", fmt.Sprintf("%dx%d", width, height), "fps", rc.TickRate)
	opts := registry.LoadOptions{
		ConfigPath: flagConfig,
		Fetcher:    fetcher,
		Logger:     logger,
	}
	if err := tui.Run(ctx, game, rc, opts); err != nil && ctx.Err() == nil {
		logger.Error("run failed", "error", err)
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
