// platformer runs the platformer scaffold in the terminal.
//
// Usage:
//
//	platformer play [game]         - Load assets and run a scene
//	platformer list                - List available games
//	platformer assets list         - Show cached assets
//	platformer assets prefetch     - Download and cache every asset
//	platformer assets purge [uri]  - Drop cached assets
//	platformer config              - Print the resolved configuration
//	platformer serve               - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: from config)
//	--config <path>     - Use a custom config YAML
//	--db <path>         - Set asset cache path (default: ~/.platformer/assets.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Log destination while the TUI is running
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/engine"
	"github.com/vovakirdan/tui-platformer/internal/storage"

	// Import games to register them
	_ "github.com/vovakirdan/tui-platformer/internal/games/platformer"
)

var (
	// Global flags
	flagFPS      int
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformer",
	Short: "Platformer - a 2D scene scaffold in your terminal",
	Long: `Platformer loads a sky, a platform, a star and a character sheet,
builds a scene with an arcade physics world and renders it into the terminal.

Available commands:
  play     - Run the scene
  list     - Show all available games
  assets   - Inspect, prefetch or purge the asset cache
  config   - Print the resolved configuration
  serve    - Start SSH server for remote play

Examples:
  platformer play
  platformer play --config ./my-scene.yaml
  platformer assets prefetch
  platformer serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = use the config's fps)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.platformer/assets.db", "Path to asset cache database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.platformer/platformer.log", "Log file used while the TUI owns the terminal")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(assetsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the process logger writing to w.
func newLogger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "platformer",
		Level:           level,
	})
	return logger, nil
}

// newFileLogger opens --log-file for appending. The alt screen owns
// stdout and stderr while a TUI runs.
func newFileLogger() (*log.Logger, func(), error) {
	path := expandHome(flagLogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// openCache opens the asset cache. A failure is logged and the returned
// fetcher works uncached.
func openCache(logger *log.Logger) (*storage.Store, engine.Fetcher) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open asset cache, fetching uncached", "error", err)
		return nil, engine.NewFetcher(nil, logger)
	}
	return store, engine.NewFetcher(store, logger)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
