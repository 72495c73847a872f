package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/registry"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Inspect and manage the asset cache",
	Long: `Remote assets are stored in a SQLite cache (--db) the first time they
are fetched.

Examples:
  platformer assets list
  platformer assets prefetch
  platformer assets purge
  platformer assets purge https://labs.phaser.io/assets/skies/space3.png`,
}

var assetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached assets",
	Args:  cobra.NoArgs,
	RunE:  runAssetsList,
}

var assetsPrefetchCmd = &cobra.Command{
	Use:   "prefetch [game]",
	Short: "Load every asset of a game into the cache",
	Long: `Runs the game's load phase without opening the TUI. Every asset is
fetched, decoded and validated; remote ones end up in the cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssetsPrefetch,
}

var assetsPurgeCmd = &cobra.Command{
	Use:   "purge [uri]",
	Short: "Remove one or all cached assets",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAssetsPurge,
}

func init() {
	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsPrefetchCmd)
	assetsCmd.AddCommand(assetsPurgeCmd)
}

func openStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening asset cache: %w", err)
	}
	return store, nil
}

func runAssetsList(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	assets, err := store.ListAssets(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(assets) == 0 {
		fmt.Fprintln(out, "Asset cache is empty.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'platformer assets prefetch' to fill it.")
		return nil
	}

	var total int64
	fmt.Fprintf(out, "  %-10s  %-10s  %-16s  %s\n", "Size", "Type", "Fetched", "URI")
	fmt.Fprintf(out, "  %-10s  %-10s  %-16s  %s\n", "----", "----", "-------", "---")
	for _, a := range assets {
		total += a.Size
		fmt.Fprintf(out, "  %-10s  %-10s  %-16s  %s\n",
			humanize.IBytes(uint64(a.Size)), a.ContentType, a.FetchedAt.Format("2006-01-02 15:04"), a.URI)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d assets, %s\n", len(assets), humanize.IBytes(uint64(total)))
	return nil
}

func runAssetsPrefetch(cmd *cobra.Command, args []string) error {
	gameID := "platformer"
	if len(args) == 1 {
		gameID = args[0]
	}

	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	store, fetcher := openCache(logger)
	if store != nil {
		defer store.Close()
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}
	defer game.Close()

	out := cmd.OutOrStdout()
	start := time.Now()
	opts := registry.LoadOptions{
		ConfigPath: flagConfig,
		Fetcher:    fetcher,
		Logger:     logger,
		Progress: func(loaded, total int, key string) {
			fmt.Fprintf(out, "  [%d/%d] %s\n", loaded, total, key)
		},
	}
	if err := game.Load(cmd.Context(), core.DefaultConfig(), opts); err != nil {
		return fmt.Errorf("prefetch failed: %w", err)
	}

	fmt.Fprintf(out, "Assets for %s ready in %s\n", game.Title(), time.Since(start).Round(time.Millisecond))
	return nil
}

func runAssetsPurge(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		if err := store.DeleteAsset(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %s\n", args[0])
		return nil
	}

	n, err := store.Purge(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d cached assets\n", n)
	return nil
}
