// Package cmd implements the savegames CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/platform"
	"github.com/theirongolddev/savegames/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Game definitions: %s\n", config.GamesPath())
	fmt.Println()

	fmt.Println("  [General]")
	active := cfg.General.ActiveProfile
	if active == "" {
		active = "none"
	}
	fmt.Printf("    Active profile:  %s\n", active)
	fmt.Printf("    Documents:       %s\n", platform.DocumentsDir(cfg.General.DocumentsDir))
	if cfg.General.AssetDir != "" {
		fmt.Printf("    Asset directory: %s\n", cfg.General.AssetDir)
	}
	fmt.Println()

	fmt.Println("  [Profiles]")
	if len(cfg.Profiles) == 0 {
		fmt.Println("    none")
	}
	for _, p := range cfg.Profiles {
		fmt.Printf("    %-16s %s\n", p.ID, p.Game)
	}
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Enabled: %v\n", cfg.Cache.Enabled)
	fmt.Printf("    Path:    %s\n", pipeline.CachePath())
	if n, err := cachedEntries(); err == nil {
		fmt.Printf("    Entries: %s\n", cli.FormatNumber(int64(n)))
	}
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Watch folder: %v\n", cfg.TUI.Watch)
	fmt.Printf("    Debounce:     %dms\n", cfg.TUI.DebounceMs)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `savegames setup` to add a profile.")
	return nil
}

// cachedEntries counts rows in the details cache without creating it.
func cachedEntries() (int, error) {
	if _, err := os.Stat(pipeline.CachePath()); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	c, err := store.Open(pipeline.CachePath())
	if err != nil {
		return 0, err
	}
	defer func() { _ = c.Close() }()
	return c.Count()
}
