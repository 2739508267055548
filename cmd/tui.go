package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/tui"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive saved games browser",
	RunE:  runTUI,
}

var tuiNoWatch bool

func init() {
	tuiCmd.Flags().BoolVar(&tuiNoWatch, "no-watch", false, "Do not refresh when the save folder changes")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(c *cobra.Command, _ []string) error {
	if err := os.MkdirAll(pipeline.CacheDir(), 0o750); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	logPath := filepath.Join(pipeline.CacheDir(), "tui.log")
	//nolint:gosec // log path is under the user's cache dir
	logf, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = logf.Close() }()
	logOutput = logf

	s, err := openSession(c.Context(), false)
	if err != nil {
		return err
	}
	defer s.Close()

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	if !flagNoColor {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}

	opts := tui.Options{
		Watch:    s.cfg.TUI.Watch && !tuiNoWatch,
		Debounce: time.Duration(s.cfg.TUI.DebounceMs) * time.Millisecond,
		Logger:   s.log,
	}
	if err := tui.Run(c.Context(), s.host, opts); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
