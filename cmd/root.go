package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/host"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/source"
	"github.com/theirongolddev/savegames/internal/store"
	"github.com/theirongolddev/savegames/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagProfile string
	flagQuiet   bool
	flagVerbose bool
	flagNoCache bool
	flagNoColor bool

	logOutput io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:           "savegames",
	Short:         "Saved games browser",
	Long:          "Browse, inspect and delete saved games for the games you play.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runList,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cli.ConfigureColor(flagNoColor)
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, cli.RenderError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "Profile to use (defaults to the active profile)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the details cache, reparse everything")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	switch {
	case flagVerbose:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))
}

// session bundles a host with the resources that must be released after a
// command finishes.
type session struct {
	host  *host.Host
	cfg   config.Config
	cache *store.Cache
	log   *slog.Logger
}

func (s *session) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
}

// openSession is the shared setup path used by all commands that need saves.
// It loads the config, registers user game definitions, opens the details
// cache and activates the selected profile.
// Without needProfile a missing profile selection is not an error.
func openSession(ctx context.Context, needProfile bool) (*session, error) {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	theme.SetActive(cfg.Appearance.Theme)

	reg, err := loadRegistry(cfg)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, log: log}
	if cfg.Cache.Enabled && !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			log.Warn("details cache unavailable, doing full parse", "err", err)
		} else {
			s.cache = cache
		}
	}

	s.host = host.New(host.Options{
		Config:       cfg,
		Registry:     reg,
		Cache:        s.cache,
		Logger:       log,
		DocumentsDir: cfg.General.DocumentsDir,
	})

	profileID := flagProfile
	if profileID == "" {
		profileID = cfg.General.ActiveProfile
	}
	if profileID == "" {
		if !needProfile {
			return s, nil
		}
		s.Close()
		return nil, errors.New("no profile selected; run `savegames setup` or pass --profile")
	}
	if err := s.host.ProfileDidChange(ctx, profileID); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// loadRegistry returns the built-in parsers plus the games defined in
// games.yaml.
func loadRegistry(cfg config.Config) (*source.Registry, error) {
	reg := source.Default(cfg.General.AssetDir)
	defs, err := source.LoadDefinitions(config.GamesPath())
	if err != nil {
		return nil, err
	}
	if err := source.RegisterDefinitions(reg, defs); err != nil {
		return nil, fmt.Errorf("%s: %w", config.GamesPath(), err)
	}
	return reg, nil
}

// requireSupported fails when the active profile's game has no parser.
func (s *session) requireSupported() error {
	if s.host.Supported() {
		return nil
	}
	p, _ := s.host.Profile()
	return fmt.Errorf("game %q of profile %q has no save parser", p.Game, p.ID)
}

// fetch runs both parse phases and reports their errors on stderr.
func (s *session) fetch(ctx context.Context) (pipeline.Result, error) {
	res, err := s.host.GetSaves(ctx, nil)
	if err != nil {
		return res, err
	}
	if res.QuickErr != nil {
		return res, fmt.Errorf("reading saves: %w", res.QuickErr)
	}
	if res.FullErr != nil {
		s.log.Warn("save details unavailable", "err", res.FullErr)
	}
	return res, nil
}
