package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Add a profile and pick a theme",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(c *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	games := reg.Games()
	if len(games) == 0 {
		return errors.New("no games registered")
	}
	gameOpts := make([]huh.Option[string], 0, len(games))
	for _, g := range games {
		gameOpts = append(gameOpts, huh.NewOption(g, g))
	}
	themeOpts := make([]huh.Option[string], 0, len(theme.Names()))
	for _, n := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(n, n))
	}

	var (
		p         = config.Profile{Game: games[0]}
		themeName = cfg.Appearance.Theme
		activate  = cfg.General.ActiveProfile == ""
	)
	if existing, ok := cfg.ActiveProfile(); ok {
		p.Game = existing.Game
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to savegames!").
				Description(fmt.Sprintf("Config lives in %s", config.ConfigPath())),
			huh.NewSelect[string]().
				Title("Game").
				Options(gameOpts...).
				Value(&p.Game),
			huh.NewInput().
				Title("Profile id").
				Description("Short unique name, e.g. wotc-ironman").
				Value(&p.ID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Display name").
				Value(&p.Name),
			huh.NewInput().
				Title("Game install path").
				Description("Only needed for games that keep saves next to the install").
				Value(&p.GamePath),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&themeName),
			huh.NewConfirm().
				Title("Make this the active profile?").
				Value(&activate),
		),
	)
	if err := form.RunWithContext(c.Context()); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		return err
	}

	p.ID = strings.TrimSpace(p.ID)
	if err := cfg.UpsertProfile(p); err != nil {
		return err
	}
	if activate {
		cfg.General.ActiveProfile = p.ID
	}
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `savegames setup` anytime to add another profile.")
	fmt.Println()
	return nil
}
