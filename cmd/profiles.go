package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/config"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List configured profiles",
	RunE:  runProfiles,
}

var profilesUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a profile the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesUse,
}

func init() {
	profilesCmd.AddCommand(profilesUseCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if len(cfg.Profiles) == 0 {
		fmt.Println("\n  No profiles yet. Run `savegames setup` to add one.")
		return nil
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(cfg.Profiles))
	for _, p := range cfg.Profiles {
		mark := ""
		if p.ID == cfg.General.ActiveProfile {
			mark = "*"
		}
		supported := "yes"
		if _, ok := reg.Lookup(p.Game); !ok {
			supported = "no"
		}
		rows = append(rows, []string{mark + p.ID, p.DisplayName(), p.Game, supported})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "Profiles",
		Headers:    []string{"ID", "Name", "Game", "Saves"},
		Rows:       rows,
		RightAlign: []int{},
	}))
	fmt.Println()
	return nil
}

func runProfilesUse(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	p, ok := cfg.Profile(args[0])
	if !ok {
		return errors.New("unknown profile " + args[0])
	}
	cfg.General.ActiveProfile = p.ID
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Active profile: %s (%s)\n", p.DisplayName(), p.Game)
	return nil
}
