package cmd

import (
	"fmt"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/config"
	"github.com/theirongolddev/savegames/internal/platform"
	"github.com/theirongolddev/savegames/internal/source"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List games with a save parser",
	RunE:  runGames,
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}

func runGames(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	docs := platform.DocumentsDir(cfg.General.DocumentsDir)
	rows := make([][]string, 0, len(reg.Games()))
	for _, id := range reg.Games() {
		g, _ := reg.Lookup(id)

		profiles := 0
		for _, p := range cfg.Profiles {
			if p.Game == id {
				profiles++
			}
		}

		folder := g.SaveFolder(source.Env{DocumentsDir: docs, GameID: id}, "")
		if folder == "" {
			folder = "(needs game path)"
		}
		rows = append(rows, []string{id, fmt.Sprintf("%d", profiles), folder})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SUPPORTED GAMES"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:    []string{"Game", "Profiles", "Save folder"},
		Rows:       rows,
		RightAlign: []int{1},
	}))
	fmt.Printf("\n  Add games in %s\n\n", config.GamesPath())
	return nil
}
