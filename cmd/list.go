package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/model"
	"github.com/theirongolddev/savegames/internal/pipeline"
	"github.com/theirongolddev/savegames/internal/source"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved games for the active profile",
	RunE:    runList,
}

var (
	listSort    string
	listReverse bool
	listFilter  string
	listLimit   int
	listDetails bool
)

func init() {
	listCmd.Flags().StringVarP(&listSort, "sort", "s", string(pipeline.SortDate), "Sort by date, name or size")
	listCmd.Flags().BoolVarP(&listReverse, "reverse", "r", false, "Reverse the sort order")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Only show saves whose name, id or summary contains this text")
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 0, "Number of saves to show (0 shows all)")
	listCmd.Flags().BoolVar(&listDetails, "details", false, "Show every detail field per save")
	rootCmd.AddCommand(listCmd)
}

func runList(c *cobra.Command, _ []string) error {
	key, ok := pipeline.ParseSortKey(listSort)
	if !ok {
		return fmt.Errorf("unknown sort key %q (want date, name or size)", listSort)
	}

	s, err := openSession(c.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireSupported(); err != nil {
		return err
	}

	res, err := s.fetch(c.Context())
	if err != nil {
		return err
	}

	profile, _ := s.host.Profile()
	if len(res.Saves) == 0 {
		fmt.Printf("\n  No saves found in %s\n", s.host.SavesPath())
		return nil
	}

	saves := pipeline.Sort(pipeline.Filter(res.Saves, listFilter), key, listReverse)
	if len(saves) == 0 {
		fmt.Println("\n  No saves match the filter.")
		return nil
	}
	total := len(saves)
	if listLimit > 0 && len(saves) > listLimit {
		saves = saves[:listLimit]
	}

	size, failed := pipeline.Totals(saves)
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SAVES  %s (showing %d of %d)", profile.DisplayName(), len(saves), total)))
	fmt.Println()

	if listDetails {
		cols := s.host.DetailColumns()
		for _, sv := range saves {
			fmt.Println(cli.RenderDetail(sv.ID, detailPairs(sv, cols)))
		}
	} else {
		fmt.Print(renderSaveTable(saves, s.host.TableColumns()))
	}

	fmt.Printf("\n  %s saves, %s on disk", cli.FormatNumber(int64(len(saves))), cli.FormatSize(size))
	if failed > 0 {
		fmt.Printf(", %d unreadable", failed)
	}
	fmt.Printf("\n  Folder: %s\n\n", s.host.SavesPath())
	return nil
}

func renderSaveTable(saves []model.Save, cols []source.Column) string {
	headers := make([]string, 0, len(cols)+1)
	headers = append(headers, "ID")
	right := []int{}
	for i, c := range cols {
		headers = append(headers, c.Name)
		if c.ID == "size" || c.ID == "date" {
			right = append(right, i+1)
		}
	}

	rows := make([][]string, 0, len(saves))
	for _, sv := range saves {
		row := make([]string, 0, len(cols)+1)
		id := sv.ID
		if sv.Failed() {
			id += " !"
		}
		row = append(row, cli.Truncate(id, 32))
		for _, c := range cols {
			row = append(row, cli.Truncate(cli.FirstLine(c.Calc(sv)), 40))
		}
		rows = append(rows, row)
	}

	return cli.RenderTable(cli.Table{
		Headers:    headers,
		Rows:       rows,
		RightAlign: right,
	})
}

func detailPairs(sv model.Save, cols []source.Column) [][2]string {
	pairs := make([][2]string, 0, len(cols)+len(sv.Errors))
	for _, c := range cols {
		v := c.Calc(sv)
		if v == "" {
			continue
		}
		pairs = append(pairs, [2]string{c.Name, v})
	}
	for _, e := range sv.Errors {
		pairs = append(pairs, [2]string{"Error", e.Error()})
	}
	return pairs
}

// splitIDs accepts ids as separate args or comma-separated.
func splitIDs(args []string) []string {
	var ids []string
	for _, a := range args {
		for _, id := range strings.Split(a, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
