package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/savegames/internal/cli"
	"github.com/theirongolddev/savegames/internal/pipeline"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>...",
	Aliases: []string{"rm"},
	Short:   "Delete saved games by id",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runDelete,
}

var deleteYes bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking for confirmation")
	rootCmd.AddCommand(deleteCmd)
}

// formConfirmer asks for confirmation with a huh form on the terminal.
type formConfirmer struct{}

func (formConfirmer) Confirm(ctx context.Context, p pipeline.Prompt) (bool, error) {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(p.Title).
				Description(p.Body).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func runDelete(c *cobra.Command, args []string) error {
	s, err := openSession(c.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireSupported(); err != nil {
		return err
	}
	if _, err := s.fetch(c.Context()); err != nil {
		return err
	}

	var confirmer pipeline.Confirmer = formConfirmer{}
	if deleteYes {
		confirmer = pipeline.AlwaysConfirm
	}

	res, err := s.host.Delete(c.Context(), splitIDs(args), confirmer)
	if err != nil {
		return err
	}
	if res.Cancelled {
		fmt.Println("  Cancelled.")
		return nil
	}

	fmt.Printf("  Deleted %d save(s)\n", len(res.Deleted))
	for _, f := range res.Failures {
		fmt.Println(cli.RenderError(fmt.Sprintf("  %s: %s: %v", f.ID, f.File, f.Err)))
	}
	if len(res.Failures) > 0 {
		return fmt.Errorf("%d file(s) could not be removed", len(res.Failures))
	}
	return nil
}
