package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the save folder in the file browser",
	RunE:  runOpen,
}

var openPrint bool

func init() {
	openCmd.Flags().BoolVar(&openPrint, "print", false, "Print the folder instead of opening it")
	rootCmd.AddCommand(openCmd)
}

func runOpen(c *cobra.Command, _ []string) error {
	s, err := openSession(c.Context(), true)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireSupported(); err != nil {
		return err
	}

	if openPrint {
		fmt.Println(s.host.SavesPath())
		return nil
	}
	return s.host.OpenFolder(c.Context())
}
