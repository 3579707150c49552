package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetFlags struct {
	yes bool
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard wizard progress and start over",
	Long: `Discard the saved wizard progress. The API key is kept.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetFlags.yes, "yes", "y", false, "Confirm the reset")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetFlags.yes {
		return fmt.Errorf("this discards all wizard progress\n\nRun again with --yes to confirm")
	}
	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.machine.Reset(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Wizard progress cleared.")
	return err
}
