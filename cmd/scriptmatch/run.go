package main

import (
	"os/signal"
	"syscall"

	"github.com/mark3labs/scriptmatch/internal/logger"
	"github.com/mark3labs/scriptmatch/internal/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive wizard",
	Long: `Start the full-screen wizard. This is also what running scriptmatch
without a command does.

Progress is saved after every change, so quitting and starting again picks
up where you left off. Use 'scriptmatch reset' or ctrl+r in the wizard to
start over.`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	// ctrl+c is a key press inside the TUI; only SIGTERM cancels from outside.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("Starting %s wizard at step %d", s.cfg.Variant, s.machine.State().Step)
	return tui.Run(ctx, s.machine)
}
