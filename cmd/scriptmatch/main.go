package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/scriptmatch/internal/logger"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀ █▀▀ █▀█ █ █▀█ ▀█▀ █▀▄▀█ ▄▀█ ▀█▀ █▀▀ █ █"
	logoText2 = "▄█ █▄▄ █▀▄ █ █▀▀  █  █ ▀ █ █▀█  █  █▄▄ █▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scriptmatch",
	Short: "Analyze a reference video script and write a new one in its style",
	RunE:  runWizard,
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.Current()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

scriptmatch walks you through turning a successful video script into a new
one. Paste or import a reference script, let the model break down its hook,
structure and tone, pick a suggested title and topic, and generate a fresh
script that follows the same pattern.

Two variants are available: "instructional" explainers (with an optional
reference thumbnail) and "narrative" period dramas with a named cast.
Wizard progress and the API key are saved between runs.`

	addGlobalFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(setupCmd)
}
