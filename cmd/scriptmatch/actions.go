package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/tui"
	"github.com/spf13/cobra"
)

const outputWidth = 100

var analyzeFlags struct {
	file      string
	thumbnail string
	json      bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the reference script",
	Long: `Send the reference script to the model and store the breakdown.

The script comes from --file ("-" reads stdin) or from the saved wizard
state. With the instructional variant a reference thumbnail can be attached
with --thumbnail.`,
	RunE: runAnalyze,
}

var generateFlags struct {
	title      string
	topic      string
	tone       string
	customTone string
	minutes    int
	persona    string
	female     string
	male       string
	supporting []string
	output     string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new script from the analysis",
	Long: `Generate a new script in the style of the analyzed reference.

--title and --topic accept either text or the number of a suggestion from
the analysis (1-3). Flags that are not given keep their saved values.`,
	RunE: runGenerate,
}

var keywordsFlags struct {
	title string
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Suggest SEO keywords for a title",
	RunE:  runKeywords,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFlags.file, "file", "f", "", "Reference script file (\"-\" for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeFlags.thumbnail, "thumbnail", "t", "", "Reference thumbnail image (instructional only)")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.json, "json", false, "Print the analysis as JSON")

	addGenerateFlags(generateCmd)

	keywordsCmd.Flags().StringVar(&keywordsFlags.title, "title", "", "Title, or suggestion number (default: saved title)")
}

func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&generateFlags.title, "title", "", "Title, or suggestion number")
	f.StringVar(&generateFlags.topic, "topic", "", "Topic, or suggestion number")
	f.StringVar(&generateFlags.tone, "tone", "", "Tone: benchmark, logical or custom")
	f.StringVar(&generateFlags.customTone, "custom-tone", "", "Tone description for --tone custom")
	f.IntVar(&generateFlags.minutes, "minutes", state.DefaultTargetMinutes, "Target length in minutes")
	f.StringVar(&generateFlags.persona, "persona", "", "Persona rules, comma separated")
	f.StringVar(&generateFlags.female, "female", "", "Female protagonist (narrative)")
	f.StringVar(&generateFlags.male, "male", "", "Male protagonist (narrative)")
	f.StringSliceVar(&generateFlags.supporting, "supporting", nil, "Supporting characters (narrative, up to 4)")
	f.StringVarP(&generateFlags.output, "output", "o", "", "Write the script to this file instead of stdout")
}

// signalContext cancels on ctrl+c or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	switch analyzeFlags.file {
	case "":
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		if err := s.machine.Apply(state.Patch{ReferenceScript: state.Ptr(string(data))}); err != nil {
			return err
		}
	default:
		if err := s.machine.ImportScript(analyzeFlags.file); err != nil {
			return err
		}
	}
	if analyzeFlags.thumbnail != "" {
		if s.machine.Variant() != state.VariantInstructional {
			return fmt.Errorf("--thumbnail is only supported by the instructional variant")
		}
		if err := s.machine.ImportThumbnail(analyzeFlags.thumbnail); err != nil {
			return err
		}
	}

	if err := s.actionError(s.machine.Analyze(ctx)); err != nil {
		return err
	}

	result := s.machine.State().Analysis
	out := cmd.OutOrStdout()
	if analyzeFlags.json {
		return printJSON(out, result)
	}
	_, err = fmt.Fprintln(out, tui.RenderAnalysis(result, outputWidth))
	return err
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	st := s.machine.State()
	if st.Analysis == nil {
		return fmt.Errorf("no analysis yet; run 'scriptmatch analyze' first")
	}
	p, err := generatePatch(cmd, st)
	if err != nil {
		return err
	}
	if err := s.machine.Apply(p); err != nil {
		return err
	}

	if err := s.actionError(s.machine.Generate(ctx)); err != nil {
		return err
	}

	if generateFlags.output != "" {
		path, err := s.machine.ExportFile(generateFlags.output)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Script written to %s\n", path)
		return err
	}
	out := cmd.OutOrStdout()
	if err := s.machine.Export(out); err != nil {
		return err
	}
	art := s.machine.State().Artifact
	if art != nil && art.ThumbnailPrompt != "" {
		_, err = fmt.Fprintf(out, "\n\n--- Thumbnail prompt ---\n%s\n", art.ThumbnailPrompt)
	}
	return err
}

// generatePatch builds the input changes from the flags that were given.
func generatePatch(cmd *cobra.Command, st state.WizardState) (state.Patch, error) {
	flags := cmd.Flags()
	core := st.Analysis.Core()

	var p state.Patch
	if flags.Changed("title") {
		p.Title = state.Ptr(pickSuggestion(generateFlags.title, core.SuggestedTitles))
	}
	if flags.Changed("topic") {
		p.Topic = state.Ptr(pickSuggestion(generateFlags.topic, core.SuggestedTopics))
	}
	if flags.Changed("tone") {
		tone := state.Tone(generateFlags.tone)
		if !tone.Valid() {
			return p, fmt.Errorf("invalid tone %q (want benchmark, logical or custom)", generateFlags.tone)
		}
		p.Tone = &tone
	}
	if flags.Changed("custom-tone") {
		p.CustomTone = &generateFlags.customTone
	}
	if flags.Changed("minutes") {
		p.TargetMinutes = &generateFlags.minutes
	}
	if flags.Changed("persona") {
		p.PersonaRules = &generateFlags.persona
	}
	if flags.Changed("female") || flags.Changed("male") || flags.Changed("supporting") {
		chars := st.Inputs.Characters
		if flags.Changed("female") {
			chars.FemaleProtagonist = generateFlags.female
		}
		if flags.Changed("male") {
			chars.MaleProtagonist = generateFlags.male
		}
		if flags.Changed("supporting") {
			chars.Supporting = trimNames(generateFlags.supporting)
		}
		p.Characters = &chars
	}
	return p, nil
}

// pickSuggestion resolves a 1-based suggestion number to its text. Any
// other value is taken literally.
func pickSuggestion(value string, options []string) string {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return value
}

func trimNames(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func runKeywords(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if cmd.Flags().Changed("title") {
		var titles []string
		if a := s.machine.State().Analysis; a != nil {
			titles = a.Core().SuggestedTitles
		}
		if err := s.machine.Apply(state.Patch{Title: state.Ptr(pickSuggestion(keywordsFlags.title, titles))}); err != nil {
			return err
		}
	}

	if err := s.actionError(s.machine.SuggestKeywords(ctx)); err != nil {
		return err
	}
	kw := s.machine.State().TitleKeywords
	if kw == nil {
		return fmt.Errorf("no keywords returned")
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Large:  %s\nMedium: %s\nSmall:  %s\n", kw.Large, kw.Medium, kw.Small)
	return err
}

// printJSON writes v as indented JSON, highlighted when out is a terminal.
func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	text := string(data)
	if isTerminal(out) {
		text = highlightJSON(text)
	}
	_, err = fmt.Fprintln(out, text)
	return err
}
