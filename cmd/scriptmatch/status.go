package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/term"
	"github.com/mark3labs/scriptmatch/internal/state"
	"github.com/mark3labs/scriptmatch/internal/tui/theme"
	"github.com/spf13/cobra"
)

var statusFlags struct {
	json bool
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show saved wizard progress",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFlags.json, "json", false, "Print the saved state document")
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	st := s.machine.State()
	out := cmd.OutOrStdout()

	if statusFlags.json {
		data, err := state.Encode(&st)
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

	step := s.machine.CurrentStep()
	fmt.Fprintf(out, "Variant:    %s\n", s.machine.Variant())
	fmt.Fprintf(out, "Step:       %d of %d (%s)\n", st.Step, len(s.machine.Steps()), step.Title)
	fmt.Fprintf(out, "API key:    %s\n", presence(s.machine.CredentialPresent(), "stored", "not set"))
	fmt.Fprintf(out, "Reference:  %d characters\n", utf8.RuneCountInString(st.Inputs.ReferenceScript))
	if s.machine.Variant() == state.VariantInstructional {
		fmt.Fprintf(out, "Thumbnail:  %s\n", presence(st.Inputs.Thumbnail != "", "attached", "none"))
	}
	fmt.Fprintf(out, "Analysis:   %s\n", presence(st.Analysis != nil, "ready", "not yet"))
	if st.Inputs.Title != "" {
		fmt.Fprintf(out, "Title:      %s\n", st.Inputs.Title)
	}
	if st.Inputs.Topic != "" {
		fmt.Fprintf(out, "Topic:      %s\n", st.Inputs.Topic)
	}
	fmt.Fprintf(out, "Tone:       %s\n", st.Inputs.Tone)
	fmt.Fprintf(out, "Length:     %d min\n", st.Inputs.TargetMinutes)
	if st.Artifact != nil {
		fmt.Fprintf(out, "Script:     %d characters (%s)\n", utf8.RuneCountInString(st.Artifact.Script), st.Artifact.Source)
	} else {
		fmt.Fprintln(out, "Script:     not yet")
	}
	if st.Error != "" {
		fmt.Fprintf(out, "Error:      %s\n", st.Error)
	}
	return nil
}

func presence(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// highlightJSON colors JSON for the terminal. It returns the input unchanged
// if highlighting fails.
func highlightJSON(source string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return source
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Get("terminal256")
	}
	if formatter == nil {
		return source
	}

	baseStyle := styles.Get("monokai")
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}
	// Match the token background to the terminal theme.
	bg := chroma.MustParseColour(theme.Current().BgBase)
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = bg
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
