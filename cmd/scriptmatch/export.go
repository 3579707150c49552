package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportFlags struct {
	output    string
	diff      bool
	clipboard bool
	stdout    bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save the generated script",
	Long: `Save the generated script to a text file.

The default file name is derived from the chosen title. Use --diff to see
what changes against an existing file before it is overwritten.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "Output file (default: derived from the title)")
	exportCmd.Flags().BoolVar(&exportFlags.diff, "diff", false, "Print a diff against the existing file before writing")
	exportCmd.Flags().BoolVarP(&exportFlags.clipboard, "clipboard", "c", false, "Copy to the clipboard instead of writing a file")
	exportCmd.Flags().BoolVar(&exportFlags.stdout, "stdout", false, "Print the script instead of writing a file")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	switch {
	case exportFlags.stdout:
		return s.machine.Export(out)
	case exportFlags.clipboard:
		if err := s.machine.Copy(); err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, "Copied to clipboard")
		return err
	}

	path := exportFlags.output
	if path == "" {
		path = s.machine.ExportName()
	}
	if exportFlags.diff {
		d, err := s.machine.ExportDiff(path)
		if err != nil {
			return err
		}
		if d == "" {
			_, err = fmt.Fprintf(out, "%s is up to date\n", path)
			return err
		}
		fmt.Fprint(out, d)
	}
	written, err := s.machine.ExportFile(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Saved to %s\n", written)
	return err
}
