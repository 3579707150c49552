package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored API key",
	Long: `Manage the API key used for model requests.

The key is stored locally in the data directory and is never printed.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the API key (reads stdin when no key is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runKeySet,
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE:  runKeyClear,
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an API key is stored",
	Args:  cobra.NoArgs,
	RunE:  runKeyStatus,
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyClearCmd)
	keyCmd.AddCommand(keyStatusCmd)
}

func runKeySet(cmd *cobra.Command, args []string) error {
	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("reading API key from stdin: %w", err)
		}
		key = line
	}
	key = strings.TrimSpace(key)

	_, st, err := openStore(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.SetCredential(key); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "API key saved.")
	return err
}

func runKeyClear(cmd *cobra.Command, args []string) error {
	_, st, err := openStore(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.ClearCredential(); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
	return err
}

func runKeyStatus(cmd *cobra.Command, args []string) error {
	_, st, err := openStore(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	_, ok := st.Credential()
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "API key: "+presence(ok, "stored", "not set"))
	return err
}
