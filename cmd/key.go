package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/gaurav-prasanna/pagesimplify/core/simplify"
	"github.com/gaurav-prasanna/pagesimplify/core/store"
	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the provider API key",
}

var keySetCmd = &cobra.Command{
	Use:   "set <key>",
	Short: "Validate and save the API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.store.SetAPIKey(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "✓ Saved key %s to %s\n", simplify.MaskKey(args[0]), a.store.Path())
		return nil
	},
}

var keyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configured API key, masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		key, err := a.store.APIKey()
		if errors.Is(err, store.ErrNoCredential) {
			fmt.Fprintln(os.Stdout, "No API key configured")
			return nil
		}
		if err != nil {
			return err
		}
		source := a.store.Path()
		if os.Getenv(store.EnvAPIKey) != "" {
			source = "$" + store.EnvAPIKey
		}
		fmt.Fprintf(os.Stdout, "%s (from %s)\n", simplify.MaskKey(key), source)
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyShowCmd)
	rootCmd.AddCommand(keyCmd)
}
