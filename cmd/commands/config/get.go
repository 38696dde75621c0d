package config

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"nathanbeddoewebdev/hcloud-mcp/internal/config"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value",
		Long: "Get a persistent configuration value.\n\n" +
			"If no key is provided, every key is listed.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  hcloud-mcp config get             # list all values\n" +
			"  hcloud-mcp config get transport   # print a single value",
		Args:         cobra.MaximumNArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	cmd.Flags().String("key", "", "Configuration key to fetch (same as the positional argument)")

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
	keyFlag, _ := cmd.Flags().GetString("key")
	if len(args) == 1 {
		keyFlag = args[0]
	}
	keyFlag = strings.TrimSpace(keyFlag)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if keyFlag == "" {
		return listAll(cmd, cfg)
	}

	spec := config.Lookup(keyFlag)
	if spec == nil {
		return fmt.Errorf("unknown configuration key %q (valid: %s)", keyFlag, strings.Join(config.KeyNames(), ", "))
	}

	value := spec.Get(cfg)
	if value == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "not set")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), value)
	}
	return nil
}

// listAll prints every key. Terminals get an aligned table with
// descriptions, pipes get plain "key: value" lines.
func listAll(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE\tDESCRIPTION")
		for _, spec := range config.Keys {
			fmt.Fprintf(w, "%s\t%s\t%s\n", spec.Name, display(spec.Get(cfg)), spec.Description)
		}
		return w.Flush()
	}

	for _, spec := range config.Keys {
		fmt.Fprintf(out, "%s: %s\n", spec.Name, display(spec.Get(cfg)))
	}
	return nil
}

func display(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
