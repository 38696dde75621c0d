package auth

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/hcloud-mcp/internal/credentials"
	"nathanbeddoewebdev/hcloud-mcp/internal/hetzner"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/spf13/cobra"
)

const verifyTimeout = 10 * time.Second

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a usable API token is configured",
		Long: `Show whether the hcloud CLI configuration holds a usable API token.

With --verify the token is also checked against the Hetzner Cloud API.

Examples:
  hcloud-mcp auth status
  hcloud-mcp auth status --verify`,
		Args:         cobra.NoArgs,
		RunE:         runStatus,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("verify", false, "Check the token against the Hetzner Cloud API")

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	path, err := credentials.Path()
	if err != nil {
		return err
	}

	token, err := credentials.ResolveFrom(path)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "hetzner: not configured (%v)\n", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "hetzner: token %s from %s\n", mask(token), path)

	verify, _ := cmd.Flags().GetBool("verify")
	if !verify {
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeout)
	defer cancel()
	return Verify(ctx, cmd, hetzner.New(token))
}

// Verify makes one cheap authenticated call with client.
func Verify(ctx context.Context, cmd *cobra.Command, client *hetzner.Client) error {
	if _, _, err := client.Locations.List(ctx, hcloud.LocationListOpts{ListOpts: hcloud.ListOpts{PerPage: 1}}); err != nil {
		err = hetzner.Classify(err)
		fmt.Fprintf(cmd.OutOrStdout(), "hetzner: token rejected (%v)\n", err)
		return fmt.Errorf("token verification failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "hetzner: token accepted by the API")
	return nil
}

// mask keeps the last four characters of a token.
func mask(token string) string {
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
