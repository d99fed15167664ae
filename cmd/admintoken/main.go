// Command admintoken prints a Bearer token for the finder's admin routes,
// signed with JWT_SECRET.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/event-ticket-finder/internal/config"
	"github.com/iliyamo/event-ticket-finder/internal/utils"
)

var (
	subjectFlag string
	ttlFlag     int
)

var rootCmd = &cobra.Command{
	Use:   "admintoken",
	Short: "Mint an admin JWT for the event finder API",
	Long: `Mint an HS256 token carrying the ADMIN role, signed with JWT_SECRET
(read from the environment or .env). Use it as "Authorization: Bearer <token>"
on /v1/admin routes.`,
	Args: cobra.NoArgs,
	RunE: runMint,
}

func init() {
	rootCmd.Flags().StringVar(&subjectFlag, "sub", "admin", "Token subject")
	rootCmd.Flags().IntVar(&ttlFlag, "ttl", 0, "Lifetime in minutes (default ADMIN_TOKEN_TTL_MIN)")
}

func runMint(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ttl := ttlFlag
	if ttl <= 0 {
		ttl = cfg.AdminTokenTTLMin
	}
	tok, err := utils.NewAdminToken(cfg.JWTSecret, subjectFlag, ttl)
	if err != nil {
		return fmt.Errorf("mint token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Exp.Format("2006-01-02 15:04:05 MST"))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
