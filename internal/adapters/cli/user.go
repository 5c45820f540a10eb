package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/player-soap-service/internal/adapters/auth"
	domainAuth "github.com/andrescamacho/player-soap-service/internal/domain/auth"
)

// NewUserCommand creates the user command with subcommands
func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage service accounts",
		Long: `Manage the accounts allowed to call the SOAP endpoint with Basic credentials
or to request bearer tokens.

Example:
  playerctl user add --username ops --password s3cret`,
	}

	cmd.AddCommand(newUserAddCommand())

	return cmd
}

// newUserAddCommand creates the user add subcommand
func newUserAddCommand() *cobra.Command {
	var (
		username string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account or reset its password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return fmt.Errorf("--username flag is required")
			}
			if password == "" {
				return fmt.Errorf("--password flag is required")
			}

			s, err := openSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := auth.EnsureUser(s.context(), s.users, username, password, role); err != nil {
				return fmt.Errorf("failed to save user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ User %s saved (role: %s)\n", username, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	cmd.Flags().StringVar(&role, "role", domainAuth.RoleAdmin, "Account role")

	return cmd
}
