package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/player-soap-service/internal/application/player/commands"
	"github.com/andrescamacho/player-soap-service/internal/application/player/queries"
	"github.com/andrescamacho/player-soap-service/internal/domain/player"
)

// NewPlayerCommand creates the player command with subcommands
func NewPlayerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Inspect and remove players",
		Long: `Inspect and remove players stored in the configured database.

Examples:
  playerctl player list
  playerctl player get 3
  playerctl player delete 3
  playerctl player wipe --yes`,
	}

	// Add subcommands
	cmd.AddCommand(newPlayerListCommand())
	cmd.AddCommand(newPlayerGetCommand())
	cmd.AddCommand(newPlayerDeleteCommand())
	cmd.AddCommand(newPlayerWipeCommand())

	return cmd
}

// newPlayerListCommand creates the player list subcommand
func newPlayerListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			response, err := s.mediator.Send(s.context(), &queries.ListPlayersQuery{})
			if err != nil {
				return fmt.Errorf("failed to list players: %w", err)
			}
			players := response.(*queries.ListPlayersResponse).Players

			out := cmd.OutOrStdout()
			if len(players) == 0 {
				fmt.Fprintln(out, "No players found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCLUB\tPOSITION\tAGE\tACTIVE\tSEASONS\tAWARDS")
			fmt.Fprintln(w, "--\t----\t----\t--------\t---\t------\t-------\t------")
			for _, p := range players {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%t\t%d\t%d\n",
					p.ID, p.Name, p.Club, p.Position, p.Age, p.IsActive,
					len(p.Statistics), len(p.Awards),
				)
			}
			return w.Flush()
		},
	}
}

// newPlayerGetCommand creates the player get subcommand
func newPlayerGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a player with statistics and awards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			response, err := s.mediator.Send(s.context(), &queries.GetPlayerQuery{PlayerID: id})
			if err != nil {
				return err
			}

			printPlayer(cmd.OutOrStdout(), response.(*queries.GetPlayerResponse).Player)
			return nil
		},
	}
}

// newPlayerDeleteCommand creates the player delete subcommand
func newPlayerDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a player together with its statistics and awards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlayerID(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := s.mediator.Send(s.context(), &commands.DeletePlayerCommand{PlayerID: id}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Player %d deleted\n", id)
			return nil
		},
	}
}

// newPlayerWipeCommand creates the player wipe subcommand
func newPlayerWipeCommand() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every player, statistic and award",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to delete all players without --yes")
			}

			s, err := openSession(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			response, err := s.mediator.Send(s.context(), &commands.DeleteAllPlayersCommand{})
			if err != nil {
				return fmt.Errorf("failed to delete players: %w", err)
			}

			deleted := response.(*commands.DeleteAllPlayersResponse).DeletedCount
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d players\n", deleted)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm deleting all data")

	return cmd
}

func printPlayer(out io.Writer, p *player.Player) {
	fmt.Fprintf(out, "Player %d\n", p.ID)
	fmt.Fprintf(out, "  Name:      %s\n", p.Name)
	fmt.Fprintf(out, "  Country:   %s\n", p.Country)
	fmt.Fprintf(out, "  Club:      %s\n", p.Club)
	fmt.Fprintf(out, "  Position:  %s\n", p.Position)
	fmt.Fprintf(out, "  Age:       %d\n", p.Age)
	fmt.Fprintf(out, "  Active:    %t\n", p.IsActive)

	if len(p.Statistics) > 0 {
		fmt.Fprintln(out, "\nStatistics:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  SEASON\tMATCHES\tGOALS\tASSISTS\tYELLOW\tRED\tMINUTES")
		for _, s := range p.Statistics {
			fmt.Fprintf(w, "  %s\t%d\t%d\t%d\t%d\t%d\t%d\n",
				s.Season, s.Matches, s.Goals, s.Assists, s.YellowCards, s.RedCards, s.MinutesPlayed)
		}
		w.Flush()
	}

	if len(p.Awards) > 0 {
		fmt.Fprintln(out, "\nAwards:")
		for _, a := range p.Awards {
			fmt.Fprintf(out, "  %d  %s (%s)\n", a.Year, a.AwardName, a.Category)
		}
	}
}
