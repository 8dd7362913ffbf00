package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"edulearn-cli/internal/domain"
)

func newContestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contests",
		Short: "List contests",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			contests, err := a.client.ListContests(cmd.Context())
			if err != nil {
				return describeAPIError(err)
			}

			out := cmd.OutOrStdout()
			for _, contest := range contests {
				fmt.Fprintf(out, "%6d  %-40s  %s .. %s\n",
					contest.ID, contest.Title,
					contest.StartsAt.Format("2006-01-02 15:04"),
					contest.EndsAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "leaderboard <contest-id>",
		Short: "Show a contest leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contestID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid contest id %q", args[0])
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if contest, err := a.client.GetContest(cmd.Context(), contestID); err == nil {
				fmt.Fprintf(out, "%s (ends %s)\n", contest.Title, contest.EndsAt.Format("2006-01-02 15:04"))
			}

			lb, err := a.client.GetLeaderboard(cmd.Context(), contestID)
			switch {
			case errors.Is(err, domain.ErrLeaderboardTimeout):
				a.notifier.Error("the leaderboard took too long to load; run the command again to retry")
				return nil
			case err != nil:
				return describeAPIError(err)
			}
			renderLeaderboard(out, lb)

			if !watch {
				return nil
			}
			return watchLeaderboard(cmd, a, contestID)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "stay connected and print live updates")
	return cmd
}

// watchLeaderboard streams updates until the connection drops or the user
// interrupts.
func watchLeaderboard(cmd *cobra.Command, a *app, contestID int64) error {
	updates, cancel, err := a.client.WatchLeaderboard(cmd.Context(), contestID)
	if err != nil {
		return describeAPIError(err)
	}
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "watching for updates (ctrl-c to stop)")
	for {
		select {
		case <-interrupt:
			return nil
		case <-cmd.Context().Done():
			return nil
		case lb, ok := <-updates:
			if !ok {
				a.notifier.Warning("leaderboard stream closed")
				return nil
			}
			renderLeaderboard(out, lb)
		}
	}
}

func renderLeaderboard(out io.Writer, lb domain.Leaderboard) {
	fmt.Fprintf(out, "\nleaderboard (as of %s)\n", lb.UpdatedAt.Format("15:04:05"))
	for _, entry := range lb.Entries {
		fmt.Fprintf(out, "%4d. %-30s %8.1f\n", entry.Rank, entry.DisplayName, entry.Score)
	}
}
