package cli

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var period string
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("period", period)
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			var result Leaderboard

			if err := client.Get("/api/v1/leaderboard?"+q.Encode(), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "daily", "Leaderboard period: daily, alltime")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of entries")

	return cmd
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Show the board bonus layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Layout

			if err := client.Get("/api/v1/layout", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
