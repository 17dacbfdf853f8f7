package cli

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Game session commands",
	}

	cmd.AddCommand(newSessionNewCmd())
	cmd.AddCommand(newSessionListCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionPlaceCmd())
	cmd.AddCommand(newSessionPositionCmd("remove", "Return a placed letter to the rack"))
	cmd.AddCommand(newSessionPositionCmd("select", "Select a board cell (off-board clears the selection)"))
	cmd.AddCommand(newSessionActionCmd("recall", "Return all placed letters to the rack"))
	cmd.AddCommand(newSessionActionCmd("shuffle", "Shuffle the rack"))
	cmd.AddCommand(newSessionActionCmd("redraw", "Replace the rack with new letters"))
	cmd.AddCommand(newSessionSubmitCmd())
	cmd.AddCommand(newSessionEndCmd())

	return cmd
}

func sessionPath(id string) string {
	return "/api/v1/sessions/" + id
}

func parsePosition(rowArg, colArg string) (map[string]int, error) {
	row, err := strconv.Atoi(rowArg)
	if err != nil {
		return nil, fmt.Errorf("invalid row: %w", err)
	}

	col, err := strconv.Atoi(colArg)
	if err != nil {
		return nil, fmt.Errorf("invalid col: %w", err)
	}

	return map[string]int{"row": row, "col": col}, nil
}

func newSessionNewCmd() *cobra.Command {
	var seedArgs []string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if len(seedArgs) > 0 {
				seeds := make([]map[string]any, 0, len(seedArgs))
				for _, arg := range seedArgs {
					seed, err := parseSeed(arg)
					if err != nil {
						return err
					}
					seeds = append(seeds, seed)
				}
				body = map[string]any{"seeds": seeds}
			}

			var result Session
			if err := client.Post("/api/v1/sessions", body, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&seedArgs, "seed", nil, "Fixed letter to pre-place, as row,col,letter (repeatable)")

	return cmd
}

// parseSeed parses a row,col,letter triple
func parseSeed(arg string) (map[string]any, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid seed %q: want row,col,letter", arg)
	}
	pos, err := parsePosition(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}
	return map[string]any{"row": pos["row"], "col": pos["col"], "letter": strings.TrimSpace(parts[2])}, nil
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your game sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionList

			if err := client.Get("/api/v1/sessions", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get(sessionPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place <id> <row> <col> <letter>",
		Short: "Place a rack letter on the board",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePosition(args[1], args[2])
			if err != nil {
				return err
			}

			letter := args[3]
			if utf8.RuneCountInString(letter) != 1 {
				return fmt.Errorf("letter must be a single character A-Z")
			}

			req := map[string]any{"row": pos["row"], "col": pos["col"], "letter": letter}
			var result MutationResult

			if err := client.Post(sessionPath(args[0])+"/place", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// newSessionPositionCmd builds commands that take a session and a cell
func newSessionPositionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id> <row> <col>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parsePosition(args[1], args[2])
			if err != nil {
				return err
			}

			var result MutationResult

			if err := client.Post(sessionPath(args[0])+"/"+action, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// newSessionActionCmd builds commands that take only a session
func newSessionActionCmd(action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result MutationResult

			if err := client.Post(sessionPath(args[0])+"/"+action, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit <id>",
		Short: "Score any new words on the board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SubmitResult

			if err := client.Post(sessionPath(args[0])+"/submit", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <id>",
		Short: "End a game session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(sessionPath(args[0])); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Session ended")
			return nil
		},
	}
}
