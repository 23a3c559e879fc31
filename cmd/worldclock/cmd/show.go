package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"worldclock/internal/session"
)

var (
	showPick int
	showOnce bool
)

func init() {
	showCmd.Flags().IntVar(&showPick, "pick", 0, "candidate number to use when the query is ambiguous")
	showCmd.Flags().BoolVar(&showOnce, "once", false, "print the clock once instead of ticking")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <query>",
	Short: "Selects a place and shows its live clock until interrupted.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		view := newTextView(cmd.OutOrStdout(), !showOnce)
		s, err := a.session(view)
		if err != nil {
			return err
		}
		defer s.Close()

		out := s.SelectByQuery(ctx, strings.Join(args, " "))
		if out == session.OutcomeAmbiguous {
			if showPick <= 0 {
				return fmt.Errorf("several places match, rerun with --pick N")
			}
			if out, err = s.SelectSuggestion(ctx, showPick-1); err != nil {
				return fmt.Errorf("--pick %d: %w", showPick, err)
			}
		}
		if out != session.OutcomeSelected {
			return fmt.Errorf("selection %s", out)
		}

		if showOnce {
			waitCtx, cancel := context.WithTimeout(ctx, 2*cfg.HTTPTimeout)
			defer cancel()
			view.WaitBackground(waitCtx)
			view.PrintNow()
			return nil
		}
		<-ctx.Done()
		return nil
	},
}
