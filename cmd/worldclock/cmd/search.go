package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Lists the places matching a query without selecting one.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		view := newTextView(cmd.OutOrStdout(), false)
		s, err := a.session(view)
		if err != nil {
			return err
		}
		defer s.Close()

		_, err = s.Search(ctx, strings.Join(args, " "))
		return err
	},
}
