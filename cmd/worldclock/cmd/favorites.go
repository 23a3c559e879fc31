package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"worldclock/internal/favorites"
)

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesRemoveCmd)
	rootCmd.AddCommand(favoritesCmd)
}

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "The 'favorites' subcommand works with saved places.",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the saved places, most recent first.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, repo, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		renderFavorites(cmd.OutOrStdout(), repo.Load(cmd.Context()))
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <key>",
	Short: "Removes the saved place with the given key.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, repo, err := openRepository(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		list := repo.Load(ctx)
		if !favorites.Contains(list, args[0]) {
			return fmt.Errorf("no favorite with key %q", args[0])
		}
		list = favorites.Remove(list, args[0])
		repo.Save(ctx, list)
		renderFavorites(cmd.OutOrStdout(), list)
		return nil
	},
}
