package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipe-finder/internal/app"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List favorite recipes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			recipes := a.FavoriteRecipes()
			if len(recipes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No favorites.")
				return nil
			}
			for _, r := range recipes {
				printRecipeLine(cmd.OutOrStdout(), r, true)
			}
			return nil
		})
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <recipe-id>",
	Short: "Mark a recipe as favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			return a.SetFavorite(args[0], true)
		})
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <recipe-id>",
	Short: "Unmark a favorite recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			return a.SetFavorite(args[0], false)
		})
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd, favoritesRemoveCmd)
}
