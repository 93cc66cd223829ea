package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipe-finder/internal/app"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/shopping"
)

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "List the ingredient catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := recipe.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, ing := range catalog.Ingredients {
			fmt.Fprintf(out, "%-3s %s %-10s %s kcal/100g\n", ing.ID, ing.Emoji, ing.Name, shopping.FormatQuantity(ing.CaloriesPer100g))
		}
		return nil
	},
}

var recipesCmd = &cobra.Command{
	Use:   "recipes [id]",
	Short: "List recipes, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				r, err := a.Catalog().Recipe(args[0])
				if err != nil {
					return err
				}
				printRecipe(out, r, a.Favorites().IsFavorite(r.ID))
				return nil
			}
			for _, r := range a.Catalog().Recipes {
				printRecipeLine(out, r, a.Favorites().IsFavorite(r.ID))
			}
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <ingredient-id>...",
	Short: "Find recipes using 2 to 5 ingredients",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			var ids []string
			for _, arg := range args {
				ids = append(ids, strings.Split(arg, ",")...)
			}
			res, err := a.Search(ids)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== CALORIES PER 100G ===")
			for _, bar := range res.Chart {
				fmt.Fprintf(out, "%-10s %s %s\n", bar.Name, strings.Repeat("#", int(bar.Height/10)), shopping.FormatQuantity(bar.Calories))
			}
			fmt.Fprintf(out, "\n=== %d RECIPES ===\n", len(res.Recipes))
			for _, r := range res.Recipes {
				printRecipeLine(out, r, a.Favorites().IsFavorite(r.ID))
			}
			return nil
		})
	},
}

var (
	importSource   string
	importOut      string
	importSelector string
)

var importCatalogCmd = &cobra.Command{
	Use:   "import-catalog",
	Short: "Merge recipes from an HTML table into a YAML catalog",
	Long: `Reads an HTML table (a local file or an http(s) URL) whose header row
names the columns title, ingredients, calories, time and instructions, merges
the recipes into the current catalog and writes the result as YAML.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := recipe.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}

		var src io.Reader
		if strings.HasPrefix(importSource, "http://") || strings.HasPrefix(importSource, "https://") {
			client := &http.Client{Timeout: 60 * time.Second}
			data, err := recipe.FetchHTML(cmd.Context(), client, importSource)
			if err != nil {
				return err
			}
			src = bytes.NewReader(data)
		} else {
			f, err := os.Open(importSource)
			if err != nil {
				return fmt.Errorf("failed to open source: %w", err)
			}
			defer f.Close()
			src = f
		}

		recipes, err := recipe.ParseRecipeTable(src, importSelector)
		if err != nil {
			return err
		}
		added := catalog.Merge(recipes)
		if err := catalog.Validate(); err != nil {
			return fmt.Errorf("merged catalog is invalid: %w", err)
		}
		if err := catalog.Save(importOut); err != nil {
			return err
		}

		logger.Info("catalog imported",
			zap.String("source", importSource),
			zap.Int("parsed", len(recipes)),
			zap.Int("added", added),
			zap.String("out", importOut),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d of %d recipes. Catalog written to %s\n", added, len(recipes), importOut)
		return nil
	},
}

func init() {
	importCatalogCmd.Flags().StringVar(&importSource, "source", "", "HTML file or URL (required)")
	importCatalogCmd.Flags().StringVar(&importOut, "out", "catalog.yaml", "Output YAML catalog")
	importCatalogCmd.Flags().StringVar(&importSelector, "selector", "table", "CSS selector for the recipe table")
	_ = importCatalogCmd.MarkFlagRequired("source")
}

func printRecipeLine(out io.Writer, r recipe.Recipe, favorite bool) {
	star := ""
	if favorite {
		star = " *"
	}
	fmt.Fprintf(out, "%-3s %-28s %4s kcal %3d min%s\n", r.ID, r.Title, shopping.FormatQuantity(r.Calories), r.CookingTime, star)
}

func printRecipe(out io.Writer, r recipe.Recipe, favorite bool) {
	star := ""
	if favorite {
		star = " (favorite)"
	}
	fmt.Fprintf(out, "%s%s\n%d min, %s kcal\n\nIngredients:\n", r.Title, star, r.CookingTime, shopping.FormatQuantity(r.Calories))
	for _, ing := range r.Ingredients {
		fmt.Fprintf(out, "- %s\n", ing)
	}
	fmt.Fprintln(out, "\nSteps:")
	for i, step := range r.Instructions {
		fmt.Fprintf(out, "%d. %s\n", i+1, step)
	}
}
