package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"recipe-finder/internal/app"
	"recipe-finder/internal/shopping"
	"recipe-finder/internal/shopping/editing"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show and change the shopping list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			printList(cmd.OutOrStdout(), a.Shopping().Items())
			return nil
		})
	},
}

var (
	addQuantity float64
	addUnit     string
)

var listAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item, merging with an item of the same name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			item, err := a.Shopping().AddItem(args[0], addQuantity, addUnit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s %s)\n", item.Name, shopping.FormatQuantity(item.Quantity), item.Unit)
			return nil
		})
	},
}

var listRecipeCmd = &cobra.Command{
	Use:   "add-recipe <recipe-id>",
	Short: "Add every ingredient of a recipe",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			items, err := a.AddRecipeToShoppingList(args[0])
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), items)
			return nil
		})
	},
}

var listDoneCmd = &cobra.Command{
	Use:   "done <n>",
	Short: "Toggle the completed flag of item n",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			item, err := itemAt(a, args[0])
			if err != nil {
				return err
			}
			a.Shopping().ToggleCompleted(item.ID)
			printList(cmd.OutOrStdout(), a.Shopping().Items())
			return nil
		})
	},
}

var listRemoveCmd = &cobra.Command{
	Use:   "remove <n>",
	Short: "Remove item n",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			item, err := itemAt(a, args[0])
			if err != nil {
				return err
			}
			a.Shopping().RemoveItem(item.ID)
			printList(cmd.OutOrStdout(), a.Shopping().Items())
			return nil
		})
	},
}

var (
	editName     string
	editQuantity float64
	editUnit     string
)

var listEditCmd = &cobra.Command{
	Use:   "edit <n>",
	Short: "Change the name, quantity or unit of item n",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			item, err := itemAt(a, args[0])
			if err != nil {
				return err
			}
			session := editing.NewSession(a.Shopping())
			current, err := session.StartEdit(item.ID)
			if err != nil {
				return err
			}

			draft := editing.Draft{Name: current.Name, Quantity: editQuantity, Unit: editUnit}
			if cmd.Flags().Changed("name") {
				draft.Name = editName
			}
			saved, err := session.Save(item.ID, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s %s)\n", saved.Name, shopping.FormatQuantity(saved.Quantity), saved.Unit)
			return nil
		})
	},
}

var listClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove completed items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			a.Shopping().ClearCompleted()
			printList(cmd.OutOrStdout(), a.Shopping().Items())
			return nil
		})
	},
}

var listClearAllCmd = &cobra.Command{
	Use:   "clear-all",
	Short: "Empty the list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			a.Shopping().ClearAll()
			printList(cmd.OutOrStdout(), nil)
			return nil
		})
	},
}

var exportXLSX string

var listExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print pending items, or write them to a spreadsheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			if exportXLSX == "" {
				text := a.Shopping().Export()
				if text != "" {
					fmt.Fprintln(cmd.OutOrStdout(), text)
				}
				return nil
			}

			f, err := os.Create(exportXLSX)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportXLSX, err)
			}
			if err := a.Shopping().ExportXLSX(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", exportXLSX, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written to %s\n", exportXLSX)
			return nil
		})
	},
}

func init() {
	listAddCmd.Flags().Float64VarP(&addQuantity, "quantity", "q", shopping.DefaultQuantity, "Quantity to add")
	listAddCmd.Flags().StringVarP(&addUnit, "unit", "u", shopping.DefaultUnit, "Unit")

	listEditCmd.Flags().StringVar(&editName, "name", "", "New name")
	listEditCmd.Flags().Float64VarP(&editQuantity, "quantity", "q", 0, "New quantity")
	listEditCmd.Flags().StringVarP(&editUnit, "unit", "u", "", "New unit")

	listExportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "Write a spreadsheet to this path")

	listCmd.AddCommand(listAddCmd, listRecipeCmd, listDoneCmd, listRemoveCmd, listEditCmd,
		listClearCmd, listClearAllCmd, listExportCmd)
}

// itemAt resolves a 1-based list position.
func itemAt(a *app.App, arg string) (shopping.Item, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return shopping.Item{}, fmt.Errorf("invalid position %q", arg)
	}
	items := a.Shopping().Items()
	if n < 1 || n > len(items) {
		return shopping.Item{}, fmt.Errorf("position %d out of range 1..%d", n, len(items))
	}
	return items[n-1], nil
}

func printList(out io.Writer, items []shopping.Item) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Shopping list is empty.")
		return
	}
	for i, it := range items {
		mark := " "
		if it.Completed {
			mark = "x"
		}
		fmt.Fprintf(out, "%2d. [%s] %s (%s %s)\n", i+1, mark, it.Name, shopping.FormatQuantity(it.Quantity), it.Unit)
	}
}
