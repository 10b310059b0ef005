package commands

import (
	"fmt"
	"strings"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/culinarycompanion/culinary/internal/cli/form"
	"github.com/spf13/cobra"
)

// NewIngredientsCmd creates the ingredients command group
func NewIngredientsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Browse the ingredient catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List known ingredients",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := app.API.ListIngredients(cmd.Context())
			if err != nil {
				return err
			}
			return app.Printer.Print(ingredientList(ingredients))
		},
	})

	return cmd
}

// NewPantryCmd creates the pantry command group
func NewPantryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pantry",
		Short: "Manage the ingredients you have on hand",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "ls",
			Aliases: []string{"list"},
			Short:   "List your pantry",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := app.API.ListPantry(cmd.Context(), app.Username())
				if err != nil {
					return err
				}
				return app.Printer.Print(pantryList(items))
			},
		},
		&cobra.Command{
			Use:     "add <name:quantity[:unit]>...",
			Short:   "Add ingredients to your pantry",
			Example: "  culinary pantry add flour:500:g \"olive oil:250:ml\"",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := pantryItems(app, args)
				if err != nil {
					return err
				}
				if _, err := app.API.AddPantryItems(cmd.Context(), app.Username(), items); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s to your pantry\n", itemNames(items))
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <name>",
			Aliases: []string{"remove"},
			Short:   "Remove an ingredient from your pantry",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name := strings.TrimSpace(args[0])
				if err := app.API.RemovePantryItem(cmd.Context(), app.Username(), name); err != nil {
					if client.IsNotFound(err) {
						return fmt.Errorf("'%s' is not in your pantry", name)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s from your pantry\n", name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <name:quantity[:unit]>...",
			Short: "Replace your whole pantry",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				items, err := pantryItems(app, args)
				if err != nil {
					return err
				}
				if err := app.API.ReplacePantry(cmd.Context(), app.Username(), items); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Pantry now holds %s\n", itemNames(items))
				return nil
			},
		},
	)

	return cmd
}

func pantryItems(app *App, values []string) ([]client.PantryItem, error) {
	lines, err := parseIngredientLines(app, values)
	if err != nil {
		return nil, err
	}
	items := make([]client.PantryItem, 0, len(lines))
	for _, line := range lines {
		item := line.PantryItem()
		if err := form.Validate(item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func itemNames(items []client.PantryItem) string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Ingredient.Name
	}
	return strings.Join(names, ", ")
}

// NewRecsCmd creates the recs command
func NewRecsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "recs",
		Aliases: []string{"recommendations"},
		Short:   "Suggest recipes from what is in your pantry",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.API.ListPantry(cmd.Context(), app.Username())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Ingredient.Name)
			}
			app.Log.Debug().Strs("ingredients", names).Msg("Requesting recommendations")

			recs, err := app.API.Recommend(cmd.Context(), names)
			if err != nil {
				return err
			}
			return app.Printer.Print(recommendationList(recs))
		},
	}
}
