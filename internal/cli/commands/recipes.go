package commands

import (
	"fmt"
	"strconv"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/culinarycompanion/culinary/internal/cli/form"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewRecipesCmd creates the recipes command group
func NewRecipesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"recipe"},
		Short:   "Browse and manage recipes",
	}

	cmd.AddCommand(
		newRecipesListCmd(app),
		newRecipesMineCmd(app),
		newRecipesShowCmd(app),
		newRecipesAddCmd(app),
		newRecipesUpdateCmd(app),
		newRecipesDeleteCmd(app),
		newRecipesRateCmd(app),
	)

	return cmd
}

func newRecipesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all recipes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes, err := app.API.ListRecipes(cmd.Context())
			if err != nil {
				return err
			}
			return app.Printer.Print(recipeList(recipes))
		},
	}
}

func newRecipesMineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes, err := app.API.ListUserRecipes(cmd.Context(), app.Username())
			if err != nil {
				return err
			}
			return app.Printer.Print(recipeList(recipes))
		},
	}
}

func newRecipesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recipe with its rating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}

			var details recipeDetails
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				r, err := app.API.GetRecipe(ctx, id)
				if err != nil {
					return recipeError(id, err)
				}
				details.Recipe = r
				return nil
			})
			g.Go(func() error {
				summary, err := app.API.GetRecipeRating(ctx, id)
				if err != nil {
					return err
				}
				details.Rating = summary
				return nil
			})
			g.Go(func() error {
				r, err := app.API.GetUserRating(ctx, id, app.Username())
				if err != nil {
					return err
				}
				details.UserRating = r
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			return app.Printer.Print(details)
		},
	}
}

type recipeFlags struct {
	title        string
	description  string
	instructions string
	ingredients  []string
}

func (f *recipeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Recipe title")
	cmd.Flags().StringVar(&f.description, "description", "", "Short description")
	cmd.Flags().StringVar(&f.instructions, "instructions", "", "Preparation instructions")
	cmd.Flags().StringArrayVar(&f.ingredients, "ingredient", nil, "Ingredient as name:quantity[:unit] (repeatable)")
}

func newRecipesAddCmd(app *App) *cobra.Command {
	var flags recipeFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recipe",
		Example: `  culinary recipes add --title "Pancakes" --description "Fluffy" \
    --instructions "Mix and fry" --ingredient flour:2:cup --ingredient egg:2:count`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients, err := resolveIngredients(app, flags.ingredients)
			if err != nil {
				return err
			}
			if len(ingredients) == 0 {
				return fmt.Errorf("add at least one ingredient with --ingredient name:quantity:unit")
			}

			recipe := client.Recipe{
				Title:        flags.title,
				Description:  flags.description,
				Instructions: flags.instructions,
				UserEmail:    app.Username(),
				Ingredients:  ingredients,
			}
			if err := form.Validate(recipe); err != nil {
				return err
			}

			// The recipe is created bare and its ingredients attached in one batch
			body := recipe
			body.Ingredients = nil
			created, err := app.API.CreateRecipe(cmd.Context(), body)
			if err != nil {
				return err
			}
			if err := app.API.AddRecipeIngredients(cmd.Context(), created.RecipeID, ingredients); err != nil {
				return fmt.Errorf("recipe %d was created without ingredients: %w", created.RecipeID, err)
			}
			created.Ingredients = ingredients

			app.Log.Debug().Int("recipe_id", created.RecipeID).Msg("Recipe created")
			if app.Printer.Structured() {
				return app.Printer.Print(created)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recipe '%s' created (id %d)\n", created.Title, created.RecipeID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newRecipesUpdateCmd(app *App) *cobra.Command {
	var flags recipeFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update one of your recipes",
		Long: `Update one of your recipes. Only the given fields change.
Passing --ingredient replaces the whole ingredient list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}

			recipe, err := ownRecipe(cmd, app, id)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("title") {
				recipe.Title = flags.title
			}
			if cmd.Flags().Changed("description") {
				recipe.Description = flags.description
			}
			if cmd.Flags().Changed("instructions") {
				recipe.Instructions = flags.instructions
			}

			replaceIngredients := cmd.Flags().Changed("ingredient")
			if replaceIngredients {
				ingredients, err := resolveIngredients(app, flags.ingredients)
				if err != nil {
					return err
				}
				if len(ingredients) == 0 {
					return fmt.Errorf("a recipe needs at least one ingredient")
				}
				recipe.Ingredients = ingredients
			}

			if err := form.Validate(recipe); err != nil {
				return err
			}

			body := *recipe
			body.Ingredients = nil
			updated, err := app.API.UpdateRecipe(cmd.Context(), id, body)
			if err != nil {
				return recipeError(id, err)
			}
			if replaceIngredients {
				if err := app.API.UpdateRecipeIngredients(cmd.Context(), id, recipe.Ingredients); err != nil {
					return err
				}
			}
			updated.Ingredients = recipe.Ingredients

			if app.Printer.Structured() {
				return app.Printer.Print(updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recipe %d updated\n", id)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newRecipesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one of your recipes",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}

			recipe, err := ownRecipe(cmd, app, id)
			if err != nil {
				return err
			}

			// Ratings reference the recipe and must go first
			if err := app.API.DeleteRecipeRatings(cmd.Context(), id); err != nil {
				return err
			}
			if err := app.API.DeleteRecipe(cmd.Context(), id); err != nil {
				return recipeError(id, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Recipe '%s' deleted\n", recipe.Title)
			return nil
		},
	}
}

func newRecipesRateCmd(app *App) *cobra.Command {
	var starCount int64
	var comment string

	cmd := &cobra.Command{
		Use:   "rate <id>",
		Short: "Rate a recipe from 1 to 5 stars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseRecipeID(args[0])
			if err != nil {
				return err
			}

			recipe, err := app.API.GetRecipe(ctx, id)
			if err != nil {
				return recipeError(id, err)
			}

			if !cmd.Flags().Changed("stars") {
				if !app.interactive() {
					return fmt.Errorf("--stars is required in non-interactive mode")
				}
				starCount, err = app.Prompter.SelectStars(recipe.Title)
				if err != nil {
					return err
				}
			}

			rating := client.Rating{Rating: starCount, Comment: comment}
			if err := form.Validate(rating); err != nil {
				return err
			}

			existing, err := app.API.GetUserRating(ctx, id, app.Username())
			if err != nil {
				return err
			}

			if existing != nil {
				if !cmd.Flags().Changed("comment") {
					rating.Comment = existing.Comment
				}
				if err := app.API.UpdateRating(ctx, existing.RatingID, rating); err != nil {
					return err
				}
			} else {
				if _, err := app.API.RateRecipe(ctx, id, app.Username(), rating); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Rated '%s' %s\n", recipe.Title, stars(rating.Rating))
			return nil
		},
	}

	cmd.Flags().Int64Var(&starCount, "stars", 0, "Number of stars (1-5)")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional comment")

	return cmd
}

// resolveIngredients parses --ingredient values, asking for any missing unit
func resolveIngredients(app *App, values []string) ([]client.RecipeIngredient, error) {
	lines, err := parseIngredientLines(app, values)
	if err != nil {
		return nil, err
	}
	ingredients := make([]client.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		ingredients = append(ingredients, line.RecipeIngredient())
	}
	return ingredients, nil
}

func parseIngredientLines(app *App, values []string) ([]form.IngredientLine, error) {
	lines := make([]form.IngredientLine, 0, len(values))
	for _, v := range values {
		line, err := form.ParseIngredient(v)
		if err != nil {
			return nil, err
		}
		if line.Unit == "" {
			if !app.interactive() {
				return nil, fmt.Errorf("ingredient '%s' has no unit (use name:quantity:unit)", line.Name)
			}
			unit, err := app.Prompter.SelectUnit(line.Name)
			if err != nil {
				return nil, err
			}
			line.Unit = unit
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// ownRecipe fetches a recipe and checks the signed-in user wrote it
func ownRecipe(cmd *cobra.Command, app *App, id int) (*client.Recipe, error) {
	recipe, err := app.API.GetRecipe(cmd.Context(), id)
	if err != nil {
		return nil, recipeError(id, err)
	}
	if recipe.UserEmail != "" && recipe.UserEmail != app.Username() {
		return nil, fmt.Errorf("recipe %d belongs to %s, you can only change your own recipes", id, recipe.UserEmail)
	}
	return recipe, nil
}

func parseRecipeID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe id '%s'", s)
	}
	return id, nil
}

func recipeError(id int, err error) error {
	if client.IsNotFound(err) {
		return fmt.Errorf("recipe %d not found", id)
	}
	return err
}
