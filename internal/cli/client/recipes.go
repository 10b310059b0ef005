package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ListRecipes returns every recipe
func (c *Client) ListRecipes(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe
	if _, err := c.Get(ctx, "/recipes", &recipes); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// ListUserRecipes returns the recipes created by username
func (c *Client) ListUserRecipes(ctx context.Context, username string) ([]Recipe, error) {
	var recipes []Recipe
	if _, err := c.Get(ctx, pathf("recipes", "user", username), &recipes); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe fetches a recipe by ID
func (c *Client) GetRecipe(ctx context.Context, id int) (*Recipe, error) {
	var recipe Recipe
	if _, err := c.Get(ctx, pathf("recipes", id), &recipe); err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// CreateRecipe creates a recipe and returns it with its assigned ID
func (c *Client) CreateRecipe(ctx context.Context, recipe Recipe) (*Recipe, error) {
	var created Recipe
	if _, err := c.Post(ctx, "/recipes", recipe, &created); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return &created, nil
}

// UpdateRecipe replaces the recipe's title, description and instructions
func (c *Client) UpdateRecipe(ctx context.Context, id int, recipe Recipe) (*Recipe, error) {
	var updated Recipe
	if _, err := c.Put(ctx, pathf("recipes", id), recipe, &updated); err != nil {
		return nil, fmt.Errorf("failed to update recipe %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteRecipe deletes a recipe by ID
func (c *Client) DeleteRecipe(ctx context.Context, id int) error {
	if _, err := c.Delete(ctx, pathf("recipes", id), nil); err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return nil
}

// AddRecipeIngredients appends ingredients to a recipe
func (c *Client) AddRecipeIngredients(ctx context.Context, id int, ingredients []RecipeIngredient) error {
	if _, err := c.Post(ctx, pathf("recipes", id, "ingredients", "batch"), ingredients, nil); err != nil {
		return fmt.Errorf("failed to add ingredients to recipe %d: %w", id, err)
	}
	return nil
}

// UpdateRecipeIngredients replaces a recipe's ingredient list
func (c *Client) UpdateRecipeIngredients(ctx context.Context, id int, ingredients []RecipeIngredient) error {
	if _, err := c.Put(ctx, pathf("recipes", id, "ingredients"), ingredients, nil); err != nil {
		return fmt.Errorf("failed to update ingredients of recipe %d: %w", id, err)
	}
	return nil
}

// ListIngredients returns the ingredient catalog
func (c *Client) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	var ingredients []Ingredient
	if _, err := c.Get(ctx, "/ingredients", &ingredients); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// Recommend asks the recommender for recipes matching ingredient names
func (c *Client) Recommend(ctx context.Context, ingredientNames []string) ([]Recommendation, error) {
	if ingredientNames == nil {
		ingredientNames = []string{}
	}
	var recs []Recommendation
	if _, err := c.Post(ctx, "/recipes/recommendations", ingredientNames, &recs); err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}
	return recs, nil
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
