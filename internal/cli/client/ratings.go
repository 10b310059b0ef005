package client

import (
	"context"
	"fmt"
)

// GetRecipeRating returns the average rating and vote count of a recipe
func (c *Client) GetRecipeRating(ctx context.Context, recipeID int) (*RatingSummary, error) {
	// The backend answers with the pair [average, count]
	var pair []float64
	if _, err := c.Get(ctx, pathf("recipes", recipeID, "rating"), &pair); err != nil {
		return nil, fmt.Errorf("failed to get rating of recipe %d: %w", recipeID, err)
	}

	summary := &RatingSummary{}
	if len(pair) > 0 {
		summary.Average = pair[0]
	}
	if len(pair) > 1 {
		summary.Count = int64(pair[1])
	}
	return summary, nil
}

// GetUserRating returns username's rating of a recipe, or nil if there is none
func (c *Client) GetUserRating(ctx context.Context, recipeID int, username string) (*Rating, error) {
	var rating *Rating
	if _, err := c.Get(ctx, pathf("ratings", recipeID, username), &rating); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	if rating != nil && rating.Rating == 0 {
		return nil, nil
	}
	return rating, nil
}

// RateRecipe records username's first rating of a recipe
func (c *Client) RateRecipe(ctx context.Context, recipeID int, username string, rating Rating) (*Rating, error) {
	var created Rating
	if _, err := c.Post(ctx, pathf("ratings", "add", recipeID, username), rating, &created); err != nil {
		return nil, fmt.Errorf("failed to rate recipe %d: %w", recipeID, err)
	}
	return &created, nil
}

// UpdateRating changes an existing rating
func (c *Client) UpdateRating(ctx context.Context, ratingID int64, rating Rating) error {
	if _, err := c.Put(ctx, pathf("recipes", "ratings", ratingID, "update"), rating, nil); err != nil {
		return fmt.Errorf("failed to update rating %d: %w", ratingID, err)
	}
	return nil
}

// DeleteRecipeRatings removes every rating of a recipe
func (c *Client) DeleteRecipeRatings(ctx context.Context, recipeID int) error {
	if _, err := c.Delete(ctx, pathf("recipes", recipeID, "ratings"), nil); err != nil {
		return fmt.Errorf("failed to delete ratings of recipe %d: %w", recipeID, err)
	}
	return nil
}
