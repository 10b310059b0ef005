package client

import (
	"context"
	"fmt"
)

// ListPantry returns the ingredients username has on hand
func (c *Client) ListPantry(ctx context.Context, username string) ([]PantryItem, error) {
	var items []PantryItem
	if _, err := c.Get(ctx, pathf("myingredients", username), &items); err != nil {
		return nil, fmt.Errorf("failed to list pantry: %w", err)
	}
	return items, nil
}

// AddPantryItems adds ingredients to username's pantry
func (c *Client) AddPantryItems(ctx context.Context, username string, items []PantryItem) ([]PantryItem, error) {
	var added []PantryItem
	if _, err := c.Post(ctx, pathf("myingredients", "batch", username), withOwner(username, items), &added); err != nil {
		return nil, fmt.Errorf("failed to add pantry items: %w", err)
	}
	return added, nil
}

// ReplacePantry replaces username's whole pantry
func (c *Client) ReplacePantry(ctx context.Context, username string, items []PantryItem) error {
	if _, err := c.Put(ctx, pathf("myingredients", username), withOwner(username, items), nil); err != nil {
		return fmt.Errorf("failed to update pantry: %w", err)
	}
	return nil
}

// RemovePantryItem removes one ingredient by name from username's pantry
func (c *Client) RemovePantryItem(ctx context.Context, username, ingredientName string) error {
	if _, err := c.Delete(ctx, pathf("myingredients", username, ingredientName), nil); err != nil {
		return fmt.Errorf("failed to remove '%s' from pantry: %w", ingredientName, err)
	}
	return nil
}

func withOwner(username string, items []PantryItem) []PantryItem {
	owned := make([]PantryItem, len(items))
	for i, item := range items {
		item.User = &PantryUser{Email: username}
		owned[i] = item
	}
	return owned
}
