package client

import (
	"fmt"
	"strings"
)

// User represents a Culinary Companion user
type User struct {
	UserID   int    `json:"userId,omitempty" yaml:"userId,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	FullName string `json:"fullName" yaml:"fullName"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	JoinDate string `json:"joinDate,omitempty" yaml:"joinDate,omitempty"`
}

// Name returns the user's identity, preferring username over email
func (u User) Name() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Ingredient represents a catalog ingredient
type Ingredient struct {
	IngredientID int    `json:"ingredientId,omitempty" yaml:"ingredientId,omitempty"`
	Name         string `json:"name" yaml:"name" validate:"required"`
}

// RecipeIngredient is one line of a recipe's ingredient list
type RecipeIngredient struct {
	Ingredient Ingredient  `json:"ingredient" yaml:"ingredient"`
	Quantity   int64       `json:"quantity" yaml:"quantity" validate:"gt=0"`
	Unit       CookingUnit `json:"unit" yaml:"unit" validate:"required,cookingunit"`
}

// Recipe represents a user recipe
type Recipe struct {
	RecipeID         int                `json:"recipeId,omitempty" yaml:"recipeId,omitempty"`
	Title            string             `json:"title" yaml:"title" validate:"required"`
	Description      string             `json:"description" yaml:"description" validate:"required"`
	Instructions     string             `json:"instructions" yaml:"instructions" validate:"required"`
	UserEmail        string             `json:"userEmail,omitempty" yaml:"userEmail,omitempty"`
	Ingredients      []RecipeIngredient `json:"ingredients,omitempty" yaml:"ingredients,omitempty" validate:"dive"`
	CreatedDate      string             `json:"createdDate,omitempty" yaml:"createdDate,omitempty"`
	LastModifiedDate string             `json:"lastModifiedDate,omitempty" yaml:"lastModifiedDate,omitempty"`
}

// Rating is a single user's rating of a recipe
type Rating struct {
	RatingID int64  `json:"ratingId,omitempty" yaml:"ratingId,omitempty"`
	Rating   int64  `json:"rating" yaml:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty" validate:"max=1000"`
}

// RatingSummary is the aggregate rating of a recipe
type RatingSummary struct {
	Average float64 `json:"average" yaml:"average"`
	Count   int64   `json:"count" yaml:"count"`
}

// PantryUser identifies the owner of a pantry item
type PantryUser struct {
	Email string `json:"email" yaml:"email"`
}

// PantryItem is an ingredient the user has on hand
type PantryItem struct {
	User       *PantryUser `json:"user,omitempty" yaml:"user,omitempty"`
	Ingredient Ingredient  `json:"ingredient" yaml:"ingredient"`
	Quantity   int64       `json:"quantity" yaml:"quantity" validate:"gt=0"`
	Unit       CookingUnit `json:"unit" yaml:"unit" validate:"required,cookingunit"`
}

// Recommendation is a recipe suggested by the recommender
type Recommendation struct {
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	Ingredients  string `json:"ingredients" yaml:"ingredients"`
	Instructions string `json:"instructions" yaml:"instructions"`
}

// CookingUnit is a unit of measure understood by the backend
type CookingUnit string

const (
	Teaspoon   CookingUnit = "TEASPOON"
	Tablespoon CookingUnit = "TABLESPOON"
	Cup        CookingUnit = "CUP"
	FluidOunce CookingUnit = "FLUID_OUNCE"
	Pint       CookingUnit = "PINT"
	Quart      CookingUnit = "QUART"
	Gallon     CookingUnit = "GALLON"
	Milliliter CookingUnit = "MILLILITER"
	Liter      CookingUnit = "LITER"
	Gram       CookingUnit = "GRAM"
	Kilogram   CookingUnit = "KILOGRAM"
	Ounce      CookingUnit = "OUNCE"
	Pound      CookingUnit = "POUND"
	Count      CookingUnit = "COUNT"
)

type unitInfo struct {
	fullName     string
	abbreviation string
}

var units = map[CookingUnit]unitInfo{
	Teaspoon:   {"Teaspoon", "tsp"},
	Tablespoon: {"Tablespoon", "tbsp"},
	Cup:        {"Cup", "cup"},
	FluidOunce: {"Fluid Ounce", "fl oz"},
	Pint:       {"Pint", "pt"},
	Quart:      {"Quart", "qt"},
	Gallon:     {"Gallon", "gal"},
	Milliliter: {"Milliliter", "ml"},
	Liter:      {"Liter", "l"},
	Gram:       {"Gram", "g"},
	Kilogram:   {"Kilogram", "kg"},
	Ounce:      {"Ounce", "oz"},
	Pound:      {"Pound", "lb"},
	Count:      {"Count", "ct"},
}

// CookingUnits lists every unit in display order
var CookingUnits = []CookingUnit{
	Teaspoon, Tablespoon, Cup, FluidOunce, Pint, Quart, Gallon,
	Milliliter, Liter, Gram, Kilogram, Ounce, Pound, Count,
}

// Valid reports whether u is a known unit
func (u CookingUnit) Valid() bool {
	_, ok := units[u]
	return ok
}

// FullName returns the display name, e.g. "Fluid Ounce"
func (u CookingUnit) FullName() string {
	return units[u].fullName
}

// Abbreviation returns the short form, e.g. "fl oz"
func (u CookingUnit) Abbreviation() string {
	return units[u].abbreviation
}

// ParseCookingUnit accepts the enum name, full name or abbreviation of a
// unit, case-insensitively ("FLUID_OUNCE", "fluid ounce", "fl oz").
func ParseCookingUnit(s string) (CookingUnit, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return "", fmt.Errorf("cooking unit is empty")
	}
	for _, u := range CookingUnits {
		info := units[u]
		if needle == strings.ToLower(string(u)) ||
			needle == strings.ToLower(info.fullName) ||
			needle == info.abbreviation ||
			needle == strings.ReplaceAll(strings.ToLower(string(u)), "_", " ") {
			return u, nil
		}
	}
	return "", fmt.Errorf("unknown cooking unit '%s'", s)
}
