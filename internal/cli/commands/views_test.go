package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStars(t *testing.T) {
	assert.Equal(t, "☆☆☆☆☆", stars(0))
	assert.Equal(t, "★★★☆☆", stars(3))
	assert.Equal(t, "★★★★★", stars(5))
	assert.Equal(t, "★★★★★", stars(9))
	assert.Equal(t, "☆☆☆☆☆", stars(-1))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2 cup", formatQuantity(2, client.Cup))
	assert.Equal(t, "8 fl oz", formatQuantity(8, client.FluidOunce))
	assert.Equal(t, "3", formatQuantity(3, ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ééé…", truncate("éééééé", 4))
}

func TestShortDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", shortDate("2024-03-01T10:00:00"))
	assert.Equal(t, "", shortDate(""))
}

func TestParseRecipeID(t *testing.T) {
	id, err := parseRecipeID("12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	for _, bad := range []string{"", "abc", "0", "-3", "1.5"} {
		_, err := parseRecipeID(bad)
		assert.Error(t, err, bad)
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	got := tokenExpiry(token)
	require.NotNil(t, got)
	assert.True(t, exp.Equal(*got))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("k"))
	require.NoError(t, err)
	assert.Nil(t, tokenExpiry(noExp))
	assert.Nil(t, tokenExpiry("not-a-jwt"))
}

func TestRecipeDetailsTable(t *testing.T) {
	details := recipeDetails{
		Recipe: &client.Recipe{
			RecipeID:     7,
			Title:        "Soup",
			Instructions: "Boil\n\nserve",
			Ingredients: []client.RecipeIngredient{
				{Ingredient: client.Ingredient{Name: "water"}, Quantity: 1, Unit: client.Liter},
				{Ingredient: client.Ingredient{Name: "salt"}, Quantity: 1, Unit: client.Teaspoon},
			},
		},
		Rating:     &client.RatingSummary{Average: 3.6, Count: 5},
		UserRating: &client.Rating{Rating: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, details.Table().Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "1 l water")
	assert.Contains(t, out, "1 tsp salt")
	assert.Contains(t, out, "Boil serve")
	assert.Contains(t, out, "★★★★☆ 3.6 (5 ratings)")
	assert.Contains(t, out, "★★☆☆☆")
}
