package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/culinarycompanion/culinary/internal/cli/output"
)

type recipeList []client.Recipe

func (l recipeList) Table() *output.Table {
	t := &output.Table{
		Headers: []string{"ID", "TITLE", "AUTHOR", "INGREDIENTS", "CREATED"},
		Empty:   "No recipes found",
	}
	for _, r := range l {
		t.AddRow(strconv.Itoa(r.RecipeID), r.Title, r.UserEmail,
			strconv.Itoa(len(r.Ingredients)), shortDate(r.CreatedDate))
	}
	return t
}

type recipeDetails struct {
	Recipe     *client.Recipe        `json:"recipe" yaml:"recipe"`
	Rating     *client.RatingSummary `json:"rating" yaml:"rating"`
	UserRating *client.Rating        `json:"userRating,omitempty" yaml:"userRating,omitempty"`
}

func (d recipeDetails) Table() *output.Table {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	r := d.Recipe
	t.AddRow("ID", strconv.Itoa(r.RecipeID))
	t.AddRow("Title", r.Title)
	t.AddRow("Author", r.UserEmail)
	t.AddRow("Description", r.Description)
	for i, ing := range r.Ingredients {
		label := ""
		if i == 0 {
			label = "Ingredients"
		}
		t.AddRow(label, formatQuantity(ing.Quantity, ing.Unit)+" "+ing.Ingredient.Name)
	}
	t.AddRow("Instructions", oneLine(r.Instructions))
	if d.Rating != nil {
		if d.Rating.Count == 0 {
			t.AddRow("Rating", "not yet rated")
		} else {
			t.AddRow("Rating", fmt.Sprintf("%s %.1f (%d ratings)", stars(int64(d.Rating.Average+0.5)), d.Rating.Average, d.Rating.Count))
		}
	}
	if d.UserRating != nil {
		t.AddRow("Your rating", stars(d.UserRating.Rating))
	}
	return t
}

type ingredientList []client.Ingredient

func (l ingredientList) Table() *output.Table {
	t := &output.Table{Headers: []string{"ID", "NAME"}, Empty: "No ingredients found"}
	for _, i := range l {
		t.AddRow(strconv.Itoa(i.IngredientID), i.Name)
	}
	return t
}

type pantryList []client.PantryItem

func (l pantryList) Table() *output.Table {
	t := &output.Table{Headers: []string{"INGREDIENT", "QUANTITY"}, Empty: "Your pantry is empty"}
	for _, p := range l {
		t.AddRow(p.Ingredient.Name, formatQuantity(p.Quantity, p.Unit))
	}
	return t
}

type recommendationList []client.Recommendation

func (l recommendationList) Table() *output.Table {
	t := &output.Table{
		Headers: []string{"TITLE", "DESCRIPTION"},
		Empty:   "No recommendations found at this time",
	}
	for _, r := range l {
		t.AddRow(r.Title, truncate(oneLine(r.Description), 60))
	}
	return t
}

func formatQuantity(qty int64, unit client.CookingUnit) string {
	if abbr := unit.Abbreviation(); abbr != "" {
		return fmt.Sprintf("%d %s", qty, abbr)
	}
	return strconv.FormatInt(qty, 10)
}

func stars(n int64) string {
	n = max(0, min(n, 5))
	return strings.Repeat("★", int(n)) + strings.Repeat("☆", int(5-n))
}

// shortDate trims an ISO timestamp to its date
func shortDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
