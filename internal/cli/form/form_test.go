package form

import (
	"testing"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    IngredientLine
		wantErr string
	}{
		{
			name:  "name quantity unit",
			input: "flour:2:cup",
			want:  IngredientLine{Name: "flour", Quantity: 2, Unit: client.Cup},
		},
		{
			name:  "unit with space",
			input: "milk:8:fl oz",
			want:  IngredientLine{Name: "milk", Quantity: 8, Unit: client.FluidOunce},
		},
		{
			name:  "enum unit name",
			input: "sugar:1:TABLESPOON",
			want:  IngredientLine{Name: "sugar", Quantity: 1, Unit: client.Tablespoon},
		},
		{
			name:  "unit omitted",
			input: "eggs:3",
			want:  IngredientLine{Name: "eggs", Quantity: 3},
		},
		{
			name:  "colon in name",
			input: "salt:pepper:1",
			want:  IngredientLine{Name: "salt:pepper", Quantity: 1},
		},
		{name: "missing quantity", input: "flour", wantErr: "expected name:quantity[:unit]"},
		{name: "bad quantity", input: "flour:lots", wantErr: "is not a whole number"},
		{name: "zero quantity", input: "flour:0:cup", wantErr: "invalid quantity"},
		{name: "unknown unit", input: "flour:2:bucket", wantErr: "unknown cooking unit 'bucket'"},
		{name: "empty name", input: ":2:cup", wantErr: "name is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIngredient(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Recipe(t *testing.T) {
	valid := client.Recipe{
		Title:        "Pancakes",
		Description:  "Fluffy",
		Instructions: "Mix and fry",
		Ingredients: []client.RecipeIngredient{
			{Ingredient: client.Ingredient{Name: "flour"}, Quantity: 2, Unit: client.Cup},
		},
	}
	assert.NoError(t, Validate(valid))

	missing := valid
	missing.Title = ""
	missing.Instructions = ""
	err := Validate(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "instructions is required")

	badUnit := valid
	badUnit.Ingredients = []client.RecipeIngredient{
		{Ingredient: client.Ingredient{Name: "flour"}, Quantity: 2, Unit: "BUCKET"},
	}
	err = Validate(badUnit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingredients[0].unit 'BUCKET' is not a cooking unit")
}

func TestValidate_Rating(t *testing.T) {
	assert.NoError(t, Validate(client.Rating{Rating: 5}))

	err := Validate(client.Rating{Rating: 6})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating must be at most 5")

	err = Validate(client.Rating{Rating: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating must be at least 1")
}

func TestValidate_PantryItem(t *testing.T) {
	err := Validate(client.PantryItem{Ingredient: client.Ingredient{Name: "rice"}, Quantity: 0, Unit: client.Gram})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity must be greater than 0")
}
