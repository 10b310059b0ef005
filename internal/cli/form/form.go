// Package form parses and validates user input before it is sent to the API.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the CLI's custom rules registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("cookingunit", func(fl validator.FieldLevel) bool {
			return client.CookingUnit(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Validate checks s against its validate tags and returns a readable error
func Validate(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "cookingunit":
		return fmt.Sprintf("%s '%v' is not a cooking unit", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed '%s' validation", field, fe.Tag())
	}
}

// fieldPath drops the top-level struct name: "Recipe.Ingredients[0].Unit" -> "ingredients[0].unit"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

// IngredientLine is a parsed --ingredient value
type IngredientLine struct {
	Name     string
	Quantity int64
	Unit     client.CookingUnit // empty when the unit was omitted
}

// ParseIngredient parses "name:quantity[:unit]", e.g. "flour:2:cup" or
// "milk:8:fl oz". The name may itself contain colons.
func ParseIngredient(s string) (IngredientLine, error) {
	var line IngredientLine

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return line, fmt.Errorf("invalid ingredient '%s', expected name:quantity[:unit]", s)
	}

	// Try name:quantity:unit first, then name:quantity
	if len(parts) >= 3 {
		if qty, err := parseQuantity(parts[len(parts)-2]); err == nil {
			unit, err := client.ParseCookingUnit(parts[len(parts)-1])
			if err != nil {
				return line, err
			}
			line.Name = strings.TrimSpace(strings.Join(parts[:len(parts)-2], ":"))
			line.Quantity = qty
			line.Unit = unit
			return line, line.check(s)
		}
	}

	qty, err := parseQuantity(parts[len(parts)-1])
	if err != nil {
		return line, fmt.Errorf("invalid quantity in ingredient '%s': %w", s, err)
	}
	line.Name = strings.TrimSpace(strings.Join(parts[:len(parts)-1], ":"))
	line.Quantity = qty
	return line, line.check(s)
}

func (l IngredientLine) check(raw string) error {
	if l.Name == "" {
		return fmt.Errorf("invalid ingredient '%s': name is empty", raw)
	}
	return nil
}

func parseQuantity(s string) (int64, error) {
	qty, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("'%s' is not a whole number", strings.TrimSpace(s))
	}
	if qty <= 0 {
		return 0, fmt.Errorf("quantity must be greater than 0")
	}
	return qty, nil
}

// RecipeIngredient converts the line for a recipe request
func (l IngredientLine) RecipeIngredient() client.RecipeIngredient {
	return client.RecipeIngredient{
		Ingredient: client.Ingredient{Name: l.Name},
		Quantity:   l.Quantity,
		Unit:       l.Unit,
	}
}

// PantryItem converts the line for a pantry request
func (l IngredientLine) PantryItem() client.PantryItem {
	return client.PantryItem{
		Ingredient: client.Ingredient{Name: l.Name},
		Quantity:   l.Quantity,
		Unit:       l.Unit,
	}
}
