package form

import (
	"fmt"
	"strings"

	"github.com/culinarycompanion/culinary/internal/cli/client"
	"github.com/manifoldco/promptui"
)

// Prompter asks the user for values the flags did not provide
type Prompter interface {
	SelectUnit(ingredient string) (client.CookingUnit, error)
	SelectStars(recipeTitle string) (int64, error)
}

// Interactive prompts on the terminal
type Interactive struct{}

type unitOption struct {
	Label string
	Unit  client.CookingUnit
}

// SelectUnit shows a unit picker for an ingredient
func (Interactive) SelectUnit(ingredient string) (client.CookingUnit, error) {
	options := make([]unitOption, len(client.CookingUnits))
	for i, u := range client.CookingUnits {
		options[i] = unitOption{
			Label: fmt.Sprintf("%s (%s)", u.FullName(), u.Abbreviation()),
			Unit:  u,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     fmt.Sprintf("Unit for %s", ingredient),
		Items:     options,
		Templates: templates,
		Size:      len(options),
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("unit selection cancelled: %w", err)
	}
	return options[index].Unit, nil
}

// SelectStars shows a 1-5 star picker
func (Interactive) SelectStars(recipeTitle string) (int64, error) {
	labels := make([]string, 5)
	for i := range labels {
		labels[i] = strings.Repeat("★", i+1) + strings.Repeat("☆", 4-i)
	}

	prompt := promptui.Select{
		Label: fmt.Sprintf("Rate %s", recipeTitle),
		Items: labels,
		Size:  len(labels),
	}

	index, _, err := prompt.Run()
	if err != nil {
		return 0, fmt.Errorf("rating cancelled: %w", err)
	}
	return int64(index + 1), nil
}
