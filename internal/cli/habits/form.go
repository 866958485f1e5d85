package habits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusday/internal/models"
)

type habitFormModel struct {
	Title       string
	Description string
	Icon        string
	Color       string
}

func newHabitForm(fm *habitFormModel) *huh.Form {
	icons := make([]huh.Option[string], 0, len(models.IconOptions))
	for _, icon := range models.IconOptions {
		icons = append(icons, huh.NewOption(icon.Glyph+"  "+icon.Name, icon.Key))
	}
	colors := make([]huh.Option[string], 0, len(models.ColorOptions))
	for _, color := range models.ColorOptions {
		colors = append(colors, huh.NewOption(color.Name, color.Hex))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit title cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[string]().
				Title("Icon").
				Options(icons...).
				Value(&fm.Icon),
			huh.NewSelect[string]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
		),
	).WithTheme(huh.ThemeDracula())
}
