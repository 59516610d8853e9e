package huhforms

import (
	"errors"
	"strings"

	"charm.land/huh/v2"
	"github.com/thenoetrevino/tabla/internal/models"
)

// ItemValues collects the add item form answers
type ItemValues struct {
	Name    string
	GroupID string
}

// CreateItemForm asks for the new item's name and group
func CreateItemForm(v *ItemValues, groups []models.Group) *huh.Form {
	groupOptions := make([]huh.Option[string], len(groups))
	for i, g := range groups {
		groupOptions[i] = huh.NewOption(g.Name, string(g.ID))
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("name").
			Title("New Item").
			Placeholder("Enter item name...").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}).
			Value(&v.Name),
	}
	if len(groups) > 1 {
		fields = append(fields, huh.NewSelect[string]().
			Key("group").
			Title("Group").
			Options(groupOptions...).
			Value(&v.GroupID))
	}

	return huh.NewForm(huh.NewGroup(fields...))
}

// CreateDeleteForm asks before deleting an item
func CreateDeleteForm(itemName string, confirm *bool) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Key("confirm").
			Title("Delete \"" + itemName + "\"?").
			Description("This cannot be undone.").
			Affirmative("Delete").
			Negative("Keep").
			Value(confirm),
	))
}
