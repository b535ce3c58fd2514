package layout

import "sort"

// Theme identifiers.
const (
	ThemeStorefront = "storefront"
	ThemeBackOffice = "back_office"
	DefaultTheme    = ThemeStorefront
)

// ThemeDefinition describes the visual theme applied to a page shell.
type ThemeDefinition struct {
	ID          string
	Label       string
	Description string
	BodyClass   string
	AccentClass string
}

var themeRegistry = map[string]ThemeDefinition{
	ThemeStorefront: {
		ID:          ThemeStorefront,
		Label:       "Storefront",
		Description: "Dark canvas with red call-to-action accents.",
		BodyClass:   "min-h-screen bg-neutral-950 text-neutral-100",
		AccentClass: "text-red-500",
	},
	ThemeBackOffice: {
		ID:          ThemeBackOffice,
		Label:       "Back office",
		Description: "Neutral slate surfaces for inventory work.",
		BodyClass:   "min-h-screen bg-slate-900 text-slate-100",
		AccentClass: "text-amber-400",
	},
}

// ThemeByID returns a definition for the provided identifier, falling back to the default theme.
func ThemeByID(id string) ThemeDefinition {
	if def, ok := themeRegistry[id]; ok {
		return def
	}
	return themeRegistry[DefaultTheme]
}

// ThemeOptions exposes all theme definitions sorted by label.
func ThemeOptions() []ThemeDefinition {
	options := make([]ThemeDefinition, 0, len(themeRegistry))
	for _, def := range themeRegistry {
		options = append(options, def)
	}
	sort.Slice(options, func(i, j int) bool {
		return options[i].Label < options[j].Label
	})
	return options
}
