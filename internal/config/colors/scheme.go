package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome", "wave")
	Preset string `yaml:"preset"`

	// Primary accent color (used for the title, focus ring and highlights)
	Accent string `yaml:"accent"`

	// Semantic colors
	Create string `yaml:"create"` // Green - new items, checked boxes
	Edit   string `yaml:"edit"`   // Blue - cell editor
	Delete string `yaml:"delete"` // Red - delete confirmations

	// Grid element colors
	Border     string `yaml:"border"`
	HeaderFg   string `yaml:"header_fg"`
	HeaderBg   string `yaml:"header_bg"`
	FocusBg    string `yaml:"focus_bg"`
	SelectedBg string `yaml:"selected_bg"`
	EditingBg  string `yaml:"editing_bg"`
	DropTarget string `yaml:"drop_target"`
	Presence   string `yaml:"presence"` // Markers for cells other users are editing

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Muted/placeholder text
	Normal string `yaml:"normal"`

	// Notification colors (foreground/background pairs)
	InfoFg    string `yaml:"info_fg"`
	InfoBg    string `yaml:"info_bg"`
	WarningFg string `yaml:"warning_fg"`
	WarningBg string `yaml:"warning_bg"`
	ErrorFg   string `yaml:"error_fg"`
	ErrorBg   string `yaml:"error_bg"`

	// Status bar
	StatusBarBg   string `yaml:"status_bar_bg"`
	StatusBarText string `yaml:"status_bar_text"`
}

// Presets lists the built-in scheme names
var Presets = []string{"default", "monochrome", "wave", "dragon", "lotus"}

// GetPreset returns a preset color scheme by name. Unknown names fall back
// to the default scheme.
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	case "wave":
		return Wave()
	case "dragon":
		return Dragon()
	case "lotus":
		return Lotus()
	default:
		return Default()
	}
}

// fields lists every color slot, for bulk defaulting and merging
func (c *ColorScheme) fields() []*string {
	return []*string{
		&c.Accent, &c.Create, &c.Edit, &c.Delete,
		&c.Border, &c.HeaderFg, &c.HeaderBg, &c.FocusBg, &c.SelectedBg,
		&c.EditingBg, &c.DropTarget, &c.Presence,
		&c.Title, &c.Subtle, &c.Normal,
		&c.InfoFg, &c.InfoBg, &c.WarningFg, &c.WarningBg, &c.ErrorFg, &c.ErrorBg,
		&c.StatusBarBg, &c.StatusBarText,
	}
}

// ApplyDefaults fills in missing color values using the preset as base.
// Custom values always win over the preset.
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	if c.Preset == "" {
		c.Preset = preset.Preset
	}

	dst, src := c.fields(), preset.fields()
	for i := range dst {
		if *dst[i] == "" {
			*dst[i] = *src[i]
		}
	}
}

// MergeFrom copies every non-empty value of other over c. A preset in other
// replaces the base preset; ApplyDefaults still fills the remaining gaps.
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	if other.Preset != "" && other.Preset != c.Preset {
		*c = *GetPreset(other.Preset)
	}

	dst, src := c.fields(), other.fields()
	for i := range dst {
		if *src[i] != "" {
			*dst[i] = *src[i]
		}
	}
}
