// Package theme holds the active TUI colors. Init copies them out of the
// configured color scheme once at startup.
package theme

import "github.com/thenoetrevino/tabla/internal/config"

// Colors holds the current theme colors, initialized by Init
var (
	Accent        string
	Subtle        string
	Normal        string
	Title         string
	Create        string
	Edit          string
	Delete        string
	Border        string
	HeaderFg      string
	HeaderBg      string
	FocusBg       string
	SelectedBg    string
	EditingBg     string
	DropTarget    string
	Presence      string
	InfoFg        string
	InfoBg        string
	WarningFg     string
	WarningBg     string
	ErrorFg       string
	ErrorBg       string
	StatusBarBg   string
	StatusBarText string
)

func init() {
	Init(config.DefaultColorScheme())
}

// Init initializes the theme colors from the given color scheme
func Init(colors config.ColorScheme) {
	Accent = colors.Accent
	Subtle = colors.Subtle
	Normal = colors.Normal
	Title = colors.Title
	Create = colors.Create
	Edit = colors.Edit
	Delete = colors.Delete
	Border = colors.Border
	HeaderFg = colors.HeaderFg
	HeaderBg = colors.HeaderBg
	FocusBg = colors.FocusBg
	SelectedBg = colors.SelectedBg
	EditingBg = colors.EditingBg
	DropTarget = colors.DropTarget
	Presence = colors.Presence
	InfoFg = colors.InfoFg
	InfoBg = colors.InfoBg
	WarningFg = colors.WarningFg
	WarningBg = colors.WarningBg
	ErrorFg = colors.ErrorFg
	ErrorBg = colors.ErrorBg
	StatusBarBg = colors.StatusBarBg
	StatusBarText = colors.StatusBarText
}
