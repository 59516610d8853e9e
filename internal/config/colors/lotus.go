package colors

// Lotus returns the Kanagawa Lotus color scheme (light theme with cream/paper background)
func Lotus() *ColorScheme {
	return &ColorScheme{
		Preset: "lotus",

		Accent: palette.lotusViolet4,

		Create: palette.lotusGreen,
		Edit:   palette.lotusBlue4,
		Delete: palette.lotusRed,

		Border:     palette.lotusViolet1,
		HeaderFg:   palette.lotusBlue4,
		HeaderBg:   palette.lotusWhite2,
		FocusBg:    palette.lotusBlue2,
		SelectedBg: palette.lotusBlue1,
		EditingBg:  palette.lotusWhite3,
		DropTarget: palette.lotusOrange2,
		Presence:   palette.lotusRed,

		Title:  palette.lotusBlue4,
		Subtle: palette.lotusGray3,
		Normal: palette.lotusInk1,

		InfoFg:    palette.lotusTeal3,
		InfoBg:    palette.lotusBlue2,
		WarningFg: palette.lotusOrange2,
		WarningBg: palette.lotusYellow4,
		ErrorFg:   palette.lotusRed3,
		ErrorBg:   palette.lotusRed4,

		StatusBarBg:   palette.lotusWhite4,
		StatusBarText: palette.lotusInk1,
	}
}
