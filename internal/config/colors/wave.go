package colors

// Wave returns the Kanagawa Wave color scheme (dark theme with blue/purple accents)
func Wave() *ColorScheme {
	return &ColorScheme{
		Preset: "wave",

		Accent: palette.oniViolet,

		Create: palette.springGreen,
		Edit:   palette.crystalBlue,
		Delete: palette.peachRed,

		Border:     palette.sumiInk6,
		HeaderFg:   palette.springBlue,
		HeaderBg:   palette.sumiInk4,
		FocusBg:    palette.waveBlue2,
		SelectedBg: palette.waveBlue1,
		EditingBg:  palette.sumiInk5,
		DropTarget: palette.carpYellow,
		Presence:   palette.surimiOrange,

		Title:  palette.crystalBlue,
		Subtle: palette.fujiGray,
		Normal: palette.fujiWhite,

		InfoFg:    palette.dragonBlue,
		InfoBg:    palette.winterBlue,
		WarningFg: palette.roninYellow,
		WarningBg: palette.winterYellow,
		ErrorFg:   palette.samuraiRed,
		ErrorBg:   palette.winterRed,

		StatusBarBg:   palette.sumiInk4,
		StatusBarText: palette.oldWhite,
	}
}
