package colors

// Dragon returns the Kanagawa Dragon color scheme (dark theme with warm earth tones)
func Dragon() *ColorScheme {
	return &ColorScheme{
		Preset: "dragon",

		Accent: palette.dragonViolet,

		Create: palette.dragonGreen2,
		Edit:   palette.dragonBlue2,
		Delete: palette.dragonRed,

		Border:     palette.dragonBlack6,
		HeaderFg:   palette.dragonYellow,
		HeaderBg:   palette.dragonBlack4,
		FocusBg:    palette.dragonBlack5,
		SelectedBg: palette.dragonBlack4,
		EditingBg:  palette.dragonBlack3,
		DropTarget: palette.roninYellow,
		Presence:   palette.dragonOrange,

		Title:  palette.dragonBlue2,
		Subtle: palette.dragonAsh,
		Normal: palette.dragonWhite,

		InfoFg:    palette.dragonBlue,
		InfoBg:    palette.winterBlue,
		WarningFg: palette.roninYellow,
		WarningBg: palette.winterYellow,
		ErrorFg:   palette.samuraiRed,
		ErrorBg:   palette.winterRed,

		StatusBarBg:   palette.dragonViolet, // Matches accent
		StatusBarText: palette.dragonBlack1,
	}
}
