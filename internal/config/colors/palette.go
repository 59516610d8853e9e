package colors

// palette holds the Kanagawa colors used by the dragon, wave and lotus presets
var palette = struct {
	// Wave
	fujiWhite, fujiGray, oldWhite                                  string
	sumiInk1, sumiInk2, sumiInk3, sumiInk4, sumiInk5, sumiInk6    string
	waveBlue1, waveBlue2, waveAqua2                               string
	winterBlue, winterYellow, winterRed, winterGreen              string
	oniViolet, crystalBlue, springGreen, peachRed, carpYellow     string
	samuraiRed, roninYellow, surimiOrange, sakuraPink, springBlue string

	// Dragon
	dragonBlack1, dragonBlack3, dragonBlack4, dragonBlack5, dragonBlack6 string
	dragonWhite, dragonAsh, dragonGray                                   string
	dragonViolet, dragonBlue, dragonBlue2, dragonAqua                    string
	dragonGreen2, dragonRed, dragonYellow, dragonOrange                  string

	// Lotus
	lotusInk1, lotusWhite0, lotusWhite2, lotusWhite3, lotusWhite4 string
	lotusViolet1, lotusViolet4, lotusGray3                        string
	lotusBlue1, lotusBlue2, lotusBlue4, lotusAqua, lotusTeal3     string
	lotusGreen, lotusRed, lotusRed3, lotusRed4                    string
	lotusOrange2, lotusYellow4                                    string
}{
	fujiWhite: "#DCD7BA", fujiGray: "#727169", oldWhite: "#C8C093",
	sumiInk1: "#181820", sumiInk2: "#1A1A22", sumiInk3: "#1F1F28",
	sumiInk4: "#2A2A37", sumiInk5: "#363646", sumiInk6: "#54546D",
	waveBlue1: "#223249", waveBlue2: "#2D4F67", waveAqua2: "#7AA89F",
	winterBlue: "#252535", winterYellow: "#49443C", winterRed: "#43242B", winterGreen: "#2B3328",
	oniViolet: "#957FB8", crystalBlue: "#7E9CD8", springGreen: "#98BB6C",
	peachRed: "#FF5D62", carpYellow: "#E6C384",
	samuraiRed: "#E82424", roninYellow: "#FF9E3B", surimiOrange: "#FFA066",
	sakuraPink: "#D27E99", springBlue: "#7FB4CA",

	dragonBlack1: "#12120F", dragonBlack3: "#181616", dragonBlack4: "#282727",
	dragonBlack5: "#393836", dragonBlack6: "#625E5A",
	dragonWhite: "#C5C9C5", dragonAsh: "#737C73", dragonGray: "#A6A69C",
	dragonViolet: "#8992A7", dragonBlue: "#658594", dragonBlue2: "#8BA4B0", dragonAqua: "#8EA4A2",
	dragonGreen2: "#8A9A7B", dragonRed: "#C4746E", dragonYellow: "#C4B28A", dragonOrange: "#B6927B",

	lotusInk1: "#545464", lotusWhite0: "#D5CEA3", lotusWhite2: "#E5DDB0",
	lotusWhite3: "#F2ECBC", lotusWhite4: "#E7DBA0",
	lotusViolet1: "#A09CAC", lotusViolet4: "#624C83", lotusGray3: "#8A8980",
	lotusBlue1: "#C7D7E0", lotusBlue2: "#B5CBD2", lotusBlue4: "#4D699B",
	lotusAqua: "#597B75", lotusTeal3: "#5A7785",
	lotusGreen: "#6F894E", lotusRed: "#C84053", lotusRed3: "#E82424", lotusRed4: "#D9A594",
	lotusOrange2: "#E98A00", lotusYellow4: "#F9D791",
}
