package config

// KeyMappings defines all configurable key bindings. Plain printable keys
// start a cell edit while a cell is focused, so the defaults use modifier
// chords and function keys.
type KeyMappings struct {
	// Items
	AddItem      string `yaml:"add_item"`
	DeleteItem   string `yaml:"delete_item"`
	MoveItemUp   string `yaml:"move_item_up"`
	MoveItemDown string `yaml:"move_item_down"`
	Undo         string `yaml:"undo"`

	// Columns
	MoveColumnLeft  string `yaml:"move_column_left"`
	MoveColumnRight string `yaml:"move_column_right"`
	WidenColumn     string `yaml:"widen_column"`
	NarrowColumn    string `yaml:"narrow_column"`
	Sort            string `yaml:"sort"`

	// Groups and views
	ToggleGroup  string `yaml:"toggle_group"`
	CycleGroupBy string `yaml:"cycle_group_by"`
	Filter       string `yaml:"filter"`
	ClearFilter  string `yaml:"clear_filter"`

	// Boards
	NextBoard string `yaml:"next_board"`
	PrevBoard string `yaml:"prev_board"`
	Refresh   string `yaml:"refresh"`

	// Other
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		AddItem:      "ctrl+n",
		DeleteItem:   "alt+d",
		MoveItemUp:   "alt+up",
		MoveItemDown: "alt+down",
		Undo:         "ctrl+z",

		MoveColumnLeft:  "alt+left",
		MoveColumnRight: "alt+right",
		WidenColumn:     "alt+]",
		NarrowColumn:    "alt+[",
		Sort:            "alt+s",

		ToggleGroup:  "ctrl+g",
		CycleGroupBy: "alt+g",
		Filter:       "ctrl+f",
		ClearFilter:  "alt+f",

		NextBoard: "alt+.",
		PrevBoard: "alt+,",
		Refresh:   "ctrl+r",

		ShowHelp: "f1",
		Quit:     "ctrl+q",
	}
}

func (k *KeyMappings) fields() []*string {
	return []*string{
		&k.AddItem, &k.DeleteItem, &k.MoveItemUp, &k.MoveItemDown, &k.Undo,
		&k.MoveColumnLeft, &k.MoveColumnRight, &k.WidenColumn, &k.NarrowColumn, &k.Sort,
		&k.ToggleGroup, &k.CycleGroupBy, &k.Filter, &k.ClearFilter,
		&k.NextBoard, &k.PrevBoard, &k.Refresh,
		&k.ShowHelp, &k.Quit,
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()
	dst, src := k.fields(), defaults.fields()
	for i := range dst {
		if *dst[i] == "" {
			*dst[i] = *src[i]
		}
	}
}
