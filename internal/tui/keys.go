package tui

import (
	"unicode"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/thenoetrevino/tabla/internal/config"
	"github.com/thenoetrevino/tabla/internal/grid/focus"
)

// keyMap holds the application bindings from the config. Grid navigation
// and editing keys belong to the engine and are listed for help only.
type keyMap struct {
	AddItem         key.Binding
	DeleteItem      key.Binding
	MoveItemUp      key.Binding
	MoveItemDown    key.Binding
	Undo            key.Binding
	MoveColumnLeft  key.Binding
	MoveColumnRight key.Binding
	WidenColumn     key.Binding
	NarrowColumn    key.Binding
	Sort            key.Binding
	ToggleGroup     key.Binding
	CycleGroupBy    key.Binding
	Filter          key.Binding
	ClearFilter     key.Binding
	NextBoard       key.Binding
	PrevBoard       key.Binding
	Refresh         key.Binding
	ShowHelp        key.Binding
	Quit            key.Binding

	// Engine keys, for the help view
	Navigate key.Binding
	Edit     key.Binding
	Detail   key.Binding
	Select   key.Binding
	Copy     key.Binding
	Clear    key.Binding
}

func binding(k, help string) key.Binding {
	return key.NewBinding(key.WithKeys(k), key.WithHelp(k, help))
}

func newKeyMap(km config.KeyMappings) keyMap {
	return keyMap{
		AddItem:         binding(km.AddItem, "add item"),
		DeleteItem:      binding(km.DeleteItem, "delete item"),
		MoveItemUp:      binding(km.MoveItemUp, "move item up"),
		MoveItemDown:    binding(km.MoveItemDown, "move item down"),
		Undo:            binding(km.Undo, "undo"),
		MoveColumnLeft:  binding(km.MoveColumnLeft, "column left"),
		MoveColumnRight: binding(km.MoveColumnRight, "column right"),
		WidenColumn:     binding(km.WidenColumn, "widen column"),
		NarrowColumn:    binding(km.NarrowColumn, "narrow column"),
		Sort:            binding(km.Sort, "sort"),
		ToggleGroup:     binding(km.ToggleGroup, "collapse group"),
		CycleGroupBy:    binding(km.CycleGroupBy, "group by"),
		Filter:          binding(km.Filter, "filter"),
		ClearFilter:     binding(km.ClearFilter, "clear filters"),
		NextBoard:       binding(km.NextBoard, "next board"),
		PrevBoard:       binding(km.PrevBoard, "prev board"),
		Refresh:         binding(km.Refresh, "reload"),
		ShowHelp:        binding(km.ShowHelp, "help"),
		Quit:            binding(km.Quit, "quit"),

		Navigate: key.NewBinding(key.WithKeys("up", "down", "left", "right", "tab"), key.WithHelp("←↓↑→/tab", "move")),
		Edit:     key.NewBinding(key.WithKeys("enter", "f2"), key.WithHelp("enter/f2/type", "edit")),
		Detail:   key.NewBinding(key.WithKeys("shift+enter"), key.WithHelp("shift+enter", "details")),
		Select:   key.NewBinding(key.WithKeys("space", "ctrl+a"), key.WithHelp("space/ctrl+a", "select")),
		Copy:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+v"), key.WithHelp("ctrl+c/v", "copy/paste")),
		Clear:    key.NewBinding(key.WithKeys("delete", "backspace"), key.WithHelp("del", "clear cell")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.AddItem, k.Filter, k.Sort, k.Undo, k.ShowHelp, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Navigate, k.Edit, k.Detail, k.Select, k.Copy, k.Clear},
		{k.AddItem, k.DeleteItem, k.MoveItemUp, k.MoveItemDown, k.Undo},
		{k.MoveColumnLeft, k.MoveColumnRight, k.WidenColumn, k.NarrowColumn, k.Sort},
		{k.ToggleGroup, k.CycleGroupBy, k.Filter, k.ClearFilter},
		{k.NextBoard, k.PrevBoard, k.Refresh, k.ShowHelp, k.Quit},
	}
}

// toFocusKey translates a terminal key press into the engine's key type.
// It reports false for keys the engine has no use for.
func toFocusKey(msg tea.KeyPressMsg) (focus.Key, bool) {
	k := msg.Key()
	fk := focus.Key{
		Ctrl:  k.Mod.Contains(tea.ModCtrl),
		Alt:   k.Mod.Contains(tea.ModAlt),
		Shift: k.Mod.Contains(tea.ModShift),
		Meta:  k.Mod.Contains(tea.ModMeta) || k.Mod.Contains(tea.ModSuper),
	}

	switch k.Code {
	case tea.KeyUp:
		fk.Code = focus.KeyUp
	case tea.KeyDown:
		fk.Code = focus.KeyDown
	case tea.KeyLeft:
		fk.Code = focus.KeyLeft
	case tea.KeyRight:
		fk.Code = focus.KeyRight
	case tea.KeyTab:
		fk.Code = focus.KeyTab
	case tea.KeyEnter:
		fk.Code = focus.KeyEnter
	case tea.KeyEscape:
		fk.Code = focus.KeyEscape
	case tea.KeyF2:
		fk.Code = focus.KeyF2
	case tea.KeyDelete:
		fk.Code = focus.KeyDelete
	case tea.KeyBackspace:
		fk.Code = focus.KeyBackspace
	case tea.KeySpace:
		fk.Code = focus.KeySpace
	case tea.KeyHome:
		fk.Code = focus.KeyHome
	case tea.KeyEnd:
		fk.Code = focus.KeyEnd
	case tea.KeyPgUp:
		fk.Code = focus.KeyPageUp
	case tea.KeyPgDown:
		fk.Code = focus.KeyPageDown
	default:
		r := []rune(k.Text)
		switch {
		case len(r) == 1:
			fk.Code, fk.Rune = focus.KeyRune, r[0]
		case len(r) == 0 && unicode.IsPrint(k.Code):
			fk.Code, fk.Rune = focus.KeyRune, k.Code
		default:
			return focus.Key{}, false
		}
	}
	return fk, true
}
