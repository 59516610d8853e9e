package focus

import "unicode"

// KeyCode identifies a non-printable key or marks a printable rune
type KeyCode int

const (
	KeyRune KeyCode = iota // Printable character in Key.Rune
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyTab
	KeyEnter
	KeyEscape
	KeyF2
	KeyDelete
	KeyBackspace
	KeySpace
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// Key is a front-end independent keyboard event. Front ends translate their
// native events (terminal key presses, DOM events) into Key values.
type Key struct {
	Code  KeyCode
	Rune  rune
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool // Cmd on macOS
}

// Command reports whether the platform command modifier (Ctrl or Cmd) is held
func (k Key) Command() bool {
	return k.Ctrl || k.Meta
}

// Printable reports whether the key types a character with no command
// modifier. Shift is allowed so capitals start an edit.
func (k Key) Printable() bool {
	return k.Code == KeyRune && !k.Ctrl && !k.Meta && !k.Alt && unicode.IsPrint(k.Rune) && k.Rune != ' '
}

// chord reports a command+letter shortcut such as Ctrl+C
func (k Key) chord(r rune) bool {
	return k.Code == KeyRune && k.Command() && unicode.ToLower(k.Rune) == r
}
