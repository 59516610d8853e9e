package notifications

import (
	"github.com/thenoetrevino/tabla/internal/tui/state"
	"github.com/thenoetrevino/tabla/internal/tui/theme"
)

// Severity represents the severity level of a notification
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// FromLevel maps a stored notification level to a severity
func FromLevel(level state.NotificationLevel) Severity {
	switch level {
	case state.LevelWarning:
		return Warning
	case state.LevelError:
		return Error
	default:
		return Info
	}
}

type style struct {
	icon       string
	foreground string
	background string
}

func (s Severity) style() style {
	switch s {
	case Warning:
		return style{icon: "⚠", foreground: theme.WarningFg, background: theme.WarningBg}
	case Error:
		return style{icon: "✕", foreground: theme.ErrorFg, background: theme.ErrorBg}
	default:
		return style{icon: "🔔", foreground: theme.InfoFg, background: theme.InfoBg}
	}
}
