package errors

import (
	"fmt"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

// color wraps text in ANSI color codes if colors are enabled.
func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

// Format returns a human-readable, multi-line rendering of the error for
// terminal output.
func (e *CatalystError) Format() string {
	var b strings.Builder

	header := fmt.Sprintf("ERROR %s: %s", e.Code, e.Message)
	if e.Code == "" {
		header = fmt.Sprintf("ERROR: %s", e.Message)
	}
	b.WriteString(color(colorBold+colorRed, header))
	b.WriteString("\n")

	if e.Detail != "" {
		b.WriteString("\n  ")
		b.WriteString(e.Detail)
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("\n  ")
		b.WriteString(color(colorGray, fmt.Sprintf("Caused by: %v", e.Wrapped)))
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		b.WriteString("\n  ")
		b.WriteString(color(colorYellow, "Hint: "+e.Suggestion))
		b.WriteString("\n")
	}

	if e.DocURL != "" {
		b.WriteString("\n  ")
		b.WriteString(color(colorCyan, "Learn more: "+e.DocURL))
		b.WriteString("\n")
	}

	return b.String()
}
