package service

import (
	"regexp"
	"strconv"
	"strings"
)

// Invocation is a parsed inbound message. Either a menu choice or a textual
// command; a bare integer is always a menu choice, never a command.
type Invocation struct {
	Raw    string
	IsMenu bool
	Menu   int
	Name   string // lowercased first token, empty for menu choices
	Args   string // raw argument blob after the command keyword
}

// ordinalPrefix matches the numbered-list markers of the order form
// ("1. John Doe" -> "John Doe").
var ordinalPrefix = regexp.MustCompile(`^\s*\d+\.\s*`)

// ParseMessage tokenizes a message. Only the first whitespace-delimited
// token is a command keyword; the rest is handed to the handler untouched
// for its own delimiter-based splitting.
func ParseMessage(text string) Invocation {
	trimmed := strings.TrimSpace(text)

	if n, err := strconv.Atoi(trimmed); err == nil {
		return Invocation{Raw: text, IsMenu: true, Menu: n}
	}

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return Invocation{Raw: text}
	}

	return Invocation{
		Raw:  text,
		Name: strings.ToLower(fields[0]),
		Args: strings.TrimSpace(trimmed[len(fields[0]):]),
	}
}

// looksLikeOrder detects a free-form order submission: the first delimited
// field starts with an ordinal marker. Such text is offered to order
// creation before falling back to the help menu.
func looksLikeOrder(text string) bool {
	fields := splitFields(strings.TrimSpace(text))
	return len(fields) > 0 && ordinalPrefix.MatchString(fields[0])
}

// splitFields splits an argument blob on pipes, or semicolons when no pipe
// is present.
func splitFields(blob string) []string {
	if strings.Contains(blob, "|") {
		return strings.Split(blob, "|")
	}
	return strings.Split(blob, ";")
}

// stripOrdinal removes a leading "N. " marker from a form field.
func stripOrdinal(field string) string {
	return strings.TrimSpace(ordinalPrefix.ReplaceAllString(strings.TrimSpace(field), ""))
}
