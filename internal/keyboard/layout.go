// Package keyboard detects on-screen keyboard regions in screenshot OCR
// output using spatial row-clustering and position-based validation.
package keyboard

import "strings"

// Layout holds the physical key arrangement and chrome vocabulary the
// classifier matches against. Build it once at startup and pass it in;
// it is never mutated after construction.
type Layout struct {
	rows     []string
	keyChars map[rune]bool
	trigrams map[string]bool
	uiLabels map[string]bool
}

// NewQWERTYLayout builds a Layout for the standard three-row QWERTY
// arrangement plus digits 0-9. The chrome vocabulary covers the labels
// iOS and Android keyboards render around the keys.
func NewQWERTYLayout() *Layout {
	rows := []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

	uiLabels := []string{
		"space", "return", "enter", "shift", "delete", "backspace",
		"go", "send", "search", "next", "done", "abc", "123",
		"@", "#+=", ".?123", "emoji", "?123", "english",
	}

	l := &Layout{
		rows:     rows,
		keyChars: make(map[rune]bool),
		trigrams: make(map[string]bool),
		uiLabels: make(map[string]bool),
	}

	for _, row := range rows {
		for _, c := range row {
			l.keyChars[c] = true
		}
		// Every 3-character horizontally-adjacent run within a row.
		for i := 0; i+3 <= len(row); i++ {
			l.trigrams[row[i:i+3]] = true
		}
	}
	for c := '0'; c <= '9'; c++ {
		l.keyChars[c] = true
	}
	for _, label := range uiLabels {
		l.uiLabels[label] = true
	}
	return l
}

// IsKey reports whether the text is a single keyboard letter or digit.
func (l *Layout) IsKey(text string) bool {
	c := []rune(strings.ToLower(strings.TrimSpace(text)))
	return len(c) == 1 && l.keyChars[c[0]]
}

// IsUIElement reports whether the text exactly matches a keyboard chrome
// label like "space" or "return".
func (l *Layout) IsUIElement(text string) bool {
	return l.uiLabels[strings.ToLower(strings.TrimSpace(text))]
}

// KeySequenceLength returns the character count of text if it looks like
// several adjacent keys the OCR engine merged into one block (e.g. "qwe"),
// and 0 otherwise.
//
// Two guards keep natural-language words out:
//  1. Length 3-10: real merged key blocks are short.
//  2. Purity: every character must be a keyboard letter or digit.
//
// Beyond the guards, some 3-character substring must be horizontally
// adjacent on a QWERTY row, which ordinary words almost never are.
func (l *Layout) KeySequenceLength(text string) int {
	cleaned := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "")
	runes := []rune(cleaned)
	n := len(runes)
	if n < 3 || n > 10 {
		return 0
	}
	for _, c := range runes {
		if !l.keyChars[c] {
			return 0
		}
	}
	for i := 0; i+3 <= n; i++ {
		if l.trigrams[string(runes[i:i+3])] {
			return n
		}
	}
	return 0
}
