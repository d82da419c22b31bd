package parser

// Truncate shortens text to at most maxLen runes, ending in "..." when cut.
// A non-positive maxLen falls back to 50.
func Truncate(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 50
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
