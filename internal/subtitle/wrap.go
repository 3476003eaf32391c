package subtitle

import (
	"strings"
	"unicode/utf8"
)

// WrapLines re-wraps any line longer than maxCharsPerLine with a greedy
// word wrap and truncates the result to maxLines. Lines already within the
// limit pass through untouched. A single word longer than the limit stays
// intact on its own line; words are never broken.
//
// This is a second, independent pass over SplitByChars: that stage packs
// against the combined cue budget, this one enforces the strict per-line
// limit used for final rendering.
func WrapLines(lines []string, maxCharsPerLine, maxLines int) []string {
	var out []string
	for _, line := range lines {
		if utf8.RuneCountInString(line) <= maxCharsPerLine {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line, maxCharsPerLine)...)
	}

	if len(out) > maxLines {
		out = out[:maxLines]
	}
	return out
}

func wrapLine(line string, maxCharsPerLine int) []string {
	var wrapped []string
	var current string

	for _, word := range strings.Fields(line) {
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= maxCharsPerLine:
			current += " " + word
		default:
			wrapped = append(wrapped, current)
			current = word
		}
	}
	if current != "" {
		wrapped = append(wrapped, current)
	}

	return wrapped
}
