package subtitle

import (
	"strings"
	"unicode/utf8"
)

// tolerance factor before a segment is considered too long to display whole
const durationSplitTolerance = 1.5

// SplitByDuration splits a segment whose duration exceeds maxDuration by
// more than the tolerance margin into shorter segments. Text is divided by
// word count: each of the first n-1 chunks gets floor(words/n) words and
// the final chunk absorbs the remainder, so no word is ever lost. Each
// chunk gets an equal share of the original time window, advancing from
// the segment's start and clamped to its end.
//
// Segments within tolerance are returned unchanged. A segment with no
// usable words yields nil.
func SplitByDuration(seg Segment, maxDuration float64) []Segment {
	words := strings.Fields(seg.Text)
	if len(words) == 0 {
		return nil
	}

	duration := seg.Duration()
	if duration <= maxDuration*durationSplitTolerance {
		return []Segment{seg}
	}

	n := int(duration/maxDuration) + 1
	splitDuration := duration / float64(n)
	wordsPerChunk := len(words) / n

	out := make([]Segment, 0, n)
	current := seg.Start
	next := 0
	for i := 0; i < n; i++ {
		end := next + wordsPerChunk
		if i == n-1 || end > len(words) {
			end = len(words)
		}
		text := strings.Join(words[next:end], " ")
		next = end
		if text == "" {
			continue
		}

		chunkEnd := current + splitDuration
		if chunkEnd > seg.End {
			chunkEnd = seg.End
		}
		if chunkEnd <= current {
			chunkEnd = current + MinCueDuration
		}

		out = append(out, Segment{Start: current, End: chunkEnd, Text: text})
		current = chunkEnd
	}

	return out
}

// SplitByChars splits a segment whose text exceeds the combined character
// budget into cue-sized blocks. Words pack greedily into the current line;
// a block closes only when the next word would push the line past the
// combined budget. The per-line threshold (maxCombinedChars / maxLines) is
// a soft target during packing: a line that grows past it closes early
// while the block still has room for another line, so individual lines may
// run slightly over. WrapLines enforces the strict per-line limit later.
//
// Time is redistributed proportionally to the characters consumed by each
// block: end = start + chars * (duration / total chars), clamped to the
// segment's end and padded to MinCueDuration when the window collapses.
// The final block always ends at the segment's true end time.
//
// Returned segments carry newline-joined line blocks. Text within the
// budget is returned as a single unchanged segment.
func SplitByChars(seg Segment, maxCombinedChars, maxLines int) []Segment {
	words := strings.Fields(seg.Text)
	if len(words) == 0 {
		return nil
	}

	// whitespace-normalized view of the text, used for all char accounting
	text := strings.Join(words, " ")
	totalChars := utf8.RuneCountInString(text)
	if totalChars <= maxCombinedChars {
		return []Segment{{Start: seg.Start, End: seg.End, Text: text}}
	}

	acc := charAccumulator{
		segment:     seg,
		timePerChar: seg.Duration() / float64(totalChars),
		maxCombined: maxCombinedChars,
		perLine:     maxCombinedChars / maxLines,
		maxLines:    maxLines,
		cueStart:    seg.Start,
	}

	for _, word := range words {
		acc.add(word)
	}
	acc.flush(true)

	return acc.out
}

// charAccumulator is the word-at-a-time state machine behind SplitByChars:
// a word either extends the current line, overflows the combined budget
// and closes the whole block, or tips the line past the soft per-line
// threshold and closes just the line.
type charAccumulator struct {
	segment     Segment
	timePerChar float64
	maxCombined int
	perLine     int
	maxLines    int

	line     string
	lines    []string
	cueStart float64
	cueChars int // rune count consumed by the current block, separators included

	out []Segment
}

func (a *charAccumulator) add(word string) {
	// the combined budget decides block boundaries: a word that no longer
	// fits on the current line closes the block, not just the line
	if a.line != "" &&
		utf8.RuneCountInString(a.line)+1+utf8.RuneCountInString(word) > a.maxCombined {
		a.closeLine()
		a.flush(false)
	}

	if a.line == "" {
		a.line = word
	} else {
		a.line += " " + word
	}

	// a line past the soft threshold closes early as long as the block has
	// room for another line; the block's last line runs to the combined
	// budget instead
	if utf8.RuneCountInString(a.line) > a.perLine && len(a.lines) < a.maxLines-1 {
		a.closeLine()
	}
}

func (a *charAccumulator) closeLine() {
	// separator, whether a space within the line or a line break
	a.cueChars += utf8.RuneCountInString(a.line) + 1
	a.lines = append(a.lines, a.line)
	a.line = ""
}

// flush closes the current block and assigns its time window. The last
// block of the segment takes the segment's original end time.
func (a *charAccumulator) flush(final bool) {
	if a.line != "" {
		a.lines = append(a.lines, a.line)
		a.line = ""
	}
	if len(a.lines) == 0 {
		return
	}

	end := a.segment.End
	if !final {
		end = a.cueStart + float64(a.cueChars)*a.timePerChar
		if end > a.segment.End {
			end = a.segment.End
		}
	}
	if end <= a.cueStart {
		end = a.cueStart + MinCueDuration
	}

	a.out = append(a.out, Segment{
		Start: a.cueStart,
		End:   end,
		Text:  strings.Join(a.lines, "\n"),
	})

	a.cueStart = end
	a.cueChars = 0
	a.lines = nil
}
