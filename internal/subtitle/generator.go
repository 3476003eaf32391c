package subtitle

import (
	"strings"
)

// Generator turns a transcript into display-ready cues by running every
// segment through a fixed pipeline: duration split, then character split
// on each resulting piece, then a final line wrap. Each stage is a pure
// function; the generator only composes them and assigns indexes.
type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	return &Generator{opts: opts}
}

func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultOptions())
}

// Generate converts the transcript's segments into an ordered cue
// sequence obeying the configured limits. Input order is preserved, so
// cue start times are non-decreasing whenever the input is. Segments with
// no usable words are dropped without error.
func (g *Generator) Generate(ts *TranscriptSet) []Cue {
	if ts == nil {
		return nil
	}

	maxCombined := g.opts.MaxCombinedChars()

	var cues []Cue
	index := 1
	for _, seg := range ts.Segments {
		if strings.TrimSpace(seg.Text) == "" {
			continue
		}

		// every duration-split piece goes through the character split:
		// word-count division does not guarantee char-budget compliance
		for _, piece := range SplitByDuration(seg, g.opts.MaxDuration) {
			for _, block := range SplitByChars(piece, maxCombined, g.opts.MaxLines) {
				lines := WrapLines(
					strings.Split(block.Text, "\n"),
					g.opts.MaxCharsPerLine,
					g.opts.MaxLines,
				)
				if len(lines) == 0 {
					continue
				}

				cues = append(cues, Cue{
					Index: index,
					Start: block.Start,
					End:   block.End,
					Lines: lines,
				})
				index++
			}
		}
	}

	return cues
}
