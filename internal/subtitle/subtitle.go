package subtitle

import (
	"fmt"
	"io"

	"github.com/syncsub/syncsub/internal/logging"
)

// minimum duration in seconds given to a cue whose time window collapsed
const MinCueDuration = 0.1

// represents a timed span of transcribed text, times in seconds
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// span length in seconds
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// ordered transcript for one piece of media
type TranscriptSet struct {
	Language string
	Segments []Segment
}

// represents a display-ready subtitle block
type Cue struct {
	Index int
	Start float64
	End   float64
	Lines []string
}

// segmentation limits applied uniformly to every segment
type Options struct {
	MaxCharsPerLine int     // per-line character cap
	MaxDuration     float64 // per-cue duration cap in seconds
	MaxLines        int     // per-cue line cap
}

func DefaultOptions() Options {
	return Options{
		MaxCharsPerLine: 80,
		MaxDuration:     7.0,
		MaxLines:        2,
	}
}

// total character budget for one cue
func (o Options) MaxCombinedChars() int {
	return o.MaxCharsPerLine * o.MaxLines
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
)

// interface for serializing cues to an output stream
type Writer interface {
	Write(w io.Writer, cues []Cue) error
	WriteFile(path string, cues []Cue) error
}

// NewWriter returns the writer for the given format. SRT is the only
// variant today; a new format means a new constant and a new branch here.
// An empty format defaults to SRT.
func NewWriter(format Format, logger *logging.Logger) (Writer, error) {
	switch format {
	case FormatSRT, "":
		return NewSRTWriter(logger), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
