package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/syncsub/syncsub/internal/logging"
)

// FormattingError reports a failure while serializing cues to the output
// stream. The write is aborted on the first failure; the file may be left
// truncated for the caller to handle.
type FormattingError struct {
	Path string
	Err  error
}

func (e *FormattingError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("formatting %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("formatting subtitles: %v", e.Err)
}

func (e *FormattingError) Unwrap() error {
	return e.Err
}

// SubRip format
type SRTWriter struct {
	logger *logging.Logger
}

func NewSRTWriter(logger *logging.Logger) *SRTWriter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &SRTWriter{logger: logger}
}

// Write serializes the cues to w in SRT layout: index, timestamp range,
// text lines, blank separator. Indexes are reassigned sequentially from 1
// at write time, ignoring whatever the cues carried. A cue whose end does
// not come strictly after its start is padded by MinCueDuration with a
// logged warning, never written as-is.
func (w *SRTWriter) Write(out io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(out)

	index := 1
	for _, cue := range cues {
		start, end := cue.Start, cue.End
		if end <= start {
			w.logger.Warnw("Cue has zero or negative duration, padding end time",
				"index", index,
				"start", FormatTimestamp(start),
				"end", FormatTimestamp(end),
			)
			end = start + MinCueDuration
		}

		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n",
			index,
			FormatTimestamp(start),
			FormatTimestamp(end),
		); err != nil {
			return &FormattingError{Err: err}
		}

		for _, line := range cue.Lines {
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return &FormattingError{Err: err}
			}
		}

		if _, err := fmt.Fprintln(bw); err != nil {
			return &FormattingError{Err: err}
		}
		index++
	}

	if err := bw.Flush(); err != nil {
		return &FormattingError{Err: err}
	}
	return nil
}

// WriteFile writes the cues to path, creating parent directories as
// needed. The file handle is released on every exit path.
func (w *SRTWriter) WriteFile(path string, cues []Cue) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &FormattingError{Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &FormattingError{Path: path, Err: err}
	}

	if err := w.Write(f, cues); err != nil {
		_ = f.Close()
		if fe, ok := err.(*FormattingError); ok {
			fe.Path = path
		}
		return err
	}

	if err := f.Close(); err != nil {
		return &FormattingError{Path: path, Err: err}
	}
	return nil
}
