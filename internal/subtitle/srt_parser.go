package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// parsed SRT file whose cue text can be rewritten in place
type SRTFile struct {
	cues []Cue
}

var srtTimestampRegex = regexp.MustCompile(
	`(\d{2,}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2}),(\d{3})`,
)

// ParseSRTFile reads an SRT file into cues. Blocks are separated by blank
// lines; each block is an index line, a timestamp line, and one or more
// text lines. A UTF-8 BOM on the first line is tolerated.
func ParseSRTFile(path string) (*SRTFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer file.Close()

	var cues []Cue
	scanner := bufio.NewScanner(file)

	var current *Cue
	var haveTimes bool
	lineNum := 0

	flush := func() {
		if current != nil && len(current.Lines) > 0 {
			cues = append(cues, *current)
		}
		current = nil
		haveTimes = false
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			index, err := strconv.Atoi(strings.TrimSpace(line))
			if err == nil {
				current = &Cue{Index: index}
				continue
			}
		}

		if current != nil && !haveTimes {
			matches := srtTimestampRegex.FindStringSubmatch(line)
			if len(matches) == 9 {
				start, err := parseSRTTimestamp(
					matches[1], matches[2], matches[3], matches[4],
				)
				if err != nil {
					return nil, fmt.Errorf(
						"invalid start timestamp at line %d: %w",
						lineNum,
						err,
					)
				}
				end, err := parseSRTTimestamp(
					matches[5], matches[6], matches[7], matches[8],
				)
				if err != nil {
					return nil, fmt.Errorf(
						"invalid end timestamp at line %d: %w",
						lineNum,
						err,
					)
				}
				current.Start = start
				current.End = end
				haveTimes = true
				continue
			}
		}

		if current != nil {
			current.Lines = append(current.Lines, line)
		}
	}

	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return &SRTFile{cues: cues}, nil
}

func parseSRTTimestamp(hours, minutes, seconds, millis string) (float64, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}

	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, nil
}

func (f *SRTFile) Format() Format {
	return FormatSRT
}

func (f *SRTFile) Cues() []Cue {
	return f.cues
}

// Text returns the cue's lines joined with newlines.
func (f *SRTFile) Text(index int) (string, error) {
	if index < 0 || index >= len(f.cues) {
		return "", fmt.Errorf(
			"index %d out of range (0-%d)",
			index,
			len(f.cues)-1,
		)
	}
	return strings.Join(f.cues[index].Lines, "\n"), nil
}

// SetText replaces the cue's lines, splitting text on newlines.
func (f *SRTFile) SetText(index int, text string) error {
	if index < 0 || index >= len(f.cues) {
		return fmt.Errorf(
			"index %d out of range (0-%d)",
			index,
			len(f.cues)-1,
		)
	}
	f.cues[index].Lines = strings.Split(text, "\n")
	return nil
}

func (f *SRTFile) Write(path string) error {
	return NewSRTWriter(nil).WriteFile(path, f.cues)
}
