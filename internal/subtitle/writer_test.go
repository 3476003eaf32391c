package subtitle

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewWriter(t *testing.T) {
	if _, err := NewWriter(FormatSRT, nil); err != nil {
		t.Errorf("srt: %v", err)
	}
	if _, err := NewWriter("", nil); err != nil {
		t.Errorf("empty format: %v", err)
	}
	if _, err := NewWriter("vtt", nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSRTWriterLayout(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 0, End: 2.5, Lines: []string{"Hello world"}},
		{Index: 2, Start: 2.5, End: 6, Lines: []string{"Second cue", "with two lines"}},
	}

	var buf bytes.Buffer
	if err := NewSRTWriter(nil).Write(&buf, cues); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:02,500\n" +
		"Hello world\n" +
		"\n" +
		"2\n" +
		"00:00:02,500 --> 00:00:06,000\n" +
		"Second cue\n" +
		"with two lines\n" +
		"\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSRTWriterReassignsIndexes(t *testing.T) {
	// stale or duplicate indexes on the cues are ignored
	cues := []Cue{
		{Index: 7, Start: 0, End: 1, Lines: []string{"a"}},
		{Index: 7, Start: 1, End: 2, Lines: []string{"b"}},
		{Index: 0, Start: 2, End: 3, Lines: []string{"c"}},
	}

	var buf bytes.Buffer
	if err := NewSRTWriter(nil).Write(&buf, cues); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	parsed := mustParseSRT(t, buf.Bytes())
	for i, cue := range parsed {
		if cue.Index != i+1 {
			t.Errorf("cue %d: index %d, want %d", i, cue.Index, i+1)
		}
	}
}

func TestSRTWriterPadsDegenerateCue(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 5, End: 5, Lines: []string{"hi"}},
	}

	var buf bytes.Buffer
	if err := NewSRTWriter(nil).Write(&buf, cues); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "1\n" +
		"00:00:05,000 --> 00:00:05,100\n" +
		"hi\n" +
		"\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSRTWriterEmptyCues(t *testing.T) {
	var buf bytes.Buffer
	if err := NewSRTWriter(nil).Write(&buf, nil); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty output, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSRTWriterFailure(t *testing.T) {
	cues := []Cue{{Index: 1, Start: 0, End: 1, Lines: []string{"a"}}}

	err := NewSRTWriter(nil).Write(failingWriter{}, cues)
	if err == nil {
		t.Fatal("expected error")
	}

	var fe *FormattingError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormattingError, got %T", err)
	}
}

func TestSRTWriterWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.srt")

	cues := []Cue{
		{Index: 1, Start: 0, End: 1.5, Lines: []string{"round trip"}},
	}
	if err := NewSRTWriter(nil).WriteFile(path, cues); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	parsed, err := ParseSRTFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	got := parsed.Cues()
	if len(got) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(got))
	}
	if got[0].Start != 0 || got[0].End != 1.5 {
		t.Errorf("times: %g-%g", got[0].Start, got[0].End)
	}
	if got[0].Lines[0] != "round trip" {
		t.Errorf("text: %q", got[0].Lines)
	}
}

func TestSRTWriterWriteFileBadDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := NewSRTWriter(nil).WriteFile(
		filepath.Join(blocker, "sub", "out.srt"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var fe *FormattingError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormattingError, got %T", err)
	}
	if fe.Path == "" {
		t.Error("expected path on error")
	}
}

func mustParseSRT(t *testing.T, data []byte) []Cue {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parse.srt")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	f, err := ParseSRTFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return f.Cues()
}
