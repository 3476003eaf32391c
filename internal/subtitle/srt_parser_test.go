package subtitle

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempSRT(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseSRTFile(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:03,500
Hello world

2
00:00:04,000 --> 00:00:06,000
Second subtitle
with two lines

3
00:00:07,250 --> 00:00:09,750
Third one
`
	f, err := ParseSRTFile(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	cues := f.Cues()
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}

	if cues[0].Start != 1 || cues[0].End != 3.5 {
		t.Errorf("cue 0 times: %g-%g", cues[0].Start, cues[0].End)
	}
	if len(cues[1].Lines) != 2 || cues[1].Lines[1] != "with two lines" {
		t.Errorf("cue 1 lines: %q", cues[1].Lines)
	}
	if cues[2].Start != 7.25 || cues[2].End != 9.75 {
		t.Errorf("cue 2 times: %g-%g", cues[2].Start, cues[2].End)
	}
}

func TestParseSRTFileBOM(t *testing.T) {
	content := "\uFEFF1\n00:00:00,000 --> 00:00:01,000\nwith bom\n"

	f, err := ParseSRTFile(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cues := f.Cues()
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Lines[0] != "with bom" {
		t.Errorf("text: %q", cues[0].Lines)
	}
}

func TestParseSRTFileLongHours(t *testing.T) {
	content := "1\n100:00:00,500 --> 100:00:02,000\nlate cue\n"

	f, err := ParseSRTFile(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	cues := f.Cues()
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Start != 360000.5 {
		t.Errorf("start: got %g, want 360000.5", cues[0].Start)
	}
}

func TestParseSRTFileMissing(t *testing.T) {
	if _, err := ParseSRTFile(filepath.Join(t.TempDir(), "nope.srt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSRTFileTextAccess(t *testing.T) {
	content := `1
00:00:00,000 --> 00:00:01,000
original text

2
00:00:01,000 --> 00:00:02,000
keep me
`
	f, err := ParseSRTFile(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	got, err := f.Text(0)
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	if got != "original text" {
		t.Errorf("text: got %q", got)
	}

	if err := f.SetText(0, "replaced\nacross lines"); err != nil {
		t.Fatalf("set text failed: %v", err)
	}
	if lines := f.Cues()[0].Lines; len(lines) != 2 || lines[0] != "replaced" {
		t.Errorf("lines after set: %q", lines)
	}

	if _, err := f.Text(5); err == nil {
		t.Error("expected out of range error")
	}
	if err := f.SetText(-1, "x"); err == nil {
		t.Error("expected out of range error")
	}
}

func TestSRTFileRoundTrip(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000
first

2
00:00:02,000 --> 00:00:03,000
second
`
	f, err := ParseSRTFile(writeTempSRT(t, content))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := f.SetText(1, "edited"); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "out.srt")
	if err := f.Write(out); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	again, err := ParseSRTFile(out)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	cues := again.Cues()
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[1].Lines[0] != "edited" {
		t.Errorf("edit lost: %q", cues[1].Lines)
	}
}
