package cli

import "testing"

func TestExtractOutputPath(t *testing.T) {
	tests := []struct {
		path   string
		format string
		want   string
	}{
		{"video.mp4", "wav", "video.wav"},
		{"/media/clip.final.mkv", "mp3", "/media/clip.final.mp3"},
		{"movie.MOV", "flac", "movie.flac"},
		{"noext", "wav", "noext.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := extractOutputPath(tt.path, tt.format); got != tt.want {
				t.Errorf(
					"extractOutputPath(%q, %q) = %q, want %q",
					tt.path,
					tt.format,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestValidAudioFormats(t *testing.T) {
	for _, format := range []string{"wav", "mp3", "aac", "flac"} {
		if !validAudioFormats[format] {
			t.Errorf("format %q should be accepted", format)
		}
	}
	for _, format := range []string{"", "ogg", "WAV", "m4a"} {
		if validAudioFormats[format] {
			t.Errorf("format %q should be rejected", format)
		}
	}
}
