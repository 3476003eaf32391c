//go:build !ffmpeg_embedded

package ffmpeg

import "io"

// no bundled binaries in this build; Ensure falls back to PATH or download
func openEmbeddedAsset(name string) (io.ReadCloser, bool, error) {
	return nil, false, nil
}
