// Package ffmpeg probes the transcoding tool. The relay never invokes ffmpeg
// itself; yt-dlp uses it for merging, so only availability matters here.
package ffmpeg

import (
	"context"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/ports"
)

const probeTimeout = 10 * time.Second

type ffmpegTranscoder struct {
	path string
	log  *zap.Logger
}

func NewFFmpegTranscoder(path string, log *zap.Logger) ports.Transcoder {
	return &ffmpegTranscoder{path: path, log: log}
}

// Probe runs the version command. On Windows a second attempt with an .exe
// suffix covers installs that are not on PATH under the bare name.
func (t *ffmpegTranscoder) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if exec.CommandContext(ctx, t.path, "-version").Run() == nil {
		return true
	}
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, t.path+".exe", "-version").Run() == nil
	}
	t.log.Debug("ffmpeg probe failed", zap.String("path", t.path))
	return false
}
