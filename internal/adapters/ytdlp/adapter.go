// Package ytdlp is the local-tool extraction strategy: it shells out to the
// yt-dlp binary for metadata and downloads.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/config"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/ports"
)

const (
	infoTimeout     = 30 * time.Second
	downloadTimeout = 300 * time.Second
	probeTimeout    = 10 * time.Second

	// Caps on collaborator output. Metadata dumps for long videos run to a
	// few MB; anything past these bounds is treated as a failure.
	maxInfoOutput     = 10 << 20
	maxDownloadOutput = 100 << 20
)

type ytDlpAdapter struct {
	path       string
	scratchDir string
	cfg        *config.Config
	log        *zap.Logger
}

func NewYtDlpAdapter(cfg *config.Config, log *zap.Logger) ports.Extractor {
	return &ytDlpAdapter{
		path:       cfg.YtDlpPath,
		scratchDir: cfg.ScratchDir,
		cfg:        cfg,
		log:        log,
	}
}

func (a *ytDlpAdapter) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, a.path, "--version").Run() == nil
}

func (a *ytDlpAdapter) Resolve(ctx context.Context, rawURL string) (*domain.MediaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, infoTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.path, "-J", "--no-playlist", "--no-warnings", rawURL)
	stdout := &boundedBuffer{max: maxInfoOutput}
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrExtraction, diagnostic(ctx, err, stderr.String()))
	}

	var raw rawInfo
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("%w: unparsable yt-dlp output: %v", domain.ErrExtraction, err)
	}

	return normalize(&raw, rawURL), nil
}

func (a *ytDlpAdapter) Download(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	if req.FormatID == "" {
		return nil, fmt.Errorf("%w: formatId is required", domain.ErrInvalidInput)
	}

	selector := req.FormatID
	if req.AudioFormatID != "" {
		selector = req.FormatID + "+" + req.AudioFormatID
	}

	name := domain.SanitizeFilename(req.Title)
	if name == "" {
		name = "video"
	}
	dest := filepath.Join(a.scratchDir, fmt.Sprintf("%s_%s.mp4", name, uuid.NewString()[:8]))

	args := []string{
		"-f", selector,
		"--merge-output-format", "mp4",
		"-o", dest,
		"--no-playlist",
		"--no-warnings",
	}
	args = append(args, a.cfg.BypassArgs(domain.DetectPlatform(req.URL))...)
	args = append(args, req.URL)

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.path, args...)
	output := &boundedBuffer{max: maxDownloadOutput}
	cmd.Stdout = output
	cmd.Stderr = output

	a.log.Info("invoking yt-dlp", zap.String("selector", selector), zap.String("dest", dest))

	if err := cmd.Run(); err != nil {
		// A killed or failed run may leave a partial file behind.
		if rmErr := os.Remove(dest); rmErr != nil && !os.IsNotExist(rmErr) {
			a.log.Warn("failed to remove partial file", zap.String("path", dest), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrDownloadFailed, diagnostic(ctx, err, output.String()))
	}

	stat, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp completed but file missing", domain.ErrDownloadFailed)
	}

	f, err := os.Open(dest)
	if err != nil {
		return nil, fmt.Errorf("%w: opening output: %v", domain.ErrDownloadFailed, err)
	}

	return &domain.DownloadResult{
		Stream:   &deleteOnCloseFile{File: f, log: a.log},
		Filename: filepath.Base(dest),
		Size:     stat.Size(),
	}, nil
}

// diagnostic turns a subprocess failure into a message carrying the
// collaborator's own output, with timeouts called out explicitly.
func diagnostic(ctx context.Context, err error, output string) string {
	if ctx.Err() == context.DeadlineExceeded {
		return "yt-dlp timed out"
	}
	if tail := lastLines(output, 5); tail != "" {
		return tail
	}
	return err.Error()
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// boundedBuffer is a bytes.Buffer that refuses writes past max, failing the
// subprocess copy instead of growing without bound.
type boundedBuffer struct {
	buf bytes.Buffer
	max int64
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	if int64(b.buf.Len())+int64(len(p)) > b.max {
		return 0, fmt.Errorf("output exceeds %d bytes", b.max)
	}
	return b.buf.Write(p)
}

func (b *boundedBuffer) Bytes() []byte  { return b.buf.Bytes() }
func (b *boundedBuffer) String() string { return b.buf.String() }

// deleteOnCloseFile removes the scratch file when the response stream closes.
// Removal failure is logged, never surfaced.
type deleteOnCloseFile struct {
	*os.File
	log *zap.Logger
}

func (d *deleteOnCloseFile) Close() error {
	path := d.File.Name()
	err := d.File.Close()
	if rmErr := os.Remove(path); rmErr != nil {
		d.log.Warn("failed to remove scratch file", zap.String("path", path), zap.Error(rmErr))
	}
	return err
}
