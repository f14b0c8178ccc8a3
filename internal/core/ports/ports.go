package ports

import (
	"context"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
)

// RelayService is the driving port consumed by the HTTP handlers.
type RelayService interface {
	CheckHealth(ctx context.Context) domain.HealthStatus
	ResolveInfo(ctx context.Context, rawURL string) (*domain.MediaInfo, error)
	Download(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error)
}

// Extractor is the extraction strategy: either the local yt-dlp tool or the
// remote Cobalt API. Exactly one implementation is wired in at startup.
type Extractor interface {
	// Resolve asks the collaborator for available formats and metadata.
	Resolve(ctx context.Context, rawURL string) (*domain.MediaInfo, error)

	// Download produces the media as a byte stream. The result's Stream must
	// be closed by the caller; closing removes any scratch artifact.
	Download(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error)

	// Probe reports whether the collaborator is reachable on the host.
	Probe(ctx context.Context) bool
}

// Transcoder is the merging/re-encoding collaborator. The relay never invokes
// it directly (the extraction tool does), so only availability is of interest.
type Transcoder interface {
	Probe(ctx context.Context) bool
}
