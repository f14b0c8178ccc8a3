package services

import (
	"context"
	"fmt"
	"net/url"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/ports"
)

type relayService struct {
	extractor  ports.Extractor
	transcoder ports.Transcoder
	log        *zap.Logger
}

func NewRelayService(extractor ports.Extractor, transcoder ports.Transcoder, log *zap.Logger) ports.RelayService {
	return &relayService{
		extractor:  extractor,
		transcoder: transcoder,
		log:        log,
	}
}

// CheckHealth probes both collaborators independently. A failed probe is a
// false flag in the result, never an error.
func (s *relayService) CheckHealth(ctx context.Context) domain.HealthStatus {
	return domain.HealthStatus{
		Status:              "ok",
		ExtractorAvailable:  s.extractor.Probe(ctx),
		TranscoderAvailable: s.transcoder.Probe(ctx),
		Platform:            runtime.GOOS,
	}
}

func (s *relayService) ResolveInfo(ctx context.Context, rawURL string) (*domain.MediaInfo, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	info, err := s.extractor.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	info.Title = domain.SanitizeFilename(info.Title)
	return info, nil
}

func (s *relayService) Download(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	if err := validateURL(req.URL); err != nil {
		return nil, err
	}

	result, err := s.extractor.Download(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Filename = AttachmentFilename(req.Title)
	return result, nil
}

// AttachmentFilename builds the Content-Disposition filename: sanitized title
// plus a uniqueness token plus ".mp4".
func AttachmentFilename(title string) string {
	name := domain.SanitizeFilename(title)
	if name == "" {
		name = "video"
	}
	return fmt.Sprintf("%s_%s.mp4", name, uuid.NewString()[:8])
}

// validateURL requires a well-formed absolute http(s) URL. Anything else is
// rejected before any outbound call is made.
func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: invalid url", domain.ErrInvalidInput)
	}
	return nil
}
