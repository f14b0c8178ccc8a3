// Package cobalt is the remote-API extraction strategy: a single call to a
// Cobalt instance resolves a ready-made download link, which the relay then
// proxies byte-for-byte without touching disk.
package cobalt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/config"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/ports"
)

const (
	resolveTimeout = 30 * time.Second
	fetchTimeout   = 300 * time.Second
	probeTimeout   = 10 * time.Second
)

// request is the fixed Cobalt payload: h264/1080p mp4 with mp3 audio.
type request struct {
	URL             string `json:"url"`
	VCodec          string `json:"vCodec"`
	VQuality        string `json:"vQuality"`
	AFormat         string `json:"aFormat"`
	FilenamePattern string `json:"filenamePattern"`
	IsAudioOnly     bool   `json:"isAudioOnly"`
}

type response struct {
	Status string `json:"status"`
	URL    string `json:"url"`
	Thumb  string `json:"thumb"`
	Text   string `json:"text"`
}

type cobaltClient struct {
	apiURL string
	// fetch streams large bodies, so it carries no client-level timeout;
	// per-request contexts bound it instead.
	resolveHTTP *http.Client
	fetchHTTP   *http.Client
	log         *zap.Logger
}

func NewCobaltClient(cfg *config.Config, log *zap.Logger) ports.Extractor {
	return &cobaltClient{
		apiURL:      cfg.CobaltURL,
		resolveHTTP: &http.Client{Timeout: resolveTimeout},
		fetchHTTP:   &http.Client{},
		log:         log,
	}
}

func (c *cobaltClient) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.resolveHTTP.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

func (c *cobaltClient) Resolve(ctx context.Context, rawURL string) (*domain.MediaInfo, error) {
	body, err := json.Marshal(request{
		URL:             rawURL,
		VCodec:          "h264",
		VQuality:        "1080",
		AFormat:         "mp3",
		FilenamePattern: "basic",
		IsAudioOnly:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.resolveHTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: cobalt request failed: %v", domain.ErrExtraction, err)
	}
	defer httpResp.Body.Close()

	var resp response
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, 1<<20)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: unparsable cobalt response: %v", domain.ErrExtraction, err)
	}
	if resp.Status == "error" || resp.Status == "rate-limit" || resp.URL == "" {
		msg := resp.Text
		if msg == "" {
			msg = fmt.Sprintf("cobalt returned status %q", resp.Status)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrExtraction, msg)
	}

	// Cobalt hands back one ready-made link, so the format list is a single
	// synthetic best-available entry and the client must echo the link back.
	return &domain.MediaInfo{
		Title:     domain.TitleFromURL(rawURL),
		Thumbnail: resp.Thumb,
		Duration:  "Unknown",
		Uploader:  "Unknown",
		Platform:  domain.DetectPlatform(rawURL),
		Formats: []domain.FormatOption{{
			FormatID:   "best",
			Quality:    "Best Available",
			Resolution: "Best Available",
			Size:       "Unknown",
			Ext:        "mp4",
			HasAudio:   true,
		}},
		DownloadURL: resp.URL,
		UseCobalt:   true,
	}, nil
}

// Download proxies the pre-resolved direct link as it arrives, with no
// intermediate file.
func (c *cobaltClient) Download(ctx context.Context, req domain.DownloadRequest) (*domain.DownloadResult, error) {
	if req.DownloadURL == "" {
		return nil, fmt.Errorf("%w: downloadUrl is required", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.DownloadURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}

	resp, err := c.fetchHTTP.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: fetching direct link: %v", domain.ErrDownloadFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: direct link returned status %d", domain.ErrDownloadFailed, resp.StatusCode)
	}

	return &domain.DownloadResult{
		Stream: &cancelOnClose{ReadCloser: resp.Body, cancel: cancel},
		Size:   resp.ContentLength,
	}, nil
}

// cancelOnClose releases the fetch context once the proxy stream is done.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
