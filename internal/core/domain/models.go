package domain

import "io"

// MediaInfo is the normalized metadata summary returned by the info resolver.
// It is constructed per request and never persisted.
type MediaInfo struct {
	Title         string         `json:"title"`
	Thumbnail     string         `json:"thumbnail,omitempty"`
	Duration      string         `json:"duration"`
	Uploader      string         `json:"uploader"`
	Platform      Platform       `json:"platform"`
	Formats       []FormatOption `json:"formats"`
	AudioFormatID string         `json:"audioFormatId,omitempty"`

	// Set by the Cobalt strategy: the resolved direct link the client should
	// echo back in its download request instead of a format id.
	DownloadURL string `json:"downloadUrl,omitempty"`
	UseCobalt   bool   `json:"useCobalt,omitempty"`
}

// FormatOption describes one downloadable format. FormatID is the extraction
// collaborator's identifier and is opaque to this service.
type FormatOption struct {
	FormatID   string  `json:"formatId"`
	Quality    string  `json:"quality"` // e.g. "1080p"
	Resolution string  `json:"resolution"`
	FPS        float64 `json:"fps"`
	Size       string  `json:"size"` // human readable, "Unknown" if absent
	Ext        string  `json:"ext"`
	HasAudio   bool    `json:"hasAudio"`
}

// DownloadRequest is the payload of POST /api/download.
type DownloadRequest struct {
	URL           string `json:"url"`
	FormatID      string `json:"formatId"`
	AudioFormatID string `json:"audioFormatId"`
	Title         string `json:"title"`
	DownloadURL   string `json:"downloadUrl"`
	UseCobalt     bool   `json:"useCobalt"`
}

// DownloadResult is a ready-to-stream download. Closing Stream releases every
// resource the download holds, including any scratch file on disk.
type DownloadResult struct {
	Stream   io.ReadCloser
	Filename string
	// Size is the byte length when known, -1 otherwise.
	Size int64
}

// HealthStatus reports collaborator availability on the host.
type HealthStatus struct {
	Status              string `json:"status"`
	ExtractorAvailable  bool   `json:"extractorAvailable"`
	TranscoderAvailable bool   `json:"transcoderAvailable"`
	Platform            string `json:"hostPlatform"`
}
