package ytdlp

import (
	"fmt"
	"sort"

	"github.com/nayanabenlahar-beep/videodownloaderbackend/internal/core/domain"
)

const maxFormats = 5

// rawInfo matches the yt-dlp -J metadata dump. Only the fields the relay
// consumes are declared.
type rawInfo struct {
	Title     string      `json:"title"`
	Thumbnail string      `json:"thumbnail"`
	Duration  float64     `json:"duration"`
	Uploader  string      `json:"uploader"`
	Formats   []rawFormat `json:"formats"`
}

type rawFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	ABR            float64 `json:"abr"`
	TBR            float64 `json:"tbr"`
}

func (f *rawFormat) hasVideo() bool { return f.VCodec != "" && f.VCodec != "none" }
func (f *rawFormat) hasAudio() bool { return f.ACodec != "" && f.ACodec != "none" }

func (f *rawFormat) sizeLabel() string {
	if f.Filesize > 0 {
		return domain.FormatBytes(f.Filesize)
	}
	return domain.FormatBytes(f.FilesizeApprox)
}

func (f *rawFormat) audioBitrate() float64 {
	if f.ABR > 0 {
		return f.ABR
	}
	return f.TBR
}

// normalize reduces a raw metadata dump to the MediaInfo summary: video
// formats with a known codec and height, one per quality label (audio-bearing
// variant wins), sorted by descending height, capped at maxFormats. The best
// audio-only format by bitrate becomes the preferred audio companion.
func normalize(raw *rawInfo, rawURL string) *domain.MediaInfo {
	type candidate struct {
		opt    domain.FormatOption
		height int
	}
	byQuality := make(map[string]candidate)

	var bestAudioID string
	var bestAudioRate float64

	for i := range raw.Formats {
		f := &raw.Formats[i]

		if !f.hasVideo() {
			if f.hasAudio() && f.audioBitrate() > bestAudioRate {
				bestAudioID = f.FormatID
				bestAudioRate = f.audioBitrate()
			}
			continue
		}
		if f.Height <= 0 {
			continue
		}

		quality := fmt.Sprintf("%dp", f.Height)
		if prev, ok := byQuality[quality]; ok && (prev.opt.HasAudio || !f.hasAudio()) {
			continue
		}

		resolution := quality
		if f.Width > 0 {
			resolution = fmt.Sprintf("%dx%d", f.Width, f.Height)
		}
		byQuality[quality] = candidate{
			opt: domain.FormatOption{
				FormatID:   f.FormatID,
				Quality:    quality,
				Resolution: resolution,
				FPS:        f.FPS,
				Size:       f.sizeLabel(),
				Ext:        f.Ext,
				HasAudio:   f.hasAudio(),
			},
			height: f.Height,
		}
	}

	candidates := make([]candidate, 0, len(byQuality))
	for _, c := range byQuality {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].height > candidates[j].height
	})
	if len(candidates) > maxFormats {
		candidates = candidates[:maxFormats]
	}

	formats := make([]domain.FormatOption, len(candidates))
	for i, c := range candidates {
		formats[i] = c.opt
	}

	title := raw.Title
	if title == "" {
		title = domain.TitleFromURL(rawURL)
	}
	uploader := raw.Uploader
	if uploader == "" {
		uploader = "Unknown"
	}

	return &domain.MediaInfo{
		Title:         title,
		Thumbnail:     raw.Thumbnail,
		Duration:      domain.FormatDuration(raw.Duration),
		Uploader:      uploader,
		Platform:      domain.DetectPlatform(rawURL),
		Formats:       formats,
		AudioFormatID: bestAudioID,
	}
}
