package domain

import "strings"

// Platform identifies the hosting site of a media URL.
type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformTwitter   Platform = "Twitter"
	PlatformFacebook  Platform = "Facebook"
	PlatformUnknown   Platform = "Unknown"
)

// platformMarkers maps host substrings to platforms. Order matters only in
// that the first match wins.
var platformMarkers = []struct {
	marker   string
	platform Platform
}{
	{"youtube.com", PlatformYouTube},
	{"youtu.be", PlatformYouTube},
	{"instagram.com", PlatformInstagram},
	{"tiktok.com", PlatformTikTok},
	{"twitter.com", PlatformTwitter},
	{"x.com", PlatformTwitter},
	{"facebook.com", PlatformFacebook},
	{"fb.watch", PlatformFacebook},
}

// DetectPlatform classifies a raw URL by substring match. It never fails;
// anything unrecognized is PlatformUnknown.
func DetectPlatform(rawURL string) Platform {
	lower := strings.ToLower(rawURL)
	for _, m := range platformMarkers {
		if strings.Contains(lower, m.marker) {
			return m.platform
		}
	}
	return PlatformUnknown
}
