package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"post-archiver/domain/model"
	"post-archiver/platform"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected model.Platform
	}{
		{"facebook post", "https://www.facebook.com/zuck/posts/10102577175875681", model.PlatformFacebook},
		{"facebook short video", "https://fb.watch/abc123/", model.PlatformFacebook},
		{"linkedin post", "https://www.linkedin.com/posts/satyanadella_ai-activity-7123456789", model.PlatformLinkedIn},
		{"instagram reel", "https://www.instagram.com/reel/Cxyz123/", model.PlatformInstagram},
		{"instagram short domain", "https://instagr.am/p/Cxyz123/", model.PlatformInstagram},
		{"tiktok video", "https://www.tiktok.com/@user/video/7123456789", model.PlatformTikTok},
		{"x post", "https://x.com/jack/status/20", model.PlatformX},
		{"legacy twitter domain", "https://twitter.com/jack/status/20", model.PlatformX},
		{"threads post", "https://www.threads.net/@user/post/Cxyz123", model.PlatformThreads},
		{"threads new domain", "https://www.threads.com/@user/post/Cxyz123", model.PlatformThreads},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := platform.Detect(tt.url)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestDetectUnsupported(t *testing.T) {
	for _, url := range []string{
		"https://www.youtube.com/watch?v=abc",
		"https://example.com/post/1",
		"not a url at all",
		"",
	} {
		_, err := platform.Detect(url)
		assert.Error(t, err)
		assert.IsType(t, &model.UnsupportedPlatformError{}, err)
	}
}

// A hostname must never match two platforms; detection order only breaks
// ties that would otherwise be ambiguous.
func TestDetectExclusive(t *testing.T) {
	urls := map[string]model.Platform{
		"https://threads.net/@a/post/1":         model.PlatformThreads,
		"https://m.facebook.com/a/posts/1":      model.PlatformFacebook,
		"https://mobile.twitter.com/a/status/1": model.PlatformX,
	}
	for url, expected := range urls {
		p, err := platform.Detect(url)
		assert.NoError(t, err, url)
		assert.Equal(t, expected, p, url)
	}
}

func TestNormalizeURLStripsTracking(t *testing.T) {
	got := platform.NormalizeURL("https://x.com/jack/status/20?s=20&t=tracker", model.PlatformX)
	assert.Equal(t, "https://x.com/jack/status/20", got)

	got = platform.NormalizeURL("https://www.instagram.com/p/Cxyz/?igshid=abc#frag", model.PlatformInstagram)
	assert.Equal(t, "https://www.instagram.com/p/Cxyz/", got)
}

func TestNormalizeURLIdempotent(t *testing.T) {
	once := platform.NormalizeURL("https://www.tiktok.com/@user/video/7123?lang=en", model.PlatformTikTok)
	twice := platform.NormalizeURL(once, model.PlatformTikTok)
	assert.Equal(t, once, twice)
}

func TestNormalizeURLNeverBlocks(t *testing.T) {
	// An unparseable URL is forwarded unchanged.
	raw := "https://x.com/%zz"
	assert.Equal(t, raw, platform.NormalizeURL(raw, model.PlatformX))
}
