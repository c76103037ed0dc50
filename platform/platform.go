package platform

import (
	"net/url"
	"regexp"
	"strings"

	"post-archiver/domain/model"
	"post-archiver/infrastructure/logger"
)

// Hostname patterns in detection order; first match wins. Threads is
// listed before Instagram so threads.net/threads.com never falls
// through to the instagram pattern family.
var hostPatterns = []struct {
	platform model.Platform
	re       *regexp.Regexp
}{
	{model.PlatformThreads, regexp.MustCompile(`(?i)(^|\.)threads\.(net|com)$`)},
	{model.PlatformFacebook, regexp.MustCompile(`(?i)(^|\.)(facebook\.com|fb\.watch|fb\.com)$`)},
	{model.PlatformLinkedIn, regexp.MustCompile(`(?i)(^|\.)linkedin\.com$`)},
	{model.PlatformInstagram, regexp.MustCompile(`(?i)(^|\.)(instagram\.com|instagr\.am)$`)},
	{model.PlatformTikTok, regexp.MustCompile(`(?i)(^|\.)tiktok\.com$`)},
	{model.PlatformX, regexp.MustCompile(`(?i)(^|\.)(x\.com|twitter\.com)$`)},
}

// Canonical post path shapes per platform. A miss is logged, never fatal:
// upstream accepts plenty of URL variants we do not enumerate here.
var knownPaths = map[model.Platform]*regexp.Regexp{
	model.PlatformFacebook:  regexp.MustCompile(`/(posts|videos|reel|watch|photo|story\.php|permalink\.php|share)`),
	model.PlatformLinkedIn:  regexp.MustCompile(`^/(posts|pulse|feed/update)/`),
	model.PlatformInstagram: regexp.MustCompile(`^/(p|reel|reels|tv)/`),
	model.PlatformTikTok:    regexp.MustCompile(`/(video|photo)/`),
	model.PlatformX:         regexp.MustCompile(`/status/`),
	model.PlatformThreads:   regexp.MustCompile(`/post/`),
}

// Detect maps a URL to its platform by hostname. Exactly one platform
// matches any supported hostname; no match is fatal.
func Detect(rawURL string) (model.Platform, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Hostname() == "" {
		return "", &model.UnsupportedPlatformError{URL: rawURL}
	}
	host := u.Hostname()
	for _, p := range hostPatterns {
		if p.re.MatchString(host) {
			return p.platform, nil
		}
	}
	return "", &model.UnsupportedPlatformError{URL: rawURL}
}

// NormalizeURL strips tracking query parameters and fragments before a
// provider request is built. Normalization never blocks a request: any
// parse failure returns the input unchanged.
func NormalizeURL(rawURL string, platform model.Platform) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		logger.GetLogger().WithField("url", rawURL).WithField("error", err).Warn("URL normalization failed, forwarding as-is")
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""

	if re, ok := knownPaths[platform]; ok && !re.MatchString(u.Path) {
		logger.GetLogger().
			WithField("url", rawURL).
			WithField("platform", string(platform)).
			Warn("URL path does not match a known post shape")
	}
	return u.String()
}
