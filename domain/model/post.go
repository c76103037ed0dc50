package model

// Platform identifies a supported social network.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformX         Platform = "x"
	PlatformThreads   Platform = "threads"
)

// Platforms lists every supported platform in detection order.
var Platforms = []Platform{
	PlatformFacebook,
	PlatformLinkedIn,
	PlatformInstagram,
	PlatformTikTok,
	PlatformX,
	PlatformThreads,
}

// Author describes the account that published a post.
type Author struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Avatar   string `json:"avatar,omitempty"`
	Handle   string `json:"handle,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

// Content holds the textual body of a post. Text is always present,
// empty string when the upstream record carries no text.
type Content struct {
	Text string `json:"text"`
	HTML string `json:"html,omitempty"`
}

// Media is one attachment on a post. Ordering follows the upstream record.
type Media struct {
	Type      string  `json:"type"` // image | video | audio | document
	URL       string  `json:"url"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
}

// Metadata holds engagement counters and the publish timestamp.
// Counters arrive as strings from some datasets and are coerced on parse.
type Metadata struct {
	Likes     int64  `json:"likes,omitempty"`
	Comments  int64  `json:"comments,omitempty"`
	Shares    int64  `json:"shares,omitempty"`
	Views     int64  `json:"views,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Comment is a single comment on a post. Replies nest recursively.
type Comment struct {
	Author  Author    `json:"author"`
	Text    string    `json:"text"`
	Likes   int64     `json:"likes,omitempty"`
	Replies []Comment `json:"replies,omitempty"`
}

// Music describes the audio attached to short-form video posts.
type Music struct {
	Title  string `json:"title"`
	Artist string `json:"artist,omitempty"`
	URL    string `json:"url,omitempty"`
}

// PostData is the canonical archived-post entity every platform
// normalizer produces. Raw keeps the verbatim upstream record for
// debugging and reprocessing and is never mutated after parse.
type PostData struct {
	Platform Platform       `json:"platform"`
	ID       string         `json:"id"`
	URL      string         `json:"url"`
	Author   Author         `json:"author"`
	Content  Content        `json:"content"`
	Media    []Media        `json:"media"`
	Metadata Metadata       `json:"metadata"`
	Comments []Comment      `json:"comments,omitempty"`
	Hashtags []string       `json:"hashtags,omitempty"`
	Music    *Music         `json:"music,omitempty"`
	Quoted   *PostData      `json:"quoted_post,omitempty"`
	ReplyTo  *PostData      `json:"reply_to,omitempty"`
	Raw      map[string]any `json:"raw"`
}

// Analysis is the opaque result of the AI-analysis collaborator.
type Analysis struct {
	Summary   string   `json:"summary"`
	Sentiment string   `json:"sentiment"`
	Topics    []string `json:"topics"`
	FactCheck string   `json:"fact_check,omitempty"`
}
