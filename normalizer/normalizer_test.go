package normalizer_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"post-archiver/domain/model"
	"post-archiver/normalizer"
)

func record(t *testing.T, jsonBody string) map[string]any {
	t.Helper()
	var raw map[string]any
	assert.NoError(t, json.Unmarshal([]byte(jsonBody), &raw))
	return raw
}

func TestParsePostDispatch(t *testing.T) {
	for _, p := range model.Platforms {
		post, err := normalizer.ParsePost(p, map[string]any{}, "https://example.invalid/x")
		assert.NoError(t, err)
		assert.Equal(t, p, post.Platform)
	}

	_, err := normalizer.ParsePost("myspace", map[string]any{}, "https://example.invalid/x")
	assert.Error(t, err)
	assert.IsType(t, &model.UnsupportedPlatformError{}, err)
}

// A totally empty record still produces a usable post: zero counters,
// the request URL, and an Unknown author.
func TestParsePostEmptyRecord(t *testing.T) {
	url := "https://x.com/jack/status/20"
	post, err := normalizer.ParsePost(model.PlatformX, map[string]any{}, url)
	assert.NoError(t, err)
	assert.Equal(t, url, post.URL)
	assert.Equal(t, "20", post.ID)
	assert.Equal(t, "Unknown", post.Author.Name)
	assert.Zero(t, post.Metadata.Likes)
	assert.Empty(t, post.Media)
}

func TestParseXPostFallbackChains(t *testing.T) {
	raw := record(t, `{
		"tweet_id": "123",
		"full_text": "hello world",
		"user_posted": "jack",
		"favorite_count": "1,234",
		"retweet_count": 7,
		"views": "1.2M",
		"date_posted": "2024-03-01T10:00:00.000Z",
		"hashtags": ["go", "testing"]
	}`)
	post := normalizer.ParseXPost(raw, "https://x.com/jack/status/123")

	assert.Equal(t, "123", post.ID)
	assert.Equal(t, "hello world", post.Content.Text)
	assert.Equal(t, "jack", post.Author.Handle)
	assert.Equal(t, "jack", post.Author.Name) // name falls back to handle
	assert.Equal(t, int64(1234), post.Metadata.Likes)
	assert.Equal(t, int64(7), post.Metadata.Shares)
	assert.Equal(t, int64(1_200_000), post.Metadata.Views)
	assert.Equal(t, "2024-03-01T10:00:00Z", post.Metadata.Timestamp)
	assert.Equal(t, []string{"go", "testing"}, post.Hashtags)
	assert.Equal(t, raw, post.Raw)
}

func TestParseXPostQuotedAndReply(t *testing.T) {
	raw := record(t, `{
		"id": "2",
		"text": "replying",
		"quoted_post": {"id": "1", "text": "original", "url": "https://x.com/a/status/1"},
		"parent_post_details": {"id": "0", "text": "parent"}
	}`)
	post := normalizer.ParseXPost(raw, "https://x.com/b/status/2")

	if assert.NotNil(t, post.Quoted) {
		assert.Equal(t, "1", post.Quoted.ID)
		assert.Equal(t, "original", post.Quoted.Content.Text)
	}
	if assert.NotNil(t, post.ReplyTo) {
		assert.Equal(t, "0", post.ReplyTo.ID)
	}
}

func TestParseFacebookPostLegacyFlatMedia(t *testing.T) {
	raw := record(t, `{
		"post_id": "fb1",
		"message": "a post",
		"page_name": "Some Page",
		"likes": 10,
		"num_comments": 2,
		"video_url": "https://cdn.example/video.mp4"
	}`)
	post := normalizer.ParseFacebookPost(raw, "https://facebook.com/some/posts/fb1")

	assert.Equal(t, "fb1", post.ID)
	assert.Equal(t, "Some Page", post.Author.Name)
	assert.Equal(t, int64(10), post.Metadata.Likes)
	if assert.Len(t, post.Media, 1) {
		assert.Equal(t, "video", post.Media[0].Type)
		assert.Equal(t, "https://cdn.example/video.mp4", post.Media[0].URL)
	}
}

func TestParseInstagramCarousel(t *testing.T) {
	raw := record(t, `{
		"post_id": "ig1",
		"user_posted": "someone",
		"caption": "three photos",
		"post_content": [
			{"type": "image", "url": "https://cdn.example/1.jpg", "width": 1080},
			{"type": "image", "url": "https://cdn.example/2.jpg"},
			{"type": "video", "url": "https://cdn.example/3.mp4"}
		]
	}`)
	post := normalizer.ParseInstagramPost(raw, "https://instagram.com/p/ig1/")

	if assert.Len(t, post.Media, 3) {
		assert.Equal(t, "image", post.Media[0].Type)
		assert.Equal(t, 1080, post.Media[0].Width)
		assert.Equal(t, "video", post.Media[2].Type)
	}
}

func TestParseTikTokMusicAndCounts(t *testing.T) {
	raw := record(t, `{
		"post_id": "tt1",
		"description": "dance",
		"profile_username": "dancer",
		"digg_count": 5000,
		"play_count": "12.5K",
		"create_time": 1709290800,
		"video_url": "https://cdn.example/tt.mp4",
		"music_title": "Song",
		"music_author": "Artist"
	}`)
	post := normalizer.ParseTikTokPost(raw, "https://tiktok.com/@dancer/video/tt1")

	assert.Equal(t, int64(5000), post.Metadata.Likes)
	assert.Equal(t, int64(12500), post.Metadata.Views)
	assert.Equal(t, "2024-03-01T11:00:00Z", post.Metadata.Timestamp)
	if assert.NotNil(t, post.Music) {
		assert.Equal(t, "Song", post.Music.Title)
		assert.Equal(t, "Artist", post.Music.Artist)
	}
	if assert.Len(t, post.Media, 1) {
		assert.Equal(t, "video", post.Media[0].Type)
	}
}

func TestParseLinkedInArticleHeadlineFoldIn(t *testing.T) {
	raw := record(t, `{
		"id": "li1",
		"user_id": "Satya Nadella",
		"article": {"title": "The future of work"}
	}`)
	post := normalizer.ParseLinkedInPost(raw, "https://linkedin.com/posts/li1")

	assert.Equal(t, "The future of work", post.Content.Text)
}

func TestParseThreadsComments(t *testing.T) {
	raw := record(t, `{
		"post_id": "th1",
		"content": "thread text",
		"username": "someone",
		"top_comments": [
			{
				"username": "replier",
				"text": "nice",
				"likes": "3",
				"replies": [{"text": "nested"}]
			}
		]
	}`)
	post := normalizer.ParseThreadsPost(raw, "https://threads.net/@someone/post/th1")

	if assert.Len(t, post.Comments, 1) {
		c := post.Comments[0]
		assert.Equal(t, "replier", c.Author.Name)
		assert.Equal(t, int64(3), c.Likes)
		if assert.Len(t, c.Replies, 1) {
			assert.Equal(t, "nested", c.Replies[0].Text)
			assert.Equal(t, "Unknown", c.Replies[0].Author.Name)
		}
	}
}

// Unparseable timestamps pass through verbatim so no information is lost.
func TestTimestampPassthrough(t *testing.T) {
	raw := record(t, `{"id": "1", "date_posted": "three days ago"}`)
	post := normalizer.ParseXPost(raw, "https://x.com/a/status/1")
	assert.Equal(t, "three days ago", post.Metadata.Timestamp)
}
