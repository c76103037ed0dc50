package normalizer

import "post-archiver/domain/model"

// ParseXPost maps a raw X (Twitter) dataset record to PostData. Quoted
// and reply-to posts are parsed recursively when present.
func ParseXPost(raw map[string]any, url string) model.PostData {
	post := model.PostData{
		Platform: model.PlatformX,
		ID:       idFrom(raw, url, "id", "post_id", "tweet_id"),
		URL:      firstString(raw, "url", "post_url", "tweet_url"),
		Author: model.Author{
			Name:     firstString(raw, "name", "author_name", "user_name"),
			URL:      firstString(raw, "profile_url", "user_url", "author_url"),
			Avatar:   firstString(raw, "profile_image_link", "profile_image_url", "avatar"),
			Handle:   firstString(raw, "user_posted", "screen_name", "handle", "username"),
			Verified: firstBool(raw, "is_verified", "verified", "blue_verified"),
		},
		Content: model.Content{
			Text: firstString(raw, "description", "full_text", "text", "tweet_text"),
		},
		Metadata: model.Metadata{
			// Older exports carry these as strings; coerced either way.
			Likes:     firstNumber(raw, "likes", "favorite_count", "like_count"),
			Comments:  firstNumber(raw, "replies", "reply_count", "comments"),
			Shares:    firstNumber(raw, "reposts", "retweet_count", "retweets"),
			Views:     firstNumber(raw, "views", "view_count", "impressions"),
			Timestamp: timestamp(raw, "date_posted", "created_at", "timestamp"),
		},
		Hashtags: stringList(raw, "hashtags"),
		Raw:      raw,
	}
	if post.URL == "" {
		post.URL = url
	}
	if post.Author.Name == "" {
		post.Author.Name = post.Author.Handle
	}
	if post.Author.Name == "" {
		post.Author.Name = unknownAuthor
	}

	post.Media = xMedia(raw)
	post.Comments = parseComments(raw, "comments", "replies_list")

	if quoted := subMap(raw, "quoted_post", "quoted_tweet"); quoted != nil {
		q := ParseXPost(quoted, firstString(quoted, "url"))
		post.Quoted = &q
	}
	if parent := subMap(raw, "parent_post_details", "in_reply_to", "replied_to"); parent != nil {
		p := ParseXPost(parent, firstString(parent, "url"))
		post.ReplyTo = &p
	}
	return post
}

func xMedia(raw map[string]any) []model.Media {
	var media []model.Media
	for _, item := range list(raw, "photos", "images") {
		switch v := item.(type) {
		case string:
			media = append(media, model.Media{Type: "image", URL: v})
		case map[string]any:
			if u := firstString(v, "url", "media_url_https", "media_url"); u != "" {
				media = append(media, model.Media{Type: "image", URL: u})
			}
		}
	}
	for _, item := range list(raw, "videos") {
		switch v := item.(type) {
		case string:
			media = append(media, model.Media{Type: "video", URL: v})
		case map[string]any:
			if u := firstString(v, "url", "video_url"); u != "" {
				media = append(media, model.Media{
					Type:      "video",
					URL:       u,
					Thumbnail: firstString(v, "thumbnail", "poster"),
					Duration:  float64(firstNumber(v, "duration")),
				})
			}
		}
	}
	if len(media) == 0 {
		if u := firstString(raw, "video_url"); u != "" {
			media = append(media, model.Media{Type: "video", URL: u})
		} else if u := firstString(raw, "photo_url", "image_url"); u != "" {
			media = append(media, model.Media{Type: "image", URL: u})
		}
	}
	return media
}
