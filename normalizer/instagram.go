package normalizer

import "post-archiver/domain/model"

// ParseInstagramPost maps a raw Instagram dataset record to PostData.
func ParseInstagramPost(raw map[string]any, url string) model.PostData {
	post := model.PostData{
		Platform: model.PlatformInstagram,
		ID:       idFrom(raw, url, "post_id", "pk", "shortcode", "id"),
		URL:      firstString(raw, "url", "post_url"),
		Author: model.Author{
			Name:     firstString(raw, "full_name", "user_posted", "ownerFullName", "ownerUsername"),
			URL:      firstString(raw, "profile_url", "user_url"),
			Avatar:   firstString(raw, "profile_image_link", "profile_pic_url", "user_avatar"),
			Handle:   firstString(raw, "user_posted", "ownerUsername", "username"),
			Verified: firstBool(raw, "is_verified", "verified"),
		},
		Content: model.Content{
			Text: firstString(raw, "description", "caption", "edge_media_to_caption"),
		},
		Metadata: model.Metadata{
			Likes:     firstNumber(raw, "likes", "like_count", "edge_liked_by"),
			Comments:  firstNumber(raw, "num_comments", "comment_count", "comments_count"),
			Views:     firstNumber(raw, "video_play_count", "video_view_count", "views", "play_count"),
			Timestamp: timestamp(raw, "date_posted", "taken_at", "taken_at_timestamp"),
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

	post.Media = instagramMedia(raw)
	post.Comments = parseComments(raw, "latest_comments", "comments")

	if audio := subMap(raw, "audio", "music_info"); audio != nil {
		title := firstString(audio, "original_audio_title", "title", "song_name")
		if title != "" {
			post.Music = &model.Music{
				Title:  title,
				Artist: firstString(audio, "artist_name", "author", "ig_artist_username"),
			}
		}
	}
	return post
}

func instagramMedia(raw map[string]any) []model.Media {
	var media []model.Media
	// Carousel arrays first, then the flat single-item fields.
	for _, item := range list(raw, "post_content", "carousel_media", "photos") {
		switch v := item.(type) {
		case string:
			media = append(media, model.Media{Type: "image", URL: v})
		case map[string]any:
			u := firstString(v, "url", "display_url", "image_url")
			if u == "" {
				continue
			}
			media = append(media, model.Media{
				Type:      mediaType(firstString(v, "type", "media_type")),
				URL:       u,
				Thumbnail: firstString(v, "thumbnail", "thumbnail_url"),
				Width:     int(firstNumber(v, "width", "original_width")),
				Height:    int(firstNumber(v, "height", "original_height")),
			})
		}
	}
	for _, item := range list(raw, "videos") {
		if u, ok := item.(string); ok && u != "" {
			media = append(media, model.Media{Type: "video", URL: u})
		}
	}
	if len(media) == 0 {
		if u := firstString(raw, "video_url"); u != "" {
			media = append(media, model.Media{
				Type:      "video",
				URL:       u,
				Thumbnail: firstString(raw, "thumbnail", "display_url"),
				Duration:  float64(firstNumber(raw, "video_duration")),
			})
		} else if u := firstString(raw, "display_url", "image_url", "thumbnail"); u != "" {
			media = append(media, model.Media{Type: "image", URL: u})
		}
	}
	return media
}
