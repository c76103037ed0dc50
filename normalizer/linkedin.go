package normalizer

import "post-archiver/domain/model"

// ParseLinkedInPost maps a raw LinkedIn dataset record to PostData.
func ParseLinkedInPost(raw map[string]any, url string) model.PostData {
	post := model.PostData{
		Platform: model.PlatformLinkedIn,
		ID:       idFrom(raw, url, "id", "post_id", "activity_id"),
		URL:      firstString(raw, "url", "post_url", "share_url"),
		Author: model.Author{
			Name:     firstString(raw, "user_id", "author", "user_name", "account_name"),
			URL:      firstString(raw, "use_url", "user_url", "author_url", "account_url"),
			Avatar:   firstString(raw, "author_profile_pic", "user_avatar", "avatar"),
			Handle:   firstString(raw, "user_handle", "public_id"),
			Verified: firstBool(raw, "is_verified"),
		},
		Content: model.Content{
			Text: firstString(raw, "post_text", "text", "description", "title"),
			HTML: firstString(raw, "post_text_html", "html"),
		},
		Metadata: model.Metadata{
			Likes:     firstNumber(raw, "num_likes", "likes", "reactions"),
			Comments:  firstNumber(raw, "num_comments", "comments"),
			Shares:    firstNumber(raw, "num_shares", "shares", "reposts"),
			Views:     firstNumber(raw, "views", "impressions"),
			Timestamp: timestamp(raw, "date_posted", "time", "published_at"),
		},
		Hashtags: stringList(raw, "hashtags", "post_hashtags"),
		Raw:      raw,
	}
	if post.URL == "" {
		post.URL = url
	}
	if post.Author.Name == "" {
		post.Author.Name = unknownAuthor
	}

	post.Media = linkedinMedia(raw)
	post.Comments = parseComments(raw, "top_visible_comments", "comments")

	// Articles shared through a post keep their headline in a nested
	// object; fold it into text when the post body itself is empty.
	if post.Content.Text == "" {
		if article := subMap(raw, "article", "external_link_data"); article != nil {
			post.Content.Text = firstString(article, "title", "headline")
		}
	}
	return post
}

func linkedinMedia(raw map[string]any) []model.Media {
	var media []model.Media
	for _, item := range list(raw, "images", "post_images") {
		switch v := item.(type) {
		case string:
			media = append(media, model.Media{Type: "image", URL: v})
		case map[string]any:
			if u := firstString(v, "url", "src"); u != "" {
				media = append(media, model.Media{Type: "image", URL: u})
			}
		}
	}
	for _, item := range list(raw, "videos", "post_videos") {
		switch v := item.(type) {
		case string:
			media = append(media, model.Media{Type: "video", URL: v})
		case map[string]any:
			if u := firstString(v, "url", "video_url", "stream_url"); u != "" {
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
			media = append(media, model.Media{Type: "video", URL: u, Thumbnail: firstString(raw, "video_thumbnail")})
		} else if u := firstString(raw, "image_url", "header_image"); u != "" {
			media = append(media, model.Media{Type: "image", URL: u})
		}
	}
	if docs := subMap(raw, "document_cover_image", "document"); docs != nil {
		if u := firstString(docs, "url", "cover_image"); u != "" {
			media = append(media, model.Media{Type: "document", URL: u, Thumbnail: firstString(docs, "cover_image")})
		}
	}
	return media
}
