package reddit

import (
	"context"
	"fmt"
	"strings"

	"github.com/guregu/null/v6/zero"
	"github.com/tidwall/gjson"

	"reddigram/markup"
	"reddigram/models"
	"reddigram/util"
)

// ParseSubmission normalizes one raw post record into a Submission.
// Removed posts fail before any media resolution. For crossposts the
// title, id and flags come from the wrapper while media is resolved from
// the original post.
func (c *Client) ParseSubmission(ctx context.Context, raw gjson.Result) (*models.Submission, error) {
	if category := raw.Get("removed_by_category").String(); category != "" {
		return nil, fmt.Errorf("%w (%s)", util.ErrPostRemoved, category)
	}

	sub := models.NewSubmission(
		raw.Get("title").String(),
		raw.Get("id").String(),
	)
	sub.Score = raw.Get("score").Int()
	if flair := raw.Get("link_flair_text").String(); flair != "" {
		sub.Flair = zero.StringFrom(flair)
	}
	sub.Text = strings.TrimSpace(markup.Sanitize(raw.Get("selftext_html").String()))
	sub.Spoiler = raw.Get("spoiler").Bool()
	sub.NSFW = raw.Get("over_18").Bool()

	source := raw
	if parent := raw.Get("crosspost_parent_list.0"); parent.Exists() {
		source = parent
	}

	media, link, err := c.resolveMedia(ctx, source)
	if err != nil {
		return nil, err
	}
	sub.Media = media
	sub.AppendLink(link)
	sub.Text = strings.TrimSpace(sub.Text)
	return sub, nil
}

// resolveMedia detects the media kind of a post. The checks are ordered
// and mutually exclusive; the first match wins. A non-nil link return
// means the post carries an external URL to append as plain text.
func (c *Client) resolveMedia(ctx context.Context, s gjson.Result) (models.Media, string, error) {
	postURL := s.Get("url").String()
	switch {
	case s.Get("is_video").Bool():
		media, err := c.resolveVideo(ctx, s)
		return media, "", err
	case strings.HasSuffix(postURL, ".mp4"):
		return &models.Video{
			Sources: []models.MediaSource{{URL: postURL}},
		}, "", nil
	case s.Get("is_gallery").Bool():
		return parseGallery(s), "", nil
	case strings.HasSuffix(postURL, ".gif") || strings.HasSuffix(postURL, ".gifv"):
		return parseGif(s), "", nil
	case strings.HasPrefix(s.Get("url_overridden_by_dest").String(), "https://i.redd"):
		return parseImage(s), "", nil
	case !s.Get("is_self").Bool():
		return nil, postURL, nil
	default:
		return nil, "", nil
	}
}

// parseGallery maps gallery_data items onto their media_metadata entries.
// The item kind is carried verbatim; unsupported kinds only fail at send
// time so parsing still succeeds for inspection.
func parseGallery(s gjson.Result) models.Media {
	gallery := &models.Gallery{}
	for _, item := range s.Get("gallery_data.items").Array() {
		meta := s.Get("media_metadata." + item.Get("media_id").String())
		if !meta.Exists() {
			continue
		}
		primary := meta.Get("s.gif").String()
		if primary == "" {
			primary = meta.Get("s.u").String()
		}
		lower := meta.Get("s.mp4").String()
		if lower == "" {
			if previews := meta.Get("p").Array(); len(previews) > 0 {
				lower = previews[len(previews)-1].Get("u").String()
			}
		}
		gallery.Items = append(gallery.Items, models.GalleryItem{
			Media:      util.FixURL(primary),
			MediaLower: util.FixURL(lower),
			Kind:       meta.Get("e").String(),
			Caption:    item.Get("caption").String(),
		})
	}
	return gallery
}

// parseGif prefers reddit's pre-rendered video preview of the gif and
// falls back to the gif variant ladder, best quality first.
func parseGif(s gjson.Result) models.Media {
	gif := &models.Gif{}
	if fallback := s.Get("preview.reddit_video_preview.fallback_url"); fallback.Exists() {
		gif.Sources = []models.MediaSource{{URL: util.FixURL(fallback.String())}}
	} else {
		variants := s.Get("preview.images.0.variants.gif")
		if source := variants.Get("source.url").String(); source != "" {
			gif.Sources = append(gif.Sources, models.MediaSource{URL: util.FixURL(source)})
		}
		resolutions := variants.Get("resolutions").Array()
		for i := len(resolutions) - 1; i >= 0; i-- {
			gif.Sources = append(gif.Sources, models.MediaSource{
				URL: util.FixURL(resolutions[i].Get("url").String()),
			})
		}
	}
	thumb := previewThumbnail(s)
	gif.Width = thumb.Get("width").Int()
	gif.Height = thumb.Get("height").Int()
	gif.Thumbnail = util.FixURL(thumb.Get("url").String())
	return gif
}

// parseImage builds the resolution ladder from the preview list plus its
// top-quality source, best quality first.
func parseImage(s gjson.Result) models.Media {
	image := &models.Image{}
	if source := s.Get("preview.images.0.source.url").String(); source != "" {
		image.Sources = append(image.Sources, models.MediaSource{URL: util.FixURL(source)})
		resolutions := s.Get("preview.images.0.resolutions").Array()
		for i := len(resolutions) - 1; i >= 0; i-- {
			image.Sources = append(image.Sources, models.MediaSource{
				URL: util.FixURL(resolutions[i].Get("url").String()),
			})
		}
	} else {
		image.Sources = []models.MediaSource{{URL: s.Get("url_overridden_by_dest").String()}}
	}
	return image
}

// previewThumbnail picks the largest pre-rendered preview, falling back to
// the source image.
func previewThumbnail(s gjson.Result) gjson.Result {
	resolutions := s.Get("preview.images.0.resolutions").Array()
	if len(resolutions) > 0 {
		return resolutions[len(resolutions)-1]
	}
	return s.Get("preview.images.0.source")
}
