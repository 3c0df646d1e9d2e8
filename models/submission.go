package models

import (
	"strings"

	"github.com/guregu/null/v6/zero"

	"reddigram/enums"
)

const PostURLPrefix = "https://redd.it/"

// gallery item kinds, verbatim from reddit's media_metadata "e" field
const (
	GalleryKindImage    = "Image"
	GalleryKindAnimated = "AnimatedImage"
)

// Submission is the canonical representation of one reddit post.
type Submission struct {
	Title   string
	ID      string
	PostURL string
	Score   int64
	Flair   zero.String
	Text    string
	Spoiler bool
	NSFW    bool
	Media   Media
}

func NewSubmission(title string, id string) *Submission {
	return &Submission{
		Title:   title,
		ID:      id,
		PostURL: PostURLPrefix + id,
	}
}

// Media is the post attachment. Exactly one concrete type is set;
// nil means the post is pure text or an external link.
type Media interface {
	Kind() enums.MediaKind
}

// MediaSource is one candidate in a resolution ladder: either a remote
// URL or already-fetched raw bytes.
type MediaSource struct {
	URL  string
	Data []byte
}

func (s MediaSource) IsLocal() bool {
	return len(s.Data) > 0
}

// FileName derives an upload filename from the source URL.
func (s MediaSource) FileName() string {
	path := s.URL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	if path == "" {
		path = "media"
	}
	return path
}

// Image sources are ordered best quality first.
type Image struct {
	Sources []MediaSource
}

type Video struct {
	Sources   []MediaSource
	Width     int64
	Height    int64
	Duration  int64
	Thumbnail string
}

type Gif struct {
	Sources   []MediaSource
	Width     int64
	Height    int64
	Thumbnail string
}

type Gallery struct {
	Items []GalleryItem
}

type GalleryItem struct {
	Media      string
	MediaLower string
	Kind       string
	Caption    string
}

func (*Image) Kind() enums.MediaKind   { return enums.MediaKindImage }
func (*Video) Kind() enums.MediaKind   { return enums.MediaKindVideo }
func (*Gif) Kind() enums.MediaKind     { return enums.MediaKindGif }
func (*Gallery) Kind() enums.MediaKind { return enums.MediaKindGallery }

// AppendLink adds an external URL to the post body as plain text.
func (s *Submission) AppendLink(rawURL string) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return
	}
	if s.Text == "" {
		s.Text = rawURL
		return
	}
	s.Text += "\n\n" + rawURL
}

// DowngradeToText drops failed media so the post can be retried as plain
// text. Only media posts can downgrade, so the fallback never recurses.
func (s *Submission) DowngradeToText(rawURL string) {
	s.AppendLink(rawURL)
	s.Media = nil
}
