package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldPost(t *testing.T) {
	poster := &Poster{MinScore: 100, Blocklist: []string{"Politics", ""}}

	low := NewSubmission("fine title", "a")
	low.Score = 50
	assert.False(t, poster.ShouldPost(low))

	blocked := NewSubmission("Today in POLITICS news", "b")
	blocked.Score = 500
	assert.False(t, poster.ShouldPost(blocked))

	ok := NewSubmission("cat pictures", "c")
	ok.Score = 500
	assert.True(t, poster.ShouldPost(ok))
}

func TestShouldHide(t *testing.T) {
	tests := []struct {
		name        string
		nsfwChannel bool
		spoiler     bool
		nsfw        bool
		expected    bool
	}{
		{"plain post", false, false, false, false},
		{"spoiler post", false, true, false, true},
		{"nsfw post", false, false, true, true},
		{"nsfw post on nsfw channel", true, false, true, false},
		{"spoiler post on nsfw channel", true, true, false, true},
		{"spoiler nsfw post on nsfw channel", true, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poster := &Poster{NSFWChannel: tt.nsfwChannel}
			sub := &Submission{Spoiler: tt.spoiler, NSFW: tt.nsfw}
			assert.Equal(t, tt.expected, poster.ShouldHide(sub))
		})
	}
}

func TestShowNSFWMark(t *testing.T) {
	sub := &Submission{NSFW: true}
	assert.True(t, (&Poster{}).ShowNSFWMark(sub))
	assert.False(t, (&Poster{NSFWChannel: true}).ShowNSFWMark(sub))
	assert.False(t, (&Poster{}).ShowNSFWMark(&Submission{}))
}

func TestDowngradeToText(t *testing.T) {
	sub := NewSubmission("title", "abc")
	sub.Media = &Image{Sources: []MediaSource{{URL: "https://i.redd.it/x.jpg"}}}

	sub.DowngradeToText("https://i.redd.it/x.jpg")
	assert.Nil(t, sub.Media)
	assert.Equal(t, "https://i.redd.it/x.jpg", sub.Text)

	sub.DowngradeToText("https://example.com/y")
	assert.Equal(t, "https://i.redd.it/x.jpg\n\nhttps://example.com/y", sub.Text)
}

func TestMediaSourceFileName(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://v.redd.it/xyz/DASH_720.mp4?source=fallback", "DASH_720.mp4"},
		{"https://i.redd.it/abc.jpg", "abc.jpg"},
		{"https://example.com/path/", "media"},
		{"", "media"},
	}
	for _, tt := range tests {
		source := MediaSource{URL: tt.url}
		assert.Equal(t, tt.expected, source.FileName())
	}
}

func TestAppendLink(t *testing.T) {
	sub := NewSubmission("t", "id")
	sub.AppendLink("  ")
	assert.Empty(t, sub.Text)

	sub.AppendLink(" https://example.com ")
	assert.Equal(t, "https://example.com", sub.Text)
}
