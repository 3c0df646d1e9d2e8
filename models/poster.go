package models

import (
	"strings"

	"reddigram/enums"
)

// Poster is one per-channel delivery policy: where to post, what to pull
// and how spoiler/NSFW content is displayed on that channel.
type Poster struct {
	Chat       int64          `yaml:"chat"`
	Subreddits []string       `yaml:"subreddits"`
	Limit      int            `yaml:"limit"`
	SortBy     enums.SortMode `yaml:"sort_by"`

	// NSFWChannel marks a channel that is itself flagged adult: the NSFW
	// bit no longer forces a spoiler wrap or the marker line there.
	NSFWChannel bool `yaml:"nsfw_channel"`

	MinScore  int64    `yaml:"min_score"`
	Blocklist []string `yaml:"blocklist"`

	// ExtraText is an optional caption template with {field} placeholders,
	// expanded against a closed set of submission fields.
	ExtraText string `yaml:"extra_text"`
}

// ShouldPost decides whether a submission is posted to this channel at all.
func (p *Poster) ShouldPost(sub *Submission) bool {
	if sub.Score < p.MinScore {
		return false
	}
	title := strings.ToLower(sub.Title)
	for _, word := range p.Blocklist {
		if word == "" {
			continue
		}
		if strings.Contains(title, strings.ToLower(word)) {
			return false
		}
	}
	return true
}

// ShouldHide reports whether the body and media are wrapped in a spoiler.
func (p *Poster) ShouldHide(sub *Submission) bool {
	if p.NSFWChannel {
		return sub.Spoiler
	}
	return sub.Spoiler || sub.NSFW
}

// ShowNSFWMark reports whether the rendered text carries the NSFW marker line.
func (p *Poster) ShowNSFWMark(sub *Submission) bool {
	return sub.NSFW && !p.NSFWChannel
}
