// Package markup renders submissions into the HTML subset accepted by
// the Telegram Bot API.
package markup

import (
	"regexp"
	"strings"
)

var tagRE = regexp.MustCompile(`<(.*?)>`)

// tags the telegram HTML renderer accepts
var telegramTags = map[string]bool{
	"b":          true,
	"strong":     true,
	"i":          true,
	"em":         true,
	"u":          true,
	"ins":        true,
	"s":          true,
	"strike":     true,
	"del":        true,
	"span":       true,
	"a":          true,
	"code":       true,
	"pre":        true,
	"blockquote": true,
	"tg-spoiler": true,
}

const (
	redditSpoilerSpan   = `<span class="md-spoiler-text">`
	telegramSpoilerSpan = `<span class="tg-spoiler">`
)

// Sanitize strips every tag the destination renderer does not support and
// rewrites reddit's spoiler span idiom to telegram's. It is a linear
// substring filter, not an HTML parser.
func Sanitize(fragment string) string {
	for _, match := range tagRE.FindAllStringSubmatch(fragment, -1) {
		if !telegramTags[tagName(match[1])] {
			fragment = strings.ReplaceAll(fragment, "<"+match[1]+">", "")
		}
	}
	return strings.ReplaceAll(fragment, redditSpoilerSpan, telegramSpoilerSpan)
}

// tagName extracts the bare tag name from raw tag contents, ignoring the
// closing slash and any attributes. Matching stays case sensitive; the
// destination renderer only knows the lowercase tag set.
func tagName(tag string) string {
	name := strings.TrimPrefix(strings.TrimSpace(tag), "/")
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	return name
}
