package markup

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"reddigram/models"
)

// telegram message limits
const (
	MaxMessageLength = 4096
	MaxCaptionLength = 1024
)

const nsfwMark = "🔞NSFW🔞\n"

// CaptionOpts carries the display policy a Poster resolved for one channel.
type CaptionOpts struct {
	Short    bool   // caption-bounded rendering, used alongside media
	Hidden   bool   // wrap the body in a spoiler span
	NSFWMark bool   // prepend the NSFW marker line
	Extra    string // optional template appended after the footer
}

// Caption renders the final Telegram HTML text for a submission.
func Caption(sub *models.Submission, opts *CaptionOpts) string {
	if opts == nil {
		opts = &CaptionOpts{}
	}
	var b strings.Builder
	if opts.NSFWMark {
		b.WriteString(nsfwMark)
	}
	if sub.Text != "" {
		b.WriteString("<b>" + Escape(sub.Title) + "</b>")
		body := sub.Text
		if opts.Short {
			body = Shorten(body, MaxCaptionLength-128)
		}
		if opts.Hidden {
			b.WriteString("\n\n<tg-spoiler>" + body + "</tg-spoiler>")
		} else {
			b.WriteString("\n\n" + body)
		}
	} else {
		b.WriteString(Escape(sub.Title))
	}
	b.WriteString("\n\n" + Escape(sub.PostURL))
	if opts.Extra != "" {
		b.WriteString("\n" + ExpandTemplate(opts.Extra, sub))
	}
	return b.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func Escape(str string) string {
	return escaper.Replace(str)
}

// Shorten truncates text at a word boundary so it fits in limit runes,
// appending an ellipsis.
func Shorten(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	cut := limit - 1
	for cut > 0 && !unicode.IsSpace(runes[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit - 1
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…"
}

// Split slices text into chunks of at most limit runes. It is not word
// boundary aware but never breaks a multi-byte sequence.
func Split(text string, limit int) []string {
	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

var templateFieldRE = regexp.MustCompile(`\{([a-z_]+)\}`)

// fields addressable from poster caption templates
var captionFields = map[string]func(*models.Submission) string{
	"title":    func(s *models.Submission) string { return Escape(s.Title) },
	"id":       func(s *models.Submission) string { return s.ID },
	"post_url": func(s *models.Submission) string { return Escape(s.PostURL) },
	"score":    func(s *models.Submission) string { return strconv.FormatInt(s.Score, 10) },
	"flair":    func(s *models.Submission) string { return Escape(s.Flair.String) },
}

// ExpandTemplate substitutes {field} placeholders against a closed set of
// submission fields. Unknown placeholders are left untouched; templates
// can never run code.
func ExpandTemplate(tmpl string, sub *models.Submission) string {
	return templateFieldRE.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]
		accessor, ok := captionFields[name]
		if !ok {
			zap.S().Warnf("unknown caption template field: %s", name)
			return match
		}
		return accessor(sub)
	})
}
