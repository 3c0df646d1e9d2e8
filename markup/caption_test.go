package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"reddigram/models"
)

func testSubmission() *models.Submission {
	sub := models.NewSubmission("Test & <title>", "abc123")
	sub.Score = 42
	return sub
}

func TestCaptionTitleOnly(t *testing.T) {
	sub := testSubmission()
	got := Caption(sub, nil)
	assert.Equal(t, "Test &amp; &lt;title&gt;\n\nhttps://redd.it/abc123", got)
}

func TestCaptionWithBody(t *testing.T) {
	sub := testSubmission()
	sub.Text = "some <b>body</b>"
	got := Caption(sub, nil)
	assert.Equal(t,
		"<b>Test &amp; &lt;title&gt;</b>\n\nsome <b>body</b>\n\nhttps://redd.it/abc123",
		got)
}

func TestCaptionHidden(t *testing.T) {
	sub := testSubmission()
	sub.Text = "spoilery"
	got := Caption(sub, &CaptionOpts{Hidden: true})
	assert.Contains(t, got, "<tg-spoiler>spoilery</tg-spoiler>")
}

func TestCaptionNSFWMark(t *testing.T) {
	sub := testSubmission()
	got := Caption(sub, &CaptionOpts{NSFWMark: true})
	assert.True(t, strings.HasPrefix(got, "🔞NSFW🔞\n"))
}

func TestCaptionShort(t *testing.T) {
	sub := testSubmission()
	sub.Text = strings.Repeat("word ", 500)
	got := Caption(sub, &CaptionOpts{Short: true})
	assert.LessOrEqual(t, len([]rune(got)), MaxCaptionLength)
	assert.Contains(t, got, "…")
}

func TestCaptionExtra(t *testing.T) {
	sub := testSubmission()
	got := Caption(sub, &CaptionOpts{Extra: "score: {score}"})
	assert.True(t, strings.HasSuffix(got, "\nscore: 42"))
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", Shorten("short", 100))
	assert.Equal(t, "one two…", Shorten("one two three", 10))

	unbroken := strings.Repeat("x", 50)
	got := Shorten(unbroken, 10)
	assert.LessOrEqual(t, len([]rune(got)), 10)
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"abc"}, Split("abc", 10))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, Split("abcdefghij", 4))
	assert.Empty(t, Split("", 4))

	// rune-safe splitting
	chunks := Split(strings.Repeat("é", 5), 2)
	assert.Equal(t, []string{"éé", "éé", "é"}, chunks)
}

func TestExpandTemplate(t *testing.T) {
	sub := testSubmission()
	got := ExpandTemplate("{title} ({score}) -> {post_url}", sub)
	assert.Equal(t, "Test &amp; &lt;title&gt; (42) -> https://redd.it/abc123", got)
}

func TestExpandTemplateUnknownField(t *testing.T) {
	sub := testSubmission()
	got := ExpandTemplate("{title} {bogus} {author}", sub)
	assert.Equal(t, "Test &amp; &lt;title&gt; {bogus} {author}", got)
}
