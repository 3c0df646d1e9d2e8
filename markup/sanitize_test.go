package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "keeps allowed tags",
			input:    "<b>bold</b> and <i>italic</i>",
			expected: "<b>bold</b> and <i>italic</i>",
		},
		{
			name:     "strips paragraph wrappers",
			input:    "<div class=\"md\"><p>hello <b>world</b></p></div>",
			expected: "hello <b>world</b>",
		},
		{
			name:     "strips list markup",
			input:    "<ul><li>one</li><li>two</li></ul>",
			expected: "onetwo",
		},
		{
			name:     "rewrites spoiler span",
			input:    `<span class="md-spoiler-text">secret</span>`,
			expected: `<span class="tg-spoiler">secret</span>`,
		},
		{
			name:     "keeps links with attributes",
			input:    `<a href="https://example.com">link</a>`,
			expected: `<a href="https://example.com">link</a>`,
		},
		{
			name:     "uppercase tags are stripped",
			input:    "<B>bold</B><H1>title</H1>",
			expected: "boldtitle",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestTagName(t *testing.T) {
	assert.Equal(t, "b", tagName("b"))
	assert.Equal(t, "b", tagName("/b"))
	assert.Equal(t, "a", tagName(`a href="https://example.com"`))
	assert.Equal(t, "span", tagName(`/span`))
	assert.Equal(t, "PRE", tagName("PRE"))
}
