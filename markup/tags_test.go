package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloseDangling(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantClosed string
		wantReopen string
	}{
		{
			name:       "balanced text untouched",
			input:      "<b>bold</b> plain",
			wantClosed: "<b>bold</b> plain",
			wantReopen: "",
		},
		{
			name:       "single open tag",
			input:      "<b>cut off",
			wantClosed: "<b>cut off</b>",
			wantReopen: "<b>",
		},
		{
			name:       "nested tags close in reverse order",
			input:      "<b>one <i>two",
			wantClosed: "<b>one <i>two</i></b>",
			wantReopen: "<b><i>",
		},
		{
			name:       "attributes survive reopening",
			input:      `see <a href="https://example.com">the docs`,
			wantClosed: `see <a href="https://example.com">the docs</a>`,
			wantReopen: `<a href="https://example.com">`,
		},
		{
			name:       "no tags at all",
			input:      "plain text",
			wantClosed: "plain text",
			wantReopen: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed, reopen := CloseDangling(tt.input)
			assert.Equal(t, tt.wantClosed, closed)
			assert.Equal(t, tt.wantReopen, reopen)
		})
	}
}

func TestRepairChunks(t *testing.T) {
	chunks := RepairChunks([]string{
		"<b>start of a long",
		" bold run</b> and <i>italic",
		" tail</i>",
	})
	assert.Equal(t, []string{
		"<b>start of a long</b>",
		"<b> bold run</b> and <i>italic</i>",
		"<i> tail</i>",
	}, chunks)
}

func TestRepairChunksBalanced(t *testing.T) {
	chunks := RepairChunks([]string{"<b>whole</b>", "plain"})
	assert.Equal(t, []string{"<b>whole</b>", "plain"}, chunks)
}
