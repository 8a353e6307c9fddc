package service

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly at limit", "hello", 5, "hello"},
		{"ascii cut", "hello world", 5, "hello"},
		{"cut inside a two byte rune", "héllo", 2, "h"},
		{"cut inside an emoji", "a😀b", 3, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateText(tt.text, tt.max)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestIsSupportedContentType(t *testing.T) {
	assert.True(t, isSupportedContentType("text/plain; charset=utf-8", "notes.txt"))
	assert.True(t, isSupportedContentType("text/markdown", "README.md"))
	assert.True(t, isSupportedContentType("application/octet-stream", "notes.TXT"))
	assert.False(t, isSupportedContentType("application/pdf", "paper.pdf"))
	assert.False(t, isSupportedContentType("image/png", "diagram.png"))
}
