package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkdownFencesJSONBlock(t *testing.T) {
	wrapped := "```json\n{\"score\": 75}\n```"

	assert.Equal(t, `{"score": 75}`, stripMarkdownFences(wrapped))
}

func TestStripMarkdownFencesPlainBlock(t *testing.T) {
	wrapped := "```\nsome output\n```"

	assert.Equal(t, "some output", stripMarkdownFences(wrapped))
}

func TestStripMarkdownFencesLeavesBareTextAlone(t *testing.T) {
	text := "The overall matching score is 82%."

	assert.Equal(t, text, stripMarkdownFences(text))
}
