package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, "/", Home())
	assert.Equal(t, "/topics/general-chat", ShowTopic("general-chat"))
	assert.Equal(t, "/topics/general-chat/posts/12", ShowPost("general-chat", 12))
	assert.Equal(t, "/search?term=go+routines", Search("go routines"))
}

func TestShowTopic_EscapesSlug(t *testing.T) {
	assert.Equal(t, "/topics/a%2Fb", ShowTopic("a/b"))
}
