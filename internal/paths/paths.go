// Package paths builds the canonical page paths of the forum. The same strings
// are used as redirect targets and as page cache keys.
package paths

import (
	"net/url"
	"strconv"
)

// Home is the landing page listing top posts and topics.
func Home() string {
	return "/"
}

// ShowTopic is the page of the topic identified by slug.
func ShowTopic(slug string) string {
	return "/topics/" + url.PathEscape(slug)
}

// ShowPost is the page of a post within its topic.
func ShowPost(slug string, postID uint) string {
	return ShowTopic(slug) + "/posts/" + strconv.FormatUint(uint64(postID), 10)
}

// Search is the search results page for term.
func Search(term string) string {
	return "/search?" + url.Values{"term": {term}}.Encode()
}
