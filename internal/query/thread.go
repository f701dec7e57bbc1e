package query

import "agora/internal/models"

// Thread indexes a post's comments by id with parent to child adjacency.
// Comments whose parent is absent from the post are treated as roots.
type Thread struct {
	comments map[uint]*models.CommentWithAuthor
	roots    []uint
	children map[uint][]uint
}

// NewThread builds a Thread from comments, keeping their order among siblings.
func NewThread(comments []*models.CommentWithAuthor) *Thread {
	t := &Thread{
		comments: make(map[uint]*models.CommentWithAuthor, len(comments)),
		children: make(map[uint][]uint),
	}
	for _, c := range comments {
		t.comments[c.ID] = c
	}
	for _, c := range comments {
		if c.ParentID != nil {
			if _, ok := t.comments[*c.ParentID]; ok {
				t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}
	return t
}

func (t *Thread) Len() int {
	return len(t.comments)
}

// Comment returns nil for an id outside the thread.
func (t *Thread) Comment(id uint) *models.CommentWithAuthor {
	return t.comments[id]
}

// Roots lists top-level comment ids.
func (t *Thread) Roots() []uint {
	return t.roots
}

// Children lists the ids of direct replies to id.
func (t *Thread) Children(id uint) []uint {
	return t.children[id]
}

// Node is a comment with its nested replies, as sent to clients.
type Node struct {
	*models.CommentWithAuthor
	Replies []Node `json:"replies"`
}

// Tree expands the thread into nested nodes.
func (t *Thread) Tree() []Node {
	return t.nodes(t.roots)
}

func (t *Thread) nodes(ids []uint) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, Node{CommentWithAuthor: t.comments[id], Replies: t.nodes(t.children[id])})
	}
	return out
}
