package models

import (
	"sort"
	"strings"
	"time"
)

// CommentStatus is the moderation status of a comment.
type CommentStatus string

const (
	StatusPending  CommentStatus = "pending"
	StatusApproved CommentStatus = "approved"
	StatusRejected CommentStatus = "rejected"
	StatusFlagged  CommentStatus = "flagged"
)

// ValidStatuses defines the recognized moderation statuses.
var ValidStatuses = map[CommentStatus]bool{
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
	StatusFlagged:  true,
}

// VoteKind is the direction of a vote.
type VoteKind string

const (
	VoteLike    VoteKind = "like"
	VoteDislike VoteKind = "dislike"
)

// PostedAtLayout is the canonical timestamp format written on every
// new comment. Legacy rows imported from the previous system may
// instead carry a "DD/MM/YYYY, HH:MM:SS" locale string; the comma is
// the discriminator between the two forms.
const PostedAtLayout = time.RFC3339

// LegacyPostedAtLayout matches locale-formatted timestamps carried
// over from imported comment data.
const LegacyPostedAtLayout = "02/01/2006, 15:04:05"

// Comment is one node of a comment thread. Replies are full comments
// themselves; the tree is persisted flat (id, parent_id) and
// reassembled with BuildThreads.
type Comment struct {
	ID          string        `json:"id" db:"id"`
	ParentID    string        `json:"parentId,omitempty" db:"parent_id"`
	Author      string        `json:"author" db:"author"`
	UserID      string        `json:"userId,omitempty" db:"user_id"`
	UserEmail   string        `json:"userEmail,omitempty" db:"user_email"`
	Content     string        `json:"content" db:"content"`
	Subject     string        `json:"subject" db:"subject"`
	Module      string        `json:"module" db:"module"`
	ContentID   string        `json:"contentId,omitempty" db:"content_id"`
	ContentType string        `json:"type" db:"content_type"`
	Year        string        `json:"year,omitempty" db:"year"`
	Semester    string        `json:"semester,omitempty" db:"semester"`
	Branch      string        `json:"branch,omitempty" db:"branch"`
	Status      CommentStatus `json:"status" db:"status"`
	Likes       int           `json:"likes" db:"likes"`
	Dislikes    int           `json:"dislikes" db:"dislikes"`
	LikedBy     []string      `json:"likedBy"`
	DislikedBy  []string      `json:"dislikedBy"`
	Replies     []*Comment    `json:"replies"`
	PostedAt    string        `json:"timestamp" db:"posted_at"`
}

// IsRoot reports whether the comment is a top-level comment rather
// than a reply.
func (c *Comment) IsRoot() bool {
	return c.ParentID == ""
}

// HasLiked reports whether userID is in the liked set.
func (c *Comment) HasLiked(userID string) bool {
	return containsUser(c.LikedBy, userID)
}

// HasDisliked reports whether userID is in the disliked set.
func (c *Comment) HasDisliked(userID string) bool {
	return containsUser(c.DislikedBy, userID)
}

func containsUser(set []string, userID string) bool {
	for _, u := range set {
		if u == userID {
			return true
		}
	}
	return false
}

func removeUser(set []string, userID string) []string {
	out := set[:0]
	for _, u := range set {
		if u != userID {
			out = append(out, u)
		}
	}
	return out
}

// ApplyVote applies the toggle rule to the comment in place: a
// repeated identical vote is removed, an opposite vote replaces the
// prior one, and a user holds at most one of liked/disliked at any
// time. The denormalized counters stay equal to the set sizes.
func (c *Comment) ApplyVote(userID string, kind VoteKind) {
	switch kind {
	case VoteLike:
		if c.HasLiked(userID) {
			c.LikedBy = removeUser(c.LikedBy, userID)
		} else {
			if c.HasDisliked(userID) {
				c.DislikedBy = removeUser(c.DislikedBy, userID)
			}
			c.LikedBy = append(c.LikedBy, userID)
		}
	case VoteDislike:
		if c.HasDisliked(userID) {
			c.DislikedBy = removeUser(c.DislikedBy, userID)
		} else {
			if c.HasLiked(userID) {
				c.LikedBy = removeUser(c.LikedBy, userID)
			}
			c.DislikedBy = append(c.DislikedBy, userID)
		}
	}
	c.Likes = len(c.LikedBy)
	c.Dislikes = len(c.DislikedBy)
}

// UserVote returns the caller's current vote on the comment, or nil
// when the user holds neither.
func (c *Comment) UserVote(userID string) *VoteKind {
	if c.HasLiked(userID) {
		k := VoteLike
		return &k
	}
	if c.HasDisliked(userID) {
		k := VoteDislike
		return &k
	}
	return nil
}

// VoteResult is returned after a vote toggle with the comment's new
// counters and the caller's remaining vote, if any.
type VoteResult struct {
	CommentID string    `json:"commentId"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	UserVote  *VoteKind `json:"userVote,omitempty"`
}

// BuildThreads reassembles flat comment rows into thread trees. Rows
// whose parent is not in the input (orphaned replies from partial
// deletes) are promoted to roots rather than dropped. Roots and
// sibling replies are ordered oldest first by posted timestamp,
// falling back to id so the order stays deterministic for equal or
// unparseable timestamps.
func BuildThreads(rows []*Comment) []*Comment {
	byID := make(map[string]*Comment, len(rows))
	for _, c := range rows {
		c.Replies = []*Comment{}
		byID[c.ID] = c
	}

	roots := []*Comment{}
	for _, c := range rows {
		if c.ParentID == "" {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[c.ParentID]
		if !ok {
			roots = append(roots, c)
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}

	sortThreads(roots)
	for _, c := range rows {
		sortThreads(c.Replies)
	}
	return roots
}

func sortThreads(comments []*Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		ti, iok := ParsePostedAt(comments[i].PostedAt)
		tj, jok := ParsePostedAt(comments[j].PostedAt)
		if iok && jok && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return comments[i].ID < comments[j].ID
	})
}

// FlatComment is one entry of a flattened thread: the comment plus
// the content-type context it was reached under.
type FlatComment struct {
	Comment     *Comment
	ContentType string
}

// Flatten walks the subtree rooted at root depth-first in preorder
// and returns every comment exactly once, root included. The walk
// uses an explicit stack so arbitrarily deep reply chains cannot
// exhaust the call stack.
func Flatten(root *Comment, contentType string) []FlatComment {
	if root == nil {
		return nil
	}
	var out []FlatComment
	stack := []*Comment{root}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, FlatComment{Comment: c, ContentType: contentType})
		// push replies in reverse so the first reply is visited next
		for i := len(c.Replies) - 1; i >= 0; i-- {
			stack = append(stack, c.Replies[i])
		}
	}
	return out
}

// ParsePostedAt parses a comment timestamp in either the canonical
// RFC3339 form or the legacy locale form. The second result is false
// when the value parses under neither rule.
func ParsePostedAt(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if strings.Contains(value, ",") {
		t, err := time.ParseInLocation(LegacyPostedAtLayout, value, time.Local)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	t, err := time.Parse(PostedAtLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
