package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// StoryStatus represents the publication state of a story.
type StoryStatus string

const (
	// StoryStatusDraft is the initial state; visible only to the author.
	StoryStatusDraft StoryStatus = "draft"
	// StoryStatusPublished makes the story publicly listed and searchable.
	StoryStatusPublished StoryStatus = "published"
	// StoryStatusArchived hides the story without deleting it.
	StoryStatusArchived StoryStatus = "archived"
)

// IsValid reports whether the status is one of the known states.
func (s StoryStatus) IsValid() bool {
	switch s {
	case StoryStatusDraft, StoryStatusPublished, StoryStatusArchived:
		return true
	}
	return false
}

// ExcerptLength is the maximum length of an auto-derived excerpt.
const ExcerptLength = 280

// Story is a user-authored text that can be forked into derivative copies.
// ParentID, when set, references the story this one was forked from.
// Forks and Reads are counters maintained by atomic storage-layer
// increments; they never decrease.
type Story struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	Excerpt    string      `json:"excerpt,omitempty"`
	CoverImage string      `json:"cover_image,omitempty"`
	AuthorID   string      `json:"author_id"`
	ParentID   string      `json:"parent_id,omitempty"`
	Forks      int64       `json:"forks"`
	Reads      int64       `json:"reads"`
	Status     StoryStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// IsFork reports whether the story was forked from another story.
func (s *Story) IsFork() bool {
	return s.ParentID != ""
}

// IsPublished reports whether the story is publicly visible.
func (s *Story) IsPublished() bool {
	return s.Status == StoryStatusPublished
}

// StoryVersion is an append-only content snapshot taken whenever a story's
// content changes.
type StoryVersion struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"story_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DeriveExcerpt produces a short preview from story content: the first
// ExcerptLength characters, cut back to a word boundary, with an ellipsis
// when truncated.
func DeriveExcerpt(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= ExcerptLength {
		return content
	}

	runes := []rune(content)
	cut := string(runes[:ExcerptLength])
	if idx := strings.LastIndexAny(cut, " \t\n"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}
