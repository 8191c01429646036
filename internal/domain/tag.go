package domain

import (
	"strings"
	"time"
)

// Tag is a global label for categorizing stories. Tags are shared across all
// users, there is no ownership model. Name is the canonical lowercase form.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryTag represents the many-to-many relationship between stories and tags.
// The (story_id, tag_id) pair is unique.
type StoryTag struct {
	StoryID   string    `json:"story_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeTagName converts a user-supplied tag to canonical form:
// trimmed, lowercased, inner whitespace collapsed to single hyphens.
// "Slow Burn" → "slow-burn".
func NormalizeTagName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), "-")
}
