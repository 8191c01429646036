package domain

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStoryStatusIsValid(t *testing.T) {
	valid := []StoryStatus{StoryStatusDraft, StoryStatusPublished, StoryStatusArchived}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	invalid := []StoryStatus{"", "Draft", "deleted", "published "}
	for _, s := range invalid {
		if s.IsValid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestStoryPredicates(t *testing.T) {
	root := &Story{Status: StoryStatusDraft}
	if root.IsFork() {
		t.Error("story without parent is not a fork")
	}
	if root.IsPublished() {
		t.Error("draft is not published")
	}

	fork := &Story{ParentID: "story-parent", Status: StoryStatusPublished}
	if !fork.IsFork() {
		t.Error("story with parent is a fork")
	}
	if !fork.IsPublished() {
		t.Error("published story should report published")
	}
}

func TestDeriveExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"empty", "", ""},
		{"short content verbatim", "A short tale.", "A short tale."},
		{"trims surrounding whitespace", "  padded  ", "padded"},
		{
			"exactly at limit",
			strings.Repeat("a", ExcerptLength),
			strings.Repeat("a", ExcerptLength),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveExcerpt(tt.content)
			if got != tt.expected {
				t.Errorf("DeriveExcerpt(%q) = %q, want %q", tt.content, got, tt.expected)
			}
		})
	}
}

func TestDeriveExcerpt_Truncation(t *testing.T) {
	// 300 words of "word " guarantees truncation at a word boundary.
	content := strings.TrimSpace(strings.Repeat("word ", 300))

	got := DeriveExcerpt(content)
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncated excerpt should end with ellipsis, got %q", got)
	}
	if utf8.RuneCountInString(got) > ExcerptLength+1 {
		t.Errorf("excerpt too long: %d runes", utf8.RuneCountInString(got))
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "…"), " ") {
		t.Errorf("excerpt should not end with a space before the ellipsis: %q", got)
	}
	// The cut lands between words, never inside one.
	body := strings.TrimSuffix(got, "…")
	for _, w := range strings.Fields(body) {
		if w != "word" {
			t.Fatalf("excerpt split a word: %q", w)
		}
	}
}
