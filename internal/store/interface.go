// Package store defines the persistence interface for the Taleblock server.
package store

import (
	"context"

	"github.com/daveroberts0321/taleblock/internal/domain"
)

// Store defines the interface for all persistence operations.
// It owns no in-memory state; the backing database is the single source of
// truth. Uniqueness (usernames, emails, tokens, tag names, story/tag pairs)
// and counter atomicity are delegated to the storage engine.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionUser(ctx context.Context, token string, now int64) (*domain.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now int64) (int, error)

	// Stories
	CreateStory(ctx context.Context, story *domain.Story) error
	GetStory(ctx context.Context, id string) (*domain.Story, error)
	UpdateStory(ctx context.Context, story *domain.Story) error
	DeleteStory(ctx context.Context, id string) error
	ListStoriesByAuthor(ctx context.Context, authorID string) ([]*domain.Story, error)
	ListPublishedStories(ctx context.Context, limit, offset int) ([]*domain.Story, error)
	ListForks(ctx context.Context, parentID string) ([]*domain.Story, error)
	IncrementStoryReads(ctx context.Context, id string) error
	IncrementStoryForks(ctx context.Context, id string) error
	SearchStories(ctx context.Context, query string) ([]*domain.Story, error)

	// Story versions
	CreateStoryVersion(ctx context.Context, version *domain.StoryVersion) error
	ListStoryVersions(ctx context.Context, storyID string) ([]*domain.StoryVersion, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	AddTagToStory(ctx context.Context, storyID, tagID string) error
	RemoveTagFromStory(ctx context.Context, storyID, tagID string) error
	GetStoryTags(ctx context.Context, storyID string) ([]*domain.Tag, error)
}
