package sqlite

import (
	"context"

	"github.com/daveroberts0321/taleblock/internal/domain"
	"github.com/daveroberts0321/taleblock/internal/store"
)

// CreateStoryVersion appends a content snapshot to a story's history.
// Versions are never updated or deleted individually; they go away only
// when their story does (cascade).
func (s *Store) CreateStoryVersion(ctx context.Context, version *domain.StoryVersion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO story_versions (id, story_id, content, created_at)
		VALUES (?, ?, ?, ?)`,
		version.ID,
		version.StoryID,
		version.Content,
		formatTime(version.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return store.ErrInvalidInput.WithCause(err)
		}
		return err
	}
	return nil
}

// ListStoryVersions returns a story's version history, newest first.
func (s *Store) ListStoryVersions(ctx context.Context, storyID string) ([]*domain.StoryVersion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, story_id, content, created_at
		FROM story_versions
		WHERE story_id = ?
		ORDER BY created_at DESC`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*domain.StoryVersion
	for rows.Next() {
		var v domain.StoryVersion
		var createdAt string
		if err := rows.Scan(&v.ID, &v.StoryID, &v.Content, &createdAt); err != nil {
			return nil, err
		}
		v.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		versions = append(versions, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return versions, nil
}
