package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/daveroberts0321/taleblock/internal/domain"
	"github.com/daveroberts0321/taleblock/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, created_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag
	var createdAt string

	err := scanner.Scan(&t.ID, &t.Name, &createdAt)
	if err != nil {
		return nil, err
	}

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag into the database.
// Returns store.ErrAlreadyExists on duplicate name; concurrent creators
// race on the UNIQUE constraint and exactly one wins.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, created_at)
		VALUES (?, ?, ?)`,
		t.ID,
		t.Name,
		formatTime(t.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetTagByName retrieves a tag by its canonical name.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name = ?`, name)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTags(rows)
}

// AddTagToStory attaches a tag to a story. Idempotent: re-adding an
// existing pair is a no-op (INSERT OR IGNORE on the unique pair).
func (s *Store) AddTagToStory(ctx context.Context, storyID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO story_tags (story_id, tag_id, created_at)
		VALUES (?, ?, ?)`,
		storyID, tagID, formatTime(time.Now()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidInput.WithCause(err)
		}
		return err
	}
	return nil
}

// RemoveTagFromStory detaches a tag from a story. Idempotent.
func (s *Store) RemoveTagFromStory(ctx context.Context, storyID, tagID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM story_tags WHERE story_id = ? AND tag_id = ?`,
		storyID, tagID)
	return err
}

// GetStoryTags returns the tags attached to a story, ordered by name.
func (s *Store) GetStoryTags(ctx context.Context, storyID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.created_at
		FROM tags t
		JOIN story_tags st ON t.id = st.tag_id
		WHERE st.story_id = ?
		ORDER BY t.name ASC`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTags(rows)
}

func collectTags(rows *sql.Rows) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
