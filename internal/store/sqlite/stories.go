package sqlite

import (
	"context"
	"database/sql"

	"github.com/daveroberts0321/taleblock/internal/domain"
	"github.com/daveroberts0321/taleblock/internal/store"
)

// storyColumns is the ordered list of columns selected in story queries.
// Must match the scan order in scanStory.
const storyColumns = `id, title, content, excerpt, cover_image, author_id,
	parent_id, forks, reads, status, created_at`

// scanStory scans a sql.Row (or sql.Rows via its Scan method) into a domain.Story.
func scanStory(scanner interface{ Scan(dest ...any) error }) (*domain.Story, error) {
	var st domain.Story

	var (
		parentID  sql.NullString
		status    string
		createdAt string
	)

	err := scanner.Scan(
		&st.ID,
		&st.Title,
		&st.Content,
		&st.Excerpt,
		&st.CoverImage,
		&st.AuthorID,
		&parentID,
		&st.Forks,
		&st.Reads,
		&status,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		st.ParentID = parentID.String
	}
	st.Status = domain.StoryStatus(status)

	st.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &st, nil
}

// queryStories runs a story query and scans all rows.
func (s *Store) queryStories(ctx context.Context, query string, args ...any) ([]*domain.Story, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []*domain.Story
	for rows.Next() {
		st, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stories, nil
}

// CreateStory inserts a new story into the database.
// A dangling parent_id fails the foreign key constraint and surfaces as
// store.ErrInvalidInput.
func (s *Store) CreateStory(ctx context.Context, story *domain.Story) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stories (id, title, content, excerpt, cover_image,
			author_id, parent_id, forks, reads, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		story.ID,
		story.Title,
		story.Content,
		story.Excerpt,
		story.CoverImage,
		story.AuthorID,
		nullString(story.ParentID),
		story.Forks,
		story.Reads,
		string(story.Status),
		formatTime(story.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		if isForeignKeyViolation(err) || isCheckViolation(err) {
			return store.ErrInvalidInput.WithCause(err)
		}
		return err
	}
	return nil
}

// GetStory retrieves a story by ID.
// Returns store.ErrNotFound if the story does not exist.
func (s *Store) GetStory(ctx context.Context, id string) (*domain.Story, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+storyColumns+` FROM stories WHERE id = ?`, id)

	st, err := scanStory(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

// UpdateStory updates the mutable fields of a story. The fork/read counters
// are deliberately not written here; they only move through the atomic
// increment statements.
func (s *Store) UpdateStory(ctx context.Context, story *domain.Story) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE stories
		SET title = ?, content = ?, excerpt = ?, cover_image = ?, status = ?
		WHERE id = ?`,
		story.Title,
		story.Content,
		story.Excerpt,
		story.CoverImage,
		string(story.Status),
		story.ID,
	)
	if err != nil {
		if isCheckViolation(err) {
			return store.ErrInvalidInput.WithCause(err)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteStory removes a story. Versions and tag joins cascade; forks do
// not, so deleting a story that has forks fails the foreign key.
// Returns store.ErrNotFound if the story does not exist.
func (s *Store) DeleteStory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidInput.WithCause(err)
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListStoriesByAuthor returns all stories by an author, newest first.
func (s *Store) ListStoriesByAuthor(ctx context.Context, authorID string) ([]*domain.Story, error) {
	return s.queryStories(ctx,
		`SELECT `+storyColumns+` FROM stories
		WHERE author_id = ?
		ORDER BY created_at DESC`, authorID)
}

// ListPublishedStories returns published stories, newest first, paginated.
func (s *Store) ListPublishedStories(ctx context.Context, limit, offset int) ([]*domain.Story, error) {
	return s.queryStories(ctx,
		`SELECT `+storyColumns+` FROM stories
		WHERE status = 'published'
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, limit, offset)
}

// ListForks returns the stories forked from the given story, newest first.
func (s *Store) ListForks(ctx context.Context, parentID string) ([]*domain.Story, error) {
	return s.queryStories(ctx,
		`SELECT `+storyColumns+` FROM stories
		WHERE parent_id = ?
		ORDER BY created_at DESC`, parentID)
}

// IncrementStoryReads atomically bumps the read counter by one.
// Single-statement increment: concurrent calls never lose updates.
// Returns store.ErrNotFound if the story does not exist.
func (s *Store) IncrementStoryReads(ctx context.Context, id string) error {
	return s.incrementCounter(ctx,
		`UPDATE stories SET reads = reads + 1 WHERE id = ?`, id)
}

// IncrementStoryForks atomically bumps the fork counter by one.
// Returns store.ErrNotFound if the story does not exist.
func (s *Store) IncrementStoryForks(ctx context.Context, id string) error {
	return s.incrementCounter(ctx,
		`UPDATE stories SET forks = forks + 1 WHERE id = ?`, id)
}

func (s *Store) incrementCounter(ctx context.Context, query, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SearchStories performs a case-insensitive substring search over title,
// content, excerpt, and joined tag names, restricted to published stories,
// newest first.
func (s *Store) SearchStories(ctx context.Context, query string) ([]*domain.Story, error) {
	pattern := "%" + escapeLike(query) + "%"
	return s.queryStories(ctx, `
		SELECT DISTINCT s.id, s.title, s.content, s.excerpt, s.cover_image,
			s.author_id, s.parent_id, s.forks, s.reads, s.status, s.created_at
		FROM stories s
		LEFT JOIN story_tags st ON s.id = st.story_id
		LEFT JOIN tags t ON st.tag_id = t.id
		WHERE s.status = 'published'
		AND (
			s.title LIKE ? ESCAPE '\'
			OR s.content LIKE ? ESCAPE '\'
			OR s.excerpt LIKE ? ESCAPE '\'
			OR t.name LIKE ? ESCAPE '\'
		)
		ORDER BY s.created_at DESC`,
		pattern, pattern, pattern, pattern)
}
