package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/daveroberts0321/taleblock/internal/domain"
	domainerrors "github.com/daveroberts0321/taleblock/internal/errors"
	"github.com/daveroberts0321/taleblock/internal/id"
	"github.com/daveroberts0321/taleblock/internal/store"
)

// Pagination bounds for published story listings.
const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// StoryService handles story creation, forking, versioning, tagging,
// search, and the read/fork counters.
type StoryService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStoryService creates a new story service.
func NewStoryService(store store.Store, logger *slog.Logger) *StoryService {
	return &StoryService{
		store:  store,
		logger: logger,
	}
}

// CreateStoryRequest contains new story data.
type CreateStoryRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Content    string `json:"content" validate:"required"`
	Excerpt    string `json:"excerpt" validate:"max=500"`
	CoverImage string `json:"cover_image"`
	Publish    bool   `json:"publish"`
}

// UpdateStoryRequest contains story fields to change. Empty fields keep
// their current value; changed content appends a version snapshot.
type UpdateStoryRequest struct {
	Title      string `json:"title" validate:"omitempty,max=200"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt" validate:"max=500"`
	CoverImage string `json:"cover_image"`
}

// Create makes a new story for the author, records its initial version,
// and returns it. Stories start as drafts unless Publish is set. When no
// excerpt is given one is derived from the content.
func (s *StoryService) Create(ctx context.Context, authorID string, req CreateStoryRequest) (*domain.Story, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	excerpt := req.Excerpt
	if excerpt == "" {
		excerpt = domain.DeriveExcerpt(req.Content)
	}

	status := domain.StoryStatusDraft
	if req.Publish {
		status = domain.StoryStatusPublished
	}

	storyID, err := id.Generate("story")
	if err != nil {
		return nil, domainerrors.Storage(err)
	}

	story := &domain.Story{
		ID:         storyID,
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    excerpt,
		CoverImage: req.CoverImage,
		AuthorID:   authorID,
		Status:     status,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateStory(ctx, story); err != nil {
		return nil, translateStoreError(err)
	}

	if err := s.recordVersion(ctx, story); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Story created",
			"story_id", storyID,
			"author_id", authorID,
			"status", string(status),
		)
	}

	return story, nil
}

// Get retrieves a story by ID without touching its counters.
func (s *StoryService) Get(ctx context.Context, storyID string) (*domain.Story, error) {
	story, err := s.store.GetStory(ctx, storyID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return story, nil
}

// Read retrieves a story and bumps its read counter. The increment is a
// single atomic statement at the storage layer; concurrent reads never
// lose counts. The returned story reflects the incremented value.
func (s *StoryService) Read(ctx context.Context, storyID string) (*domain.Story, error) {
	if err := s.store.IncrementStoryReads(ctx, storyID); err != nil {
		return nil, translateStoreError(err)
	}
	return s.Get(ctx, storyID)
}

// Update changes a story's fields. Only the author may update; a content
// change appends a new version snapshot.
func (s *StoryService) Update(ctx context.Context, userID, storyID string, req UpdateStoryRequest) (*domain.Story, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	story, err := s.ownedStory(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}

	contentChanged := req.Content != "" && req.Content != story.Content

	if req.Title != "" {
		story.Title = req.Title
	}
	if req.Content != "" {
		story.Content = req.Content
	}
	if req.Excerpt != "" {
		story.Excerpt = req.Excerpt
	} else if contentChanged {
		story.Excerpt = domain.DeriveExcerpt(story.Content)
	}
	if req.CoverImage != "" {
		story.CoverImage = req.CoverImage
	}

	if err := s.store.UpdateStory(ctx, story); err != nil {
		return nil, translateStoreError(err)
	}

	if contentChanged {
		if err := s.recordVersion(ctx, story); err != nil {
			return nil, err
		}
	}

	return story, nil
}

// Fork creates a derivative copy of a story: a new draft owned by the
// forking user with parent_id pointing at the source, then bumps the
// source's fork counter. Only published stories can be forked, except that
// authors may fork their own drafts.
func (s *StoryService) Fork(ctx context.Context, userID, storyID string) (*domain.Story, error) {
	source, err := s.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}

	if !source.IsPublished() && source.AuthorID != userID {
		return nil, domainerrors.Validation("only published stories can be forked")
	}

	forkID, err := id.Generate("story")
	if err != nil {
		return nil, domainerrors.Storage(err)
	}

	fork := &domain.Story{
		ID:         forkID,
		Title:      source.Title,
		Content:    source.Content,
		Excerpt:    source.Excerpt,
		CoverImage: source.CoverImage,
		AuthorID:   userID,
		ParentID:   source.ID,
		Status:     domain.StoryStatusDraft,
		CreatedAt:  time.Now(),
	}

	if err := s.store.CreateStory(ctx, fork); err != nil {
		return nil, translateStoreError(err)
	}

	if err := s.recordVersion(ctx, fork); err != nil {
		return nil, err
	}

	if err := s.store.IncrementStoryForks(ctx, source.ID); err != nil {
		// The fork exists; a lost counter bump is logged, not fatal.
		if s.logger != nil {
			s.logger.Warn("Failed to bump fork counter",
				"story_id", source.ID,
				"error", err,
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("Story forked",
			"story_id", forkID,
			"parent_id", source.ID,
			"author_id", userID,
		)
	}

	return fork, nil
}

// Publish transitions a story to published. Author only.
func (s *StoryService) Publish(ctx context.Context, userID, storyID string) (*domain.Story, error) {
	return s.setStatus(ctx, userID, storyID, domain.StoryStatusPublished)
}

// Archive transitions a story to archived, hiding it from listings and
// search without deleting it. Author only.
func (s *StoryService) Archive(ctx context.Context, userID, storyID string) (*domain.Story, error) {
	return s.setStatus(ctx, userID, storyID, domain.StoryStatusArchived)
}

// Delete permanently removes a story with its versions and tag joins.
// Author only, and only after archiving; publication is reversed by
// archiving, not deletion.
func (s *StoryService) Delete(ctx context.Context, userID, storyID string) error {
	story, err := s.ownedStory(ctx, userID, storyID)
	if err != nil {
		return err
	}
	if story.Status != domain.StoryStatusArchived {
		return domainerrors.Validation("only archived stories can be deleted")
	}
	if err := s.store.DeleteStory(ctx, storyID); err != nil {
		return translateStoreError(err)
	}
	return nil
}

// ListByAuthor returns all of an author's stories, newest first.
func (s *StoryService) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Story, error) {
	stories, err := s.store.ListStoriesByAuthor(ctx, authorID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return stories, nil
}

// ListPublished returns published stories, newest first. A non-positive
// limit uses the default page size; limits above the cap are clamped.
func (s *StoryService) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Story, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	stories, err := s.store.ListPublishedStories(ctx, limit, offset)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return stories, nil
}

// ListForks returns the stories forked from the given story, newest first.
func (s *StoryService) ListForks(ctx context.Context, storyID string) ([]*domain.Story, error) {
	forks, err := s.store.ListForks(ctx, storyID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return forks, nil
}

// Search finds published stories matching the query across title, content,
// excerpt, and tag names, newest first.
func (s *StoryService) Search(ctx context.Context, query string) ([]*domain.Story, error) {
	if query == "" {
		return nil, domainerrors.Validation("search query is required")
	}
	stories, err := s.store.SearchStories(ctx, query)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return stories, nil
}

// Versions returns a story's content history, newest first.
func (s *StoryService) Versions(ctx context.Context, storyID string) ([]*domain.StoryVersion, error) {
	if _, err := s.Get(ctx, storyID); err != nil {
		return nil, err
	}
	versions, err := s.store.ListStoryVersions(ctx, storyID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return versions, nil
}

// Tag attaches a tag to a story, creating the tag if needed. Author only.
// Tag names are normalized ("Slow Burn" → "slow-burn"); attaching an
// already-attached tag is a no-op.
func (s *StoryService) Tag(ctx context.Context, userID, storyID, name string) (*domain.Tag, error) {
	normalized := domain.NormalizeTagName(name)
	if normalized == "" {
		return nil, domainerrors.Validation("tag name is required")
	}

	if _, err := s.ownedStory(ctx, userID, storyID); err != nil {
		return nil, err
	}

	tag, err := s.getOrCreateTag(ctx, normalized)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddTagToStory(ctx, storyID, tag.ID); err != nil {
		return nil, translateStoreError(err)
	}
	return tag, nil
}

// Untag detaches a tag from a story. Author only, idempotent.
func (s *StoryService) Untag(ctx context.Context, userID, storyID, name string) error {
	if _, err := s.ownedStory(ctx, userID, storyID); err != nil {
		return err
	}

	tag, err := s.store.GetTagByName(ctx, domain.NormalizeTagName(name))
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil
		}
		return translateStoreError(err)
	}

	if err := s.store.RemoveTagFromStory(ctx, storyID, tag.ID); err != nil {
		return translateStoreError(err)
	}
	return nil
}

// StoryTags returns the tags attached to a story.
func (s *StoryService) StoryTags(ctx context.Context, storyID string) ([]*domain.Tag, error) {
	tags, err := s.store.GetStoryTags(ctx, storyID)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return tags, nil
}

// AllTags returns every tag, ordered by name.
func (s *StoryService) AllTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return tags, nil
}

// ownedStory loads a story and verifies the caller is its author.
func (s *StoryService) ownedStory(ctx context.Context, userID, storyID string) (*domain.Story, error) {
	story, err := s.Get(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.AuthorID != userID {
		return nil, domainerrors.Forbidden("only the author can modify this story")
	}
	return story, nil
}

// setStatus performs an author-only status transition.
func (s *StoryService) setStatus(ctx context.Context, userID, storyID string, status domain.StoryStatus) (*domain.Story, error) {
	story, err := s.ownedStory(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}
	if story.Status == status {
		return story, nil
	}

	story.Status = status
	if err := s.store.UpdateStory(ctx, story); err != nil {
		return nil, translateStoreError(err)
	}
	return story, nil
}

// recordVersion appends a content snapshot to the story's history.
func (s *StoryService) recordVersion(ctx context.Context, story *domain.Story) error {
	versionID, err := id.Generate("ver")
	if err != nil {
		return domainerrors.Storage(err)
	}
	version := &domain.StoryVersion{
		ID:        versionID,
		StoryID:   story.ID,
		Content:   story.Content,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateStoryVersion(ctx, version); err != nil {
		return translateStoreError(err)
	}
	return nil
}

// getOrCreateTag resolves a normalized tag name to a tag, creating it when
// absent. A concurrent creator losing the constraint race falls back to the
// fetch.
func (s *StoryService) getOrCreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	tag, err := s.store.GetTagByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, translateStoreError(err)
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, domainerrors.Storage(err)
	}
	tag = &domain.Tag{
		ID:        tagID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	err = s.store.CreateTag(ctx, tag)
	if err == nil {
		return tag, nil
	}
	if domainerrors.Is(err, store.ErrAlreadyExists) {
		// Lost the race; the winner's tag is the canonical one.
		tag, err = s.store.GetTagByName(ctx, name)
		if err != nil {
			return nil, translateStoreError(err)
		}
		return tag, nil
	}
	return nil, translateStoreError(err)
}

// translateStoreError maps storage sentinels to domain errors; anything
// unrecognized is a storage failure surfaced as 5xx-equivalent.
func translateStoreError(err error) error {
	switch {
	case domainerrors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("story not found").WithCause(err)
	case domainerrors.Is(err, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists("already exists").WithCause(err)
	case domainerrors.Is(err, store.ErrInvalidInput):
		return domainerrors.Validation("invalid reference").WithCause(err)
	default:
		return domainerrors.Storage(err)
	}
}
