package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daveroberts0321/taleblock/internal/domain"
	domainerrors "github.com/daveroberts0321/taleblock/internal/errors"
)

func TestStoryCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")

	story, err := env.stories.Create(ctx, author.ID, CreateStoryRequest{
		Title:   "The Lighthouse",
		Content: "The keeper climbed the stairs every night without fail.",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(story.ID, "story-"))
	assert.Equal(t, author.ID, story.AuthorID)
	assert.Equal(t, domain.StoryStatusDraft, story.Status, "stories start as drafts")
	assert.Equal(t, story.Content, story.Excerpt, "short content becomes the excerpt verbatim")

	// Creation records the initial version.
	versions, err := env.stories.Versions(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, story.Content, versions[0].Content)
}

func TestStoryCreate_PublishAndExplicitExcerpt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")

	story, err := env.stories.Create(ctx, author.ID, CreateStoryRequest{
		Title:   "The Lighthouse",
		Content: "The keeper climbed the stairs every night without fail.",
		Excerpt: "A keeper and his light.",
		Publish: true,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StoryStatusPublished, story.Status)
	assert.Equal(t, "A keeper and his light.", story.Excerpt)
}

func TestStoryCreate_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")

	_, err := env.stories.Create(ctx, author.ID, CreateStoryRequest{Content: "no title"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = env.stories.Create(ctx, author.ID, CreateStoryRequest{Title: "no content"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = env.stories.Create(ctx, author.ID, CreateStoryRequest{
		Title:   strings.Repeat("t", 201),
		Content: "content",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestStoryRead_BumpsCounter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	story := env.createTestStory(t, author.ID, true)

	got, err := env.stories.Read(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Reads)

	got, err = env.stories.Read(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Reads)

	// Plain Get does not bump.
	got, err = env.stories.Get(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Reads)
}

func TestStoryUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	story := env.createTestStory(t, author.ID, false)

	// Title-only change keeps content and records no version.
	updated, err := env.stories.Update(ctx, author.ID, story.ID, UpdateStoryRequest{
		Title: "The Lighthouse, Revisited",
	})
	require.NoError(t, err)
	assert.Equal(t, "The Lighthouse, Revisited", updated.Title)
	assert.Equal(t, story.Content, updated.Content)

	versions, err := env.stories.Versions(ctx, story.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1, "no content change, no new version")

	// Content change appends a version and re-derives the excerpt.
	updated, err = env.stories.Update(ctx, author.ID, story.ID, UpdateStoryRequest{
		Content: "One night the light went out.",
	})
	require.NoError(t, err)
	assert.Equal(t, "One night the light went out.", updated.Content)
	assert.Equal(t, "One night the light went out.", updated.Excerpt)

	versions, err = env.stories.Versions(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "One night the light went out.", versions[0].Content, "newest first")
}

func TestStoryUpdate_AuthorOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	other := env.registerTestUser(t, "stranger")
	story := env.createTestStory(t, author.ID, true)

	_, err := env.stories.Update(ctx, other.ID, story.ID, UpdateStoryRequest{Title: "Mine Now"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden), "got %v", err)

	_, err = env.stories.Update(ctx, author.ID, "story-missing", UpdateStoryRequest{Title: "x"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound), "got %v", err)
}

func TestStoryFork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	forker := env.registerTestUser(t, "stranger")
	source := env.createTestStory(t, author.ID, true)

	fork, err := env.stories.Fork(ctx, forker.ID, source.ID)
	require.NoError(t, err)

	assert.NotEqual(t, source.ID, fork.ID)
	assert.Equal(t, source.ID, fork.ParentID)
	assert.Equal(t, forker.ID, fork.AuthorID)
	assert.Equal(t, domain.StoryStatusDraft, fork.Status, "forks start as drafts")
	assert.Equal(t, source.Title, fork.Title)
	assert.Equal(t, source.Content, fork.Content)
	assert.Zero(t, fork.Forks)
	assert.Zero(t, fork.Reads)

	// The source's fork counter was bumped.
	got, err := env.stories.Get(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Forks)

	// The fork has its own version history.
	versions, err := env.stories.Versions(ctx, fork.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)

	forks, err := env.stories.ListForks(ctx, source.ID)
	require.NoError(t, err)
	require.Len(t, forks, 1)
	assert.Equal(t, fork.ID, forks[0].ID)
}

func TestStoryFork_DraftRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	other := env.registerTestUser(t, "stranger")
	draft := env.createTestStory(t, author.ID, false)

	// Others cannot fork a draft.
	_, err := env.stories.Fork(ctx, other.ID, draft.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "got %v", err)

	// The author can fork their own draft.
	fork, err := env.stories.Fork(ctx, author.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, fork.ParentID)
}

func TestStoryPublishArchiveDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	other := env.registerTestUser(t, "stranger")
	story := env.createTestStory(t, author.ID, false)

	// Only the author can publish.
	_, err := env.stories.Publish(ctx, other.ID, story.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	published, err := env.stories.Publish(ctx, author.ID, story.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StoryStatusPublished, published.Status)

	// A published story cannot be deleted outright.
	err = env.stories.Delete(ctx, author.ID, story.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "got %v", err)

	archived, err := env.stories.Archive(ctx, author.ID, story.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StoryStatusArchived, archived.Status)

	// Archived stories disappear from the public listing.
	listed, err := env.stories.ListPublished(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, listed)

	require.NoError(t, env.stories.Delete(ctx, author.ID, story.ID))

	_, err = env.stories.Get(ctx, story.ID)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestStoryListPublished_Clamping(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")

	for i := 0; i < 25; i++ {
		env.createTestStory(t, author.ID, true)
	}

	// Non-positive limit falls back to the default page size.
	page, err := env.stories.ListPublished(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, 20)

	page, err = env.stories.ListPublished(ctx, -5, -10)
	require.NoError(t, err)
	assert.Len(t, page, 20)

	// Oversized limit is clamped, not rejected.
	page, err = env.stories.ListPublished(ctx, 10_000, 0)
	require.NoError(t, err)
	assert.Len(t, page, 25)
}

func TestStorySearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")

	story, err := env.stories.Create(ctx, author.ID, CreateStoryRequest{
		Title:   "Salt and Stars",
		Content: "The sea was calm that night.",
		Publish: true,
	})
	require.NoError(t, err)

	results, err := env.stories.Search(ctx, "calm")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, story.ID, results[0].ID)

	results, err = env.stories.Search(ctx, "zebra")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = env.stories.Search(ctx, "")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestStoryTagging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	other := env.registerTestUser(t, "stranger")
	story := env.createTestStory(t, author.ID, true)

	tag, err := env.stories.Tag(ctx, author.ID, story.ID, "  Slow Burn  ")
	require.NoError(t, err)
	assert.Equal(t, "slow-burn", tag.Name, "tag names are normalized")
	assert.True(t, strings.HasPrefix(tag.ID, "tag-"))

	// Tagging again with an equivalent spelling reuses the tag and is a no-op.
	again, err := env.stories.Tag(ctx, author.ID, story.ID, "SLOW BURN")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, again.ID)

	tags, err := env.stories.StoryTags(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "slow-burn", tags[0].Name)

	// Only the author can tag.
	_, err = env.stories.Tag(ctx, other.ID, story.ID, "stolen")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	// Search finds published stories through their tags.
	results, err := env.stories.Search(ctx, "slow-burn")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, story.ID, results[0].ID)

	// Untag is idempotent, even for tags that never existed.
	require.NoError(t, env.stories.Untag(ctx, author.ID, story.ID, "Slow Burn"))
	require.NoError(t, env.stories.Untag(ctx, author.ID, story.ID, "Slow Burn"))
	require.NoError(t, env.stories.Untag(ctx, author.ID, story.ID, "never-existed"))

	tags, err = env.stories.StoryTags(ctx, story.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	// The tag itself survives detachment and stays listed.
	all, err := env.stories.AllTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "slow-burn", all[0].Name)
}

func TestStoryTag_EmptyName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	story := env.createTestStory(t, author.ID, true)

	_, err := env.stories.Tag(ctx, author.ID, story.ID, "   ")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestStoryListByAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.registerTestUser(t, "keeper")
	other := env.registerTestUser(t, "stranger")

	env.createTestStory(t, author.ID, true)
	env.createTestStory(t, author.ID, false)
	env.createTestStory(t, other.ID, true)

	mine, err := env.stories.ListByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2, "drafts included in the author's own listing")

	theirs, err := env.stories.ListByAuthor(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestStoryVersions_UnknownStory(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.stories.Versions(context.Background(), "story-missing")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
