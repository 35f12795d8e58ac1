package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// IN-MEMORY REPOSITORY FAKE
// =====================================================

// fakePostRepo implements repository.PostRepository with the same
// contracts as the postgres implementation: ordering, the published
// filter on GetBySlug, the slug unique constraint and the ownership
// row predicate on Update/Delete.
type fakePostRepo struct {
	posts      map[uuid.UUID]*model.Post
	categories map[uuid.UUID][]uuid.UUID

	readErr   error // injected failure for read intents
	readCalls int   // round-trip counter
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:      map[uuid.UUID]*model.Post{},
		categories: map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakePostRepo) sorted(filter func(*model.Post) bool) []*model.Post {
	out := []*model.Post{}
	for _, p := range f.posts {
		if filter(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakePostRepo) ListPublished(ctx context.Context) ([]*model.Post, error) {
	f.readCalls++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.sorted(func(p *model.Post) bool { return p.Published }), nil
}

func (f *fakePostRepo) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	f.readCalls++
	if f.readErr != nil {
		return nil, f.readErr
	}
	for _, p := range f.posts {
		if p.Slug == slug && p.Published {
			cp := *p
			return &cp, nil
		}
	}
	return nil, model.ErrPostNotFound
}

func (f *fakePostRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	f.readCalls++
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.sorted(func(p *model.Post) bool { return p.AuthorID == authorID }), nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, model.ErrPostNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	for _, p := range f.posts {
		if p.Slug == post.Slug {
			return model.ErrSlugTaken
		}
	}
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) Update(ctx context.Context, post *model.Post, requesterID uuid.UUID) error {
	existing, ok := f.posts[post.ID]
	// the ownership row predicate
	if !ok || existing.AuthorID != requesterID {
		return model.ErrPostNotFound
	}
	for _, p := range f.posts {
		if p.ID != post.ID && p.Slug == post.Slug {
			return model.ErrSlugTaken
		}
	}
	cp := *post
	cp.AuthorID = existing.AuthorID
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	existing, ok := f.posts[id]
	if !ok || existing.AuthorID != requesterID {
		return model.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) SetCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	f.categories[postID] = categoryIDs
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func seedPost(t *testing.T, svc ServiceInterface, author uuid.UUID, title, slug string, published bool) *model.PostResponse {
	t.Helper()
	post, err := svc.CreatePost(context.Background(), author, model.CreatePostRequest{
		Title:     title,
		Slug:      slug,
		Content:   "content of " + title,
		Published: published,
	})
	require.NoError(t, err)
	return post
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var postErr *model.PostError
	require.ErrorAs(t, err, &postErr)
	return postErr.Code
}

// =====================================================
// VISIBILITY
// =====================================================

func TestGetBySlugPublishedVisibility(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()
	author := uuid.New()

	published := seedPost(t, svc, author, "Public Post", "public-post", true)
	seedPost(t, svc, author, "Draft Post", "draft-post", false)

	// published slug resolves
	got, err := svc.GetBySlug(ctx, "public-post")
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
	assert.Equal(t, "Public Post", got.Title)

	// unpublished slug resolves exactly like a nonexistent one
	_, err = svc.GetBySlug(ctx, "draft-post")
	require.Error(t, err)
	assert.Equal(t, model.ErrCodePostNotFound, errCode(t, err))

	_, err = svc.GetBySlug(ctx, "no-such-slug")
	require.Error(t, err)
	assert.Equal(t, model.ErrCodePostNotFound, errCode(t, err))
}

func TestListPublishedNeverLeaksDrafts(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	author := uuid.New()

	seedPost(t, svc, author, "One", "one", true)
	seedPost(t, svc, author, "Two", "two", false)
	seedPost(t, svc, author, "Three", "three", true)

	posts := svc.ListPublished(context.Background())
	assert.Len(t, posts, 2)
	for _, p := range posts {
		assert.True(t, p.Published)
	}
}

func TestListMyPostsIncludesDraftsExcludesOthers(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	mine := uuid.New()
	other := uuid.New()

	seedPost(t, svc, mine, "Mine Published", "mine-published", true)
	seedPost(t, svc, mine, "Mine Draft", "mine-draft", false)
	seedPost(t, svc, other, "Not Mine", "not-mine", true)

	posts := svc.ListMyPosts(context.Background(), mine)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, mine, p.AuthorID)
	}
}

func TestListPublishedOrderingNewestFirst(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	author := uuid.New()

	// seed with explicit timestamps to pin the ordering contract
	base := time.Now().Add(-time.Hour)
	for i, slug := range []string{"oldest", "middle", "newest"} {
		id := uuid.New()
		repo.posts[id] = &model.Post{
			ID:        id,
			Title:     slug,
			Slug:      slug,
			Content:   "c",
			Published: true,
			AuthorID:  author,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
		}
	}

	posts := svc.ListPublished(context.Background())
	require.Len(t, posts, 3)
	assert.Equal(t, "newest", posts[0].Slug)
	assert.Equal(t, "middle", posts[1].Slug)
	assert.Equal(t, "oldest", posts[2].Slug)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}
}

// =====================================================
// ROUND TRIPS
// =====================================================

func TestListPublishedIsOneRoundTrip(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	author := uuid.New()

	for _, slug := range []string{"a", "b", "c", "d", "e"} {
		seedPost(t, svc, author, slug, slug, true)
	}

	repo.readCalls = 0
	posts := svc.ListPublished(context.Background())
	require.Len(t, posts, 5)

	// one query per page, however many posts and authors it spans
	assert.Equal(t, 1, repo.readCalls)
}

// =====================================================
// READ FAILURE POLICY
// =====================================================

func TestReadsCollapseStoreErrors(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()

	repo.readErr = errors.New("connection refused")

	posts := svc.ListPublished(ctx)
	assert.Empty(t, posts)

	posts = svc.ListMyPosts(ctx, uuid.New())
	assert.Empty(t, posts)

	_, err := svc.GetBySlug(ctx, "anything")
	require.Error(t, err)
	assert.Equal(t, model.ErrCodePostNotFound, errCode(t, err))
}

// =====================================================
// CREATE
// =====================================================

func TestCreatePostValidation(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()
	author := uuid.New()

	_, err := svc.CreatePost(ctx, author, model.CreatePostRequest{
		Title: "", Slug: "x", Content: "body",
	})
	require.Error(t, err)
	assert.Equal(t, model.ErrCodeValidation, errCode(t, err))

	_, err = svc.CreatePost(ctx, author, model.CreatePostRequest{
		Title: "Title", Slug: "x", Content: "",
	})
	require.Error(t, err)
	assert.Equal(t, model.ErrCodeValidation, errCode(t, err))

	// slug underivable from a punctuation-only title
	_, err = svc.CreatePost(ctx, author, model.CreatePostRequest{
		Title: "!!!", Content: "body",
	})
	require.Error(t, err)
	assert.Equal(t, model.ErrCodeValidation, errCode(t, err))
}

func TestCreatePostDerivesSlugFromTitle(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	author := uuid.New()

	post, err := svc.CreatePost(context.Background(), author, model.CreatePostRequest{
		Title:   "My First Post!",
		Content: "body",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-first-post", post.Slug)
}

func TestCreatePostFixesAuthorship(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	author := uuid.New()

	post := seedPost(t, svc, author, "Hello", "hello", false)
	assert.Equal(t, author, post.AuthorID)

	stored := repo.posts[post.ID]
	assert.Equal(t, author, stored.AuthorID)
}

func TestCreateDuplicateSlugConflict(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()
	author := uuid.New()

	first, err := svc.CreatePost(ctx, author, model.CreatePostRequest{
		Title: "Hello", Slug: "hello", Content: "World", Published: true,
	})
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, author, model.CreatePostRequest{
		Title: "Hello Again", Slug: "hello", Content: "Other",
	})
	require.Error(t, err)
	assert.Equal(t, model.ErrCodeSlugTaken, errCode(t, err))

	// the first post is retrievable, unchanged
	got, err := svc.GetBySlug(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "World", got.Content)
}

// =====================================================
// UPDATE / DELETE AUTHORIZATION
// =====================================================

func TestUpdateByNonAuthorFails(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	post := seedPost(t, svc, owner, "Hello", "hello", true)

	_, err := svc.UpdatePost(ctx, intruder, post.ID, model.UpdatePostRequest{
		Title: "Hijacked", Slug: "hello", Content: "pwned",
	})
	require.Error(t, err)
	assert.Equal(t, model.ErrCodeNotAuthor, errCode(t, err))

	// store unchanged
	stored := repo.posts[post.ID]
	assert.Equal(t, "Hello", stored.Title)
	assert.Equal(t, "content of Hello", stored.Content)
}

func TestDeleteByNonAuthorFails(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	post := seedPost(t, svc, owner, "Hello", "hello", true)

	err := svc.DeletePost(ctx, intruder, post.ID)
	require.Error(t, err)
	assert.Equal(t, model.ErrCodeNotAuthor, errCode(t, err))
	assert.Contains(t, repo.posts, post.ID)

	// the owner can delete, permanently
	require.NoError(t, svc.DeletePost(ctx, owner, post.ID))
	assert.NotContains(t, repo.posts, post.ID)
}

func TestUpdateRowPredicateBacksUpAdvisoryCheck(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()
	owner := uuid.New()

	post := seedPost(t, svc, owner, "Hello", "hello", true)

	// simulate the row changing hands between the advisory check
	// and the write: the predicate still rejects it
	stored := repo.posts[post.ID]
	advisory := *stored
	stored.AuthorID = uuid.New()

	err := repo.Update(ctx, &advisory, owner)
	require.ErrorIs(t, err, model.ErrPostNotFound)
	assert.Equal(t, "Hello", repo.posts[post.ID].Title)
}

func TestUpdateIsIdempotentExceptTimestamp(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()
	owner := uuid.New()

	post := seedPost(t, svc, owner, "Hello", "hello", false)

	req := model.UpdatePostRequest{
		Title: "Hello", Slug: "hello", Content: "content of Hello", Published: false,
	}

	first, err := svc.UpdatePost(ctx, owner, post.ID, req)
	require.NoError(t, err)

	second, err := svc.UpdatePost(ctx, owner, post.ID, req)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Slug, second.Slug)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, first.Published, second.Published)
	assert.Equal(t, first.AuthorID, second.AuthorID)
}

func TestUpdateNonexistentPostIsNotFound(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)

	_, err := svc.UpdatePost(context.Background(), uuid.New(), uuid.New(), model.UpdatePostRequest{
		Title: "t", Slug: "s", Content: "c",
	})
	require.Error(t, err)
	assert.Equal(t, model.ErrCodePostNotFound, errCode(t, err))
}

// =====================================================
// SCENARIO: DRAFT -> PUBLISH LIFECYCLE
// =====================================================

func TestDraftPublishLifecycle(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()
	u1 := uuid.New()
	u2 := uuid.New()

	// create draft as U1
	post, err := svc.CreatePost(ctx, u1, model.CreatePostRequest{
		Title: "Hello", Slug: "hello", Content: "World", Published: false,
	})
	require.NoError(t, err)

	// dashboard sees it, the public paths do not
	mine := svc.ListMyPosts(ctx, u1)
	require.Len(t, mine, 1)
	assert.Empty(t, svc.ListPublished(ctx))

	_, err = svc.GetBySlug(ctx, "hello")
	require.Error(t, err)

	// U2 cannot publish it
	_, err = svc.UpdatePost(ctx, u2, post.ID, model.UpdatePostRequest{
		Title: "Hello", Slug: "hello", Content: "World", Published: true,
	})
	require.Error(t, err)
	assert.Equal(t, model.ErrCodeNotAuthor, errCode(t, err))

	// U1 publishes; the slug now resolves
	_, err = svc.UpdatePost(ctx, u1, post.ID, model.UpdatePostRequest{
		Title: "Hello", Slug: "hello", Content: "World", Published: true,
	})
	require.NoError(t, err)

	got, err := svc.GetBySlug(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Len(t, svc.ListPublished(ctx), 1)
}

// =====================================================
// AUTHOR DEGRADATION
// =====================================================

func TestMissingAuthorProfileDegradesToNil(t *testing.T) {
	repo := newFakePostRepo()
	svc := NewPostService(repo)
	ctx := context.Background()

	// a post whose author row is gone: the join yields no profile
	id := uuid.New()
	repo.posts[id] = &model.Post{
		ID:        id,
		Title:     "Orphan",
		Slug:      "orphan",
		Content:   "c",
		Published: true,
		AuthorID:  uuid.New(),
		CreatedAt: time.Now(),
		Author:    nil,
	}

	got, err := svc.GetBySlug(ctx, "orphan")
	require.NoError(t, err)
	assert.Nil(t, got.Author)

	posts := svc.ListPublished(ctx)
	require.Len(t, posts, 1)
	assert.Nil(t, posts[0].Author)
}
