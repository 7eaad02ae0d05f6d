package blog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/boganto-blog/internal/infra/persistence/database"
	"github.com/anzhiyu-c/boganto-blog/internal/infra/persistence/sqlrepo"
	"github.com/anzhiyu-c/boganto-blog/internal/infra/storage"
	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/repository"
)

var fixedNow = time.Date(2025, 3, 9, 8, 30, 0, 0, time.UTC)

type harness struct {
	svc        *Service
	posts      repository.PostRepository
	books      repository.RelatedBookRepository
	categoryID int64
}

func newHarness(t *testing.T, images *fakeImages) *harness {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	categories := sqlrepo.NewCategoryRepo(db, dialect.SQLite, false)
	cat := &model.Category{Name: "Fiction", Slug: "fiction"}
	require.NoError(t, categories.Create(ctx, cat))

	h := &harness{
		posts:      sqlrepo.NewPostRepo(db, dialect.SQLite, false),
		books:      sqlrepo.NewRelatedBookRepo(db, dialect.SQLite, false),
		categoryID: cat.ID,
	}
	if images != nil {
		h.svc = NewService(h.posts, h.books, images)
	} else {
		h.svc = NewService(h.posts, h.books, nil)
	}
	h.svc.SetClock(func() time.Time { return fixedNow })
	return h
}

func (h *harness) create(t *testing.T, title, status string) *model.CreatePostResult {
	t.Helper()
	res, err := h.svc.CreatePost(context.Background(), &model.CreatePostRequest{
		Title:      title,
		Content:    "<p>Body of " + title + "</p>",
		CategoryID: h.categoryID,
		Status:     status,
	}, nil)
	require.NoError(t, err)
	return res
}

// fakeImages 记录上传与删除调用
type fakeImages struct {
	err     error
	removed []string
}

func (f *fakeImages) UploadImage(ctx context.Context, r io.Reader, filename string) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &storage.UploadResult{Key: "blog/2025/03/" + filename, URL: "/uploads/blog/2025/03/" + filename}, nil
}

func (f *fakeImages) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

func TestCreatePost_SlugRetry(t *testing.T) {
	h := newHarness(t, nil)

	first := h.create(t, "Hello World!", constant.PostStatusPublished)
	second := h.create(t, "Hello   World", constant.PostStatusPublished)
	third := h.create(t, "hello-world", constant.PostStatusDraft)

	ts := fixedNow.Unix()
	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, fmt.Sprintf("hello-world-%d", ts), second.Slug)
	assert.Equal(t, fmt.Sprintf("hello-world-%d-2", ts), third.Slug)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreatePost_SlugExhausted(t *testing.T) {
	h := newHarness(t, nil)
	for i := 0; i < maxSlugAttempts; i++ {
		h.create(t, "Same", constant.PostStatusDraft)
	}

	_, err := h.svc.CreatePost(context.Background(), &model.CreatePostRequest{
		Title: "Same", Content: "x", CategoryID: h.categoryID,
	}, nil)
	assert.ErrorIs(t, err, ErrSlugExhausted)
}

func TestCreatePost_Validation(t *testing.T) {
	h := newHarness(t, nil)

	tests := []struct {
		name    string
		req     model.CreatePostRequest
		wantMsg string
	}{
		{"缺少标题", model.CreatePostRequest{Content: "c", CategoryID: h.categoryID}, msgCreateRequired},
		{"标题只有标签", model.CreatePostRequest{Title: "<b></b>", Content: "c", CategoryID: h.categoryID}, msgCreateRequired},
		{"缺少内容", model.CreatePostRequest{Title: "t", Content: "  ", CategoryID: h.categoryID}, msgCreateRequired},
		{"缺少分类", model.CreatePostRequest{Title: "t", Content: "c"}, msgCreateRequired},
		{"非法状态", model.CreatePostRequest{Title: "t", Content: "c", CategoryID: h.categoryID, Status: "archived"}, msgInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.svc.CreatePost(context.Background(), &tt.req, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, constant.ErrBadRequest)
			var ve *constant.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantMsg, ve.Message)
		})
	}
}

func TestCreatePost_Defaults(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	long := "<p>" + strings.Repeat("文", 250) + "</p>"
	res, err := h.svc.CreatePost(ctx, &model.CreatePostRequest{
		Title:      "Defaults <script>x</script>",
		Content:    long,
		CategoryID: h.categoryID,
		Tags:       "go, books",
		Status:     "PUBLISHED",
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	p, err := h.posts.FindPublishedByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Defaults", p.Title)
	assert.Equal(t, strings.Repeat("文", 200)+"...", p.Excerpt)
	assert.Equal(t, p.Title, p.MetaTitle)
	assert.Equal(t, p.Excerpt, p.MetaDescription)
	assert.Equal(t, long, p.Content)
	assert.Empty(t, p.FeaturedImage)

	draft := h.create(t, "Draft only", "")
	_, err = h.svc.GetPostByID(ctx, draft.ID)
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestCreatePost_RelatedBookWarnings(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	res, err := h.svc.CreatePost(ctx, &model.CreatePostRequest{
		Title:      "With books",
		Content:    "c",
		CategoryID: h.categoryID,
		Status:     constant.PostStatusPublished,
		RelatedBooks: []model.RelatedBookInput{
			{Title: "Dune", PurchaseLink: "https://example.com/dune", Price: "9.99"},
			{Title: "No link"},
			{Title: "Foundation", PurchaseLink: "https://example.com/foundation"},
		},
	}, nil)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "#2")

	view, err := h.svc.GetPostByID(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, view.RelatedBooks, 2)
	assert.Equal(t, "Dune", view.RelatedBooks[0].Title)
	assert.Equal(t, "Foundation", view.RelatedBooks[1].Title)
}

type mockBookRepo struct {
	mock.Mock
}

func (m *mockBookRepo) ListByBlog(ctx context.Context, blogID int64) ([]*model.RelatedBook, error) {
	args := m.Called(ctx, blogID)
	books, _ := args.Get(0).([]*model.RelatedBook)
	return books, args.Error(1)
}

func (m *mockBookRepo) DeleteByBlog(ctx context.Context, blogID int64) error {
	return m.Called(ctx, blogID).Error(0)
}

func (m *mockBookRepo) Create(ctx context.Context, book *model.RelatedBook) error {
	return m.Called(ctx, book).Error(0)
}

func TestCreatePost_BookFailuresDoNotFailCreation(t *testing.T) {
	h := newHarness(t, nil)
	books := new(mockBookRepo)
	books.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	svc := NewService(h.posts, books, nil)

	res, err := svc.CreatePost(context.Background(), &model.CreatePostRequest{
		Title:        "Still created",
		Content:      "c",
		CategoryID:   h.categoryID,
		RelatedBooks: []model.RelatedBookInput{{Title: "Dune", PurchaseLink: "https://example.com"}},
	}, nil)
	require.NoError(t, err)
	assert.Positive(t, res.ID)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "disk full")
	books.AssertExpectations(t)
}

func TestCreatePost_Image(t *testing.T) {
	t.Run("上传成功写入封面地址", func(t *testing.T) {
		images := &fakeImages{}
		h := newHarness(t, images)
		res, err := h.svc.CreatePost(context.Background(), &model.CreatePostRequest{
			Title: "Cover", Content: "c", CategoryID: h.categoryID, Status: constant.PostStatusPublished,
		}, &ImageFile{Reader: strings.NewReader("img"), Filename: "a.png"})
		require.NoError(t, err)

		p, err := h.posts.FindPublishedByID(context.Background(), res.ID)
		require.NoError(t, err)
		assert.Equal(t, "/uploads/blog/2025/03/a.png", p.FeaturedImage)
	})

	t.Run("没有文件时忽略", func(t *testing.T) {
		h := newHarness(t, &fakeImages{err: constant.ErrNoFile})
		_, err := h.svc.CreatePost(context.Background(), &model.CreatePostRequest{
			Title: "No cover", Content: "c", CategoryID: h.categoryID,
		}, &ImageFile{Reader: strings.NewReader(""), Filename: "a.png"})
		assert.NoError(t, err)
	})

	t.Run("上传失败不写入文章", func(t *testing.T) {
		h := newHarness(t, &fakeImages{err: constant.NewUploadError("Failed to upload featured image", nil)})
		_, err := h.svc.CreatePost(context.Background(), &model.CreatePostRequest{
			Title: "Broken", Content: "c", CategoryID: h.categoryID, Status: constant.PostStatusPublished,
		}, &ImageFile{Reader: strings.NewReader("x"), Filename: "a.png"})
		assert.ErrorIs(t, err, constant.ErrUpload)

		list, err := h.svc.ListPosts(context.Background(), model.PostFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("插入失败时删除已上传的封面", func(t *testing.T) {
		images := &fakeImages{}
		h := newHarness(t, images)
		svc := NewService(failingPostRepo{h.posts}, h.books, images)
		_, err := svc.CreatePost(context.Background(), &model.CreatePostRequest{
			Title: "Fails", Content: "c", CategoryID: h.categoryID,
		}, &ImageFile{Reader: strings.NewReader("x"), Filename: "b.png"})
		require.Error(t, err)
		assert.Equal(t, []string{"blog/2025/03/b.png"}, images.removed)
	})
}

type failingPostRepo struct {
	repository.PostRepository
}

func (failingPostRepo) Create(context.Context, *model.Post) error {
	return errors.New("database is locked")
}

func TestGetPost_ViewCount(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	res := h.create(t, "Counted", constant.PostStatusPublished)

	first, err := h.svc.GetPostByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.ViewCount)
	assert.NotNil(t, first.RelatedBooks)

	_, err = h.svc.GetPostBySlug(ctx, res.Slug)
	require.NoError(t, err)

	p, err := h.posts.FindPublishedByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.ViewCount)

	_, err = h.svc.GetPostBySlug(ctx, "missing")
	assert.ErrorIs(t, err, constant.ErrNotFound)
	_, err = h.svc.GetPostByID(ctx, 0)
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestListPosts(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	clock := fixedNow
	h.svc.SetClock(func() time.Time { return clock })
	for i, title := range []string{"One", "Two", "Three"} {
		clock = fixedNow.Add(time.Duration(i) * time.Minute)
		h.create(t, title, constant.PostStatusPublished)
	}
	h.create(t, "Hidden", constant.PostStatusDraft)

	all, err := h.svc.ListPosts(ctx, model.PostFilter{Limit: -1, Offset: -5})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "three", all[0].Slug)
	assert.Equal(t, "fiction", all[0].Category.Slug)

	limited, err := h.svc.ListPosts(ctx, model.PostFilter{Category: "fiction", Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, []string{"three", "two"}, []string{limited[0].Slug, limited[1].Slug})

	none, err := h.svc.ListPosts(ctx, model.PostFilter{Category: "poetry"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdatePost(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	res, err := h.svc.CreatePost(ctx, &model.CreatePostRequest{
		Title: "Original", Content: "c", CategoryID: h.categoryID, Status: constant.PostStatusPublished,
		RelatedBooks: []model.RelatedBookInput{{Title: "Old", PurchaseLink: "https://example.com/old"}},
	}, nil)
	require.NoError(t, err)

	t.Run("不带 related_books 时保留原有书籍", func(t *testing.T) {
		warnings, err := h.svc.UpdatePost(ctx, &model.UpdatePostRequest{
			ID: res.ID, Title: "Renamed", Content: "new", CategoryID: h.categoryID, Status: constant.PostStatusPublished,
		})
		require.NoError(t, err)
		assert.Empty(t, warnings)

		view, err := h.svc.GetPostByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", view.Title)
		assert.Equal(t, "original", view.Slug)
		require.Len(t, view.RelatedBooks, 1)
	})

	t.Run("带 related_books 时整体替换", func(t *testing.T) {
		_, err := h.svc.UpdatePost(ctx, &model.UpdatePostRequest{
			ID: res.ID, Title: "Renamed", Content: "new", CategoryID: h.categoryID, Status: constant.PostStatusPublished,
			RelatedBooks:    []model.RelatedBookInput{{Title: "New", PurchaseLink: "https://example.com/new"}},
			HasRelatedBooks: true,
		})
		require.NoError(t, err)

		books, err := h.books.ListByBlog(ctx, res.ID)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "New", books[0].Title)
	})

	t.Run("状态缺省为草稿", func(t *testing.T) {
		_, err := h.svc.UpdatePost(ctx, &model.UpdatePostRequest{
			ID: res.ID, Title: "Renamed", Content: "new", CategoryID: h.categoryID,
		})
		require.NoError(t, err)
		_, err = h.svc.GetPostByID(ctx, res.ID)
		assert.ErrorIs(t, err, constant.ErrNotFound)
	})

	t.Run("文章不存在", func(t *testing.T) {
		_, err := h.svc.UpdatePost(ctx, &model.UpdatePostRequest{
			ID: 999, Title: "x", Content: "y", CategoryID: h.categoryID,
		})
		assert.ErrorIs(t, err, constant.ErrNotFound)
	})

	t.Run("缺少必填字段", func(t *testing.T) {
		_, err := h.svc.UpdatePost(ctx, &model.UpdatePostRequest{Title: "x", Content: "y", CategoryID: h.categoryID})
		var ve *constant.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, msgUpdateRequired, ve.Message)
	})
}

func TestDeletePost(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	res, err := h.svc.CreatePost(ctx, &model.CreatePostRequest{
		Title: "Doomed", Content: "c", CategoryID: h.categoryID,
		RelatedBooks: []model.RelatedBookInput{{Title: "Gone", PurchaseLink: "https://example.com"}},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, h.svc.DeletePost(ctx, res.ID))
	books, err := h.books.ListByBlog(ctx, res.ID)
	require.NoError(t, err)
	assert.Empty(t, books)

	assert.ErrorIs(t, h.svc.DeletePost(ctx, res.ID), constant.ErrNotFound)
	assert.ErrorIs(t, h.svc.DeletePost(ctx, 999), constant.ErrNotFound)

	var ve *constant.ValidationError
	require.ErrorAs(t, h.svc.DeletePost(ctx, 0), &ve)
	assert.Equal(t, msgDeleteRequired, ve.Message)
}
