package sqlrepo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/anzhiyu-c/boganto-blog/internal/infra/persistence/database"
	"github.com/anzhiyu-c/boganto-blog/pkg/constant"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenInMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

type fixture struct {
	posts      *postRepo
	books      *relatedBookRepo
	categories *categoryRepo
	banners    *bannerRepo
	admins     *adminRepo
}

func newFixture(t *testing.T) *fixture {
	db := openTestDB(t)
	return &fixture{
		posts:      NewPostRepo(db, dialect.SQLite, false).(*postRepo),
		books:      NewRelatedBookRepo(db, dialect.SQLite, false).(*relatedBookRepo),
		categories: NewCategoryRepo(db, dialect.SQLite, false).(*categoryRepo),
		banners:    NewBannerRepo(db, dialect.SQLite, false).(*bannerRepo),
		admins:     NewAdminRepo(db, dialect.SQLite, false).(*adminRepo),
	}
}

var baseTime = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func (f *fixture) category(t *testing.T, name, slug string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name, Slug: slug, Description: name + " books"}
	require.NoError(t, f.categories.Create(context.Background(), c))
	return c
}

// banner 直接写入轮播图，仓库本身不提供写接口
func (f *fixture) banner(t *testing.T, b *model.Banner) {
	t.Helper()
	ins := f.banners.builder().Insert(tableBanners).
		Columns("title", "subtitle", "image_url", "link_url", "sort_order", "is_active", "created_at").
		Values(b.Title, b.Subtitle, b.ImageURL, b.LinkURL, b.SortOrder, b.IsActive, baseTime)
	id, err := f.banners.insert(context.Background(), ins)
	require.NoError(t, err)
	b.ID = id
}

func (f *fixture) post(t *testing.T, slug string, categoryID int64, status string, minute int, mutate func(*model.Post)) *model.Post {
	t.Helper()
	p := &model.Post{
		Title:      slug,
		Slug:       slug,
		Content:    "<p>" + slug + " body</p>",
		CategoryID: categoryID,
		Status:     status,
		CreatedAt:  baseTime.Add(time.Duration(minute) * time.Minute),
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, f.posts.Create(context.Background(), p))
	return p
}

func slugsOf(posts []*model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func TestPostRepo_ListPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fiction := f.category(t, "Fiction", "fiction")
	tech := f.category(t, "Tech", "tech")

	f.post(t, "old-fiction", fiction.ID, constant.PostStatusPublished, 1, func(p *model.Post) { p.Tags = "novel,classic" })
	f.post(t, "mid-fiction", fiction.ID, constant.PostStatusPublished, 2, func(p *model.Post) { p.IsFeatured = true })
	f.post(t, "new-fiction", fiction.ID, constant.PostStatusPublished, 3, func(p *model.Post) { p.Tags = "novel" })
	f.post(t, "draft-fiction", fiction.ID, constant.PostStatusDraft, 4, nil)
	f.post(t, "golang-tips", tech.ID, constant.PostStatusPublished, 5, func(p *model.Post) {
		p.Title = "Golang tips"
		p.Content = "<p>goroutines and channels</p>"
	})

	featured := true
	notFeatured := false

	tests := []struct {
		name   string
		filter model.PostFilter
		want   []string
	}{
		{
			name:   "无过滤条件时返回全部已发布文章并按时间倒序",
			filter: model.PostFilter{},
			want:   []string{"golang-tips", "new-fiction", "mid-fiction", "old-fiction"},
		},
		{
			name:   "按分类过滤并限制条数",
			filter: model.PostFilter{Category: "fiction", Limit: 2},
			want:   []string{"new-fiction", "mid-fiction"},
		},
		{
			name:   "分页偏移",
			filter: model.PostFilter{Category: "fiction", Limit: 2, Offset: 2},
			want:   []string{"old-fiction"},
		},
		{
			name:   "标签子串匹配",
			filter: model.PostFilter{Tag: "novel"},
			want:   []string{"new-fiction", "old-fiction"},
		},
		{
			name:   "只看推荐文章",
			filter: model.PostFilter{Featured: &featured},
			want:   []string{"mid-fiction"},
		},
		{
			name:   "排除推荐文章",
			filter: model.PostFilter{Featured: &notFeatured, Category: "tech"},
			want:   []string{"golang-tips"},
		},
		{
			name:   "搜索正文",
			filter: model.PostFilter{Search: "channels"},
			want:   []string{"golang-tips"},
		},
		{
			name:   "未知分类返回空列表",
			filter: model.PostFilter{Category: "poetry"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := f.posts.ListPublished(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slugsOf(posts))
		})
	}
}

func TestPostRepo_ListPublishedJoinsCategory(t *testing.T) {
	f := newFixture(t)
	fiction := f.category(t, "Fiction", "fiction")
	f.post(t, "with-category", fiction.ID, constant.PostStatusPublished, 1, nil)
	f.post(t, "orphan", 999, constant.PostStatusPublished, 2, nil)

	posts, err := f.posts.ListPublished(context.Background(), model.PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "orphan", posts[0].Slug)
	assert.Equal(t, int64(999), posts[0].CategoryID)
	assert.Empty(t, posts[0].CategoryName)

	assert.Equal(t, "Fiction", posts[1].CategoryName)
	assert.Equal(t, "fiction", posts[1].CategorySlug)
	assert.Equal(t, baseTime.Add(time.Minute), posts[1].CreatedAt)
}

func TestPostRepo_FindPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	published := f.post(t, "visible", 1, constant.PostStatusPublished, 1, nil)
	draft := f.post(t, "hidden", 1, constant.PostStatusDraft, 2, nil)

	got, err := f.posts.FindPublishedByID(ctx, published.ID)
	require.NoError(t, err)
	assert.Equal(t, "visible", got.Slug)

	got, err = f.posts.FindPublishedBySlug(ctx, "visible")
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)

	_, err = f.posts.FindPublishedByID(ctx, draft.ID)
	assert.ErrorIs(t, err, constant.ErrNotFound)

	_, err = f.posts.FindPublishedBySlug(ctx, "hidden")
	assert.ErrorIs(t, err, constant.ErrNotFound)

	_, err = f.posts.FindPublishedByID(ctx, 12345)
	assert.ErrorIs(t, err, constant.ErrNotFound)
}

func TestPostRepo_CreateDuplicateSlugConflicts(t *testing.T) {
	f := newFixture(t)
	f.post(t, "hello-world", 1, constant.PostStatusPublished, 1, nil)

	dup := &model.Post{Title: "Hello World", Slug: "hello-world", Content: "x", CategoryID: 1, Status: constant.PostStatusDraft}
	err := f.posts.Create(context.Background(), dup)
	assert.ErrorIs(t, err, constant.ErrConflict)
	assert.Zero(t, dup.ID)
}

func TestPostRepo_IncrementViewCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "counted", 1, constant.PostStatusPublished, 1, nil)

	require.NoError(t, f.posts.IncrementViewCount(ctx, p.ID))
	require.NoError(t, f.posts.IncrementViewCount(ctx, p.ID))

	got, err := f.posts.FindPublishedByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)

	assert.ErrorIs(t, f.posts.IncrementViewCount(ctx, 404), constant.ErrNotFound)
}

func TestPostRepo_UpdateOverwritesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "editable", 1, constant.PostStatusDraft, 1, func(p *model.Post) {
		p.FeaturedImage = "/uploads/cover.png"
		p.Tags = "a,b"
	})

	p.Title = "Edited"
	p.Content = "<p>new</p>"
	p.Tags = ""
	p.Status = constant.PostStatusPublished
	p.IsFeatured = true
	p.Slug = "should-not-change"
	p.UpdatedAt = baseTime.Add(time.Hour)
	require.NoError(t, f.posts.Update(ctx, p))

	got, err := f.posts.FindPublishedByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, "editable", got.Slug)
	assert.Equal(t, "/uploads/cover.png", got.FeaturedImage)
	assert.Empty(t, got.Tags)
	assert.True(t, got.IsFeatured)
	assert.Equal(t, baseTime.Add(time.Hour), got.UpdatedAt)

	missing := &model.Post{ID: 999, Title: "x", Content: "y", CategoryID: 1, Status: constant.PostStatusDraft}
	assert.ErrorIs(t, f.posts.Update(ctx, missing), constant.ErrNotFound)
}

func TestPostRepo_DeleteRemovesBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "doomed", 1, constant.PostStatusPublished, 1, nil)
	require.NoError(t, f.books.Create(ctx, &model.RelatedBook{BlogID: p.ID, Title: "Dune", PurchaseLink: "https://example.com/dune"}))

	require.NoError(t, f.posts.Delete(ctx, p.ID))

	books, err := f.books.ListByBlog(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, books)

	assert.ErrorIs(t, f.posts.Delete(ctx, p.ID), constant.ErrNotFound)
}

func TestRelatedBookRepo_ReplaceFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.post(t, "reading-list", 1, constant.PostStatusPublished, 1, nil)

	for _, title := range []string{"First", "Second"} {
		require.NoError(t, f.books.Create(ctx, &model.RelatedBook{BlogID: p.ID, Title: title, PurchaseLink: "https://example.com/" + title, Price: "9.99"}))
	}
	books, err := f.books.ListByBlog(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "First", books[0].Title)
	assert.Equal(t, "9.99", books[1].Price)
	assert.Empty(t, books[1].Description)

	require.NoError(t, f.books.DeleteByBlog(ctx, p.ID))
	books, err = f.books.ListByBlog(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, books)

	err = f.books.Create(ctx, &model.RelatedBook{BlogID: 9999, Title: "Ghost", PurchaseLink: "https://example.com"})
	assert.Error(t, err, "外键约束应拒绝不存在的文章")
}

func TestCategoryRepo_ListWithCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tech := f.category(t, "Tech", "tech")
	art := f.category(t, "Art", "art")
	f.category(t, "Music", "music")

	f.post(t, "t1", tech.ID, constant.PostStatusPublished, 1, nil)
	f.post(t, "t2", tech.ID, constant.PostStatusPublished, 2, nil)
	f.post(t, "t3", tech.ID, constant.PostStatusDraft, 3, nil)
	f.post(t, "a1", art.ID, constant.PostStatusPublished, 4, nil)

	cats, err := f.categories.ListWithCounts(ctx, 0)
	require.NoError(t, err)
	require.Len(t, cats, 3)

	got := map[string]int{}
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		got[c.Slug] = c.BlogCount
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Art", "Music", "Tech"}, names)
	assert.Equal(t, map[string]int{"art": 1, "music": 0, "tech": 2}, got)

	limited, err := f.categories.ListWithCounts(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestBannerRepo_ListActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	banners := []*model.Banner{
		{Title: "Second", ImageURL: "/b.png", SortOrder: 2, IsActive: true},
		{Title: "Hidden", ImageURL: "/h.png", SortOrder: 0, IsActive: false},
		{Title: "First", ImageURL: "/a.png", SortOrder: 1, IsActive: true},
	}
	for _, b := range banners {
		f.banner(t, b)
	}

	got, err := f.banners.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Second", got[1].Title)
}

func TestAdminRepo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.admins.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	active := &model.Admin{Username: "root", Password: "secret", Name: "Root", Role: constant.RoleAdmin, IsActive: true}
	disabled := &model.Admin{Username: "ghost", Password: "secret", Role: constant.RoleAdmin, IsActive: false}
	require.NoError(t, f.admins.Create(ctx, active))
	require.NoError(t, f.admins.Create(ctx, disabled))

	got, err := f.admins.FindActiveByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, "Root", got.Name)
	assert.Nil(t, got.LastLogin)

	_, err = f.admins.FindActiveByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, constant.ErrNotFound)

	loginAt := baseTime.Add(5 * time.Hour)
	require.NoError(t, f.admins.UpdateLastLogin(ctx, active.ID, loginAt))
	require.NoError(t, f.admins.UpdatePassword(ctx, active.ID, "$2a$10$hash"))

	got, err = f.admins.FindActiveByUsername(ctx, "root")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, loginAt, *got.LastLogin)
	assert.Equal(t, "$2a$10$hash", got.Password)

	err = f.admins.Create(ctx, &model.Admin{Username: "root", Password: "x", Role: constant.RoleAdmin, IsActive: true})
	assert.ErrorIs(t, err, constant.ErrConflict)
}
