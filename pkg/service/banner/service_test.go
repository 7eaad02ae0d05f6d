package banner

import (
	"context"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anzhiyu-c/boganto-blog/internal/infra/persistence/database"
	"github.com/anzhiyu-c/boganto-blog/internal/infra/persistence/sqlrepo"
	"github.com/anzhiyu-c/boganto-blog/pkg/domain/model"
)

func TestService_ListActive(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenInMemory(ctx)
	require.NoError(t, err)
	defer db.Close()

	repo := sqlrepo.NewBannerRepo(db, dialect.SQLite, false)
	for _, b := range []*model.Banner{
		{Title: "second", SortOrder: 2, IsActive: true},
		{Title: "hidden", SortOrder: 0, IsActive: false},
		{Title: "first", SortOrder: 1, IsActive: true},
		{Title: "first-tie", SortOrder: 1, IsActive: true},
	} {
		_, err := db.ExecContext(ctx,
			`INSERT INTO banner_images (title, image_url, sort_order, is_active) VALUES (?, ?, ?, ?)`,
			b.Title, b.ImageURL, b.SortOrder, b.IsActive)
		require.NoError(t, err)
	}

	views, err := NewService(repo).ListActive(ctx)
	require.NoError(t, err)

	titles := make([]string, 0, len(views))
	for _, v := range views {
		titles = append(titles, v.Title)
	}
	assert.Equal(t, []string{"first", "first-tie", "second"}, titles)
}

func TestService_ListActiveEmpty(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenInMemory(ctx)
	require.NoError(t, err)
	defer db.Close()

	views, err := NewService(sqlrepo.NewBannerRepo(db, dialect.SQLite, false)).ListActive(ctx)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}
