package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/database"
	"github.com/siahsang/postfeed/internal/filter"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	core *Core
	db   *gorm.DB
	ctx  context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(ctx, "sqlite::memory:", database.Options{}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(ctx, db))

	paginator, err := filter.NewPaginator(10)
	require.NoError(t, err)

	return &testEnv{
		core: NewCore(log, databaseutils.NewSQLTemplate(db, 3*time.Second), paginator),
		db:   db,
		ctx:  ctx,
	}
}

func (e *testEnv) user(t *testing.T, username string) *auth.User {
	t.Helper()
	u := &auth.User{
		Username: username,
		Email:    username + "@example.com",
		Password: []byte("not-a-real-hash"),
	}
	require.NoError(t, e.core.CreateNewUser(e.ctx, u))
	return u
}

func (e *testEnv) group(t *testing.T, slug string) *models.Group {
	t.Helper()
	g, err := e.core.CreateGroup(e.ctx, &models.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug})
	require.NoError(t, err)
	return g
}

// post creates a post whose creation time is baseTime plus offset.
func (e *testEnv) post(t *testing.T, author *auth.User, group *models.Group, offset time.Duration) *models.Post {
	t.Helper()
	p := &models.Post{
		Text:      "post by " + author.Username,
		AuthorID:  author.ID,
		CreatedAt: baseTime.Add(offset),
	}
	if group != nil {
		p.GroupID = &group.ID
	}
	p, err := e.core.CreatePost(e.ctx, p)
	require.NoError(t, err)
	return p
}

func postIDs(posts []*models.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
