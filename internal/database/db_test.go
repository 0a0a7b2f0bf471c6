package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_RejectsUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "mysql://root@localhost/db", Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.ErrorIs(t, err, ErrUnsupportedDSN)
}

func TestMigrate_EnforcesFollowUniqueness(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite::memory:", Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(ctx, db))

	users := []*auth.User{
		{Username: "a", Email: "a@example.com", Password: []byte("x")},
		{Username: "b", Email: "b@example.com", Password: []byte("x")},
	}
	require.NoError(t, db.Create(&users).Error)

	require.NoError(t, db.Create(&models.Follow{UserID: users[1].ID, AuthorID: users[0].ID}).Error)
	err = db.Create(&models.Follow{UserID: users[1].ID, AuthorID: users[0].ID}).Error
	assert.Error(t, err)
}
