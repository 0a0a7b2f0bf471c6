package core

import (
	"testing"
	"time"

	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteGroup_KeepsPosts(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "author")
	g := env.group(t, "test-slug")
	p := env.post(t, a, g, 0)

	require.NoError(t, env.core.DeleteGroup(env.ctx, "test-slug"))

	survivor, err := env.core.GetPost(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, survivor.GroupID)
	assert.Nil(t, survivor.Group)

	require.ErrorIs(t, env.core.DeleteGroup(env.ctx, "test-slug"), NoRecordFound)
}

func TestCreateGroup_DuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	env.group(t, "cats")

	_, err := env.core.CreateGroup(env.ctx, &models.Group{Title: "again", Slug: "cats", Description: "dup"})
	require.ErrorIs(t, err, ErrDuplicatedSlug)
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "author")
	intruder := env.user(t, "intruder")
	g := env.group(t, "cats")
	p := env.post(t, a, nil, 0)

	_, err := env.core.UpdatePost(env.ctx, intruder, p.ID, PostChanges{Text: "hijacked"})
	require.ErrorIs(t, err, ErrPermissionDenied)

	unchanged, err := env.core.GetPost(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Text, unchanged.Text)

	updated, err := env.core.UpdatePost(env.ctx, a, p.ID, PostChanges{Text: "edited", GroupID: &g.ID})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	require.NotNil(t, updated.Group)
	assert.Equal(t, "cats", updated.Group.Slug)
	assert.Equal(t, p.CreatedAt.Unix(), updated.CreatedAt.Unix())

	_, err = env.core.UpdatePost(env.ctx, a, 9999, PostChanges{Text: "nothing"})
	require.ErrorIs(t, err, NoRecordFound)
}

func TestDeletePost_RemovesComments(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "author")
	b := env.user(t, "reader")
	p := env.post(t, a, nil, 0)

	_, err := env.core.CreateComment(env.ctx, &models.Comment{Text: "nice", PostID: p.ID, AuthorID: b.ID})
	require.NoError(t, err)

	_, err = env.core.DeletePost(env.ctx, b, p.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.core.DeletePost(env.ctx, a, p.ID)
	require.NoError(t, err)

	_, err = env.core.GetPost(env.ctx, p.ID)
	require.ErrorIs(t, err, NoRecordFound)

	var remaining int64
	require.NoError(t, env.db.Model(&models.Comment{}).Where("post_id = ?", p.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestGetPostDetail(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "author")
	b := env.user(t, "reader")
	p := env.post(t, a, nil, 0)
	env.post(t, a, nil, time.Second)

	for _, text := range []string{"first", "second"} {
		_, err := env.core.CreateComment(env.ctx, &models.Comment{Text: text, PostID: p.ID, AuthorID: b.ID})
		require.NoError(t, err)
	}

	detail, err := env.core.GetPostDetail(env.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, detail.Post.ID)
	assert.Equal(t, "author", detail.Post.Author.Username)
	assert.Equal(t, int64(2), detail.AuthorPostsCount)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "first", detail.Comments[0].Text)
	assert.Equal(t, "reader", detail.Comments[1].Author.Username)

	_, err = env.core.GetPostDetail(env.ctx, 9999)
	require.ErrorIs(t, err, NoRecordFound)
}

func TestCreateComment_UnknownPost(t *testing.T) {
	env := newTestEnv(t)
	b := env.user(t, "reader")

	_, err := env.core.CreateComment(env.ctx, &models.Comment{Text: "hello", PostID: 42, AuthorID: b.ID})
	require.ErrorIs(t, err, NoRecordFound)
}

func TestCreateNewUser_Duplicates(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "leo")

	err := env.core.CreateNewUser(env.ctx, &auth.User{Username: "other", Email: "leo@example.com", Password: []byte("x")})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	err = env.core.CreateNewUser(env.ctx, &auth.User{Username: "leo", Email: "new@example.com", Password: []byte("x")})
	require.ErrorIs(t, err, ErrDuplicateUsername)

	found, err := env.core.GetUserByEmail(env.ctx, "leo@example.com")
	require.NoError(t, err)
	assert.Equal(t, "leo", found.Username)

	byID, err := env.core.GetUserByID(env.ctx, found.ID)
	require.NoError(t, err)
	assert.Equal(t, found.Email, byID.Email)

	_, err = env.core.GetUserByUsername(env.ctx, "ghost")
	require.ErrorIs(t, err, NoRecordFound)
}
