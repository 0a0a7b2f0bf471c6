package main

import (
	"context"
	"time"

	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/core"
	"github.com/siahsang/postfeed/internal/utils/collectionutils"
	"github.com/siahsang/postfeed/internal/utils/functional"
	"github.com/siahsang/postfeed/models"
)

type AuthorEnvelope struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

type GroupEnvelope struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PostEnvelope struct {
	ID        int64          `json:"id"`
	Text      string         `json:"text"`
	Image     *string        `json:"image"`
	CreatedAt time.Time      `json:"created"`
	Author    AuthorEnvelope `json:"author"`
	Group     *GroupEnvelope `json:"group"`
}

type CommentEnvelope struct {
	ID        int64          `json:"id"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"created"`
	Author    AuthorEnvelope `json:"author"`
}

func authorEnvelope(user *auth.User, following bool) AuthorEnvelope {
	if user == nil {
		return AuthorEnvelope{}
	}
	return AuthorEnvelope{
		Username:  user.Username,
		Bio:       user.Bio,
		Image:     user.Image,
		Following: following,
	}
}

func groupEnvelope(group *models.Group) *GroupEnvelope {
	if group == nil {
		return nil
	}
	return &GroupEnvelope{
		Slug:        group.Slug,
		Title:       group.Title,
		Description: group.Description,
	}
}

func postEnvelope(post *models.Post, following bool) PostEnvelope {
	return PostEnvelope{
		ID:        post.ID,
		Text:      post.Text,
		Image:     post.Image,
		CreatedAt: post.CreatedAt,
		Author:    authorEnvelope(post.Author, following),
		Group:     groupEnvelope(post.Group),
	}
}

// postEnvelopes marks the authors viewer follows. A nil viewer follows nobody,
// which keeps the rendering independent of the caller for cached pages.
func (app *application) postEnvelopes(ctx context.Context, viewer *auth.User, posts []*models.Post) ([]PostEnvelope, error) {
	followingAuthors, err := app.core.FollowingAuthors(ctx, viewer)
	if err != nil {
		return nil, err
	}

	followingUserById := collectionutils.Associate(followingAuthors, func(user *auth.User) (int64, bool) {
		return user.ID, true
	})

	return functional.Map(posts, func(post *models.Post) PostEnvelope {
		return postEnvelope(post, collectionutils.GetOrDefault(followingUserById, post.AuthorID, false))
	}), nil
}

func (app *application) feedEnvelope(ctx context.Context, viewer *auth.User, feed *core.FeedPage) (envelope, error) {
	posts, err := app.postEnvelopes(ctx, viewer, feed.Posts)
	if err != nil {
		return nil, err
	}
	return envelope{
		"posts":    posts,
		"metadata": feed.Metadata,
	}, nil
}

func commentEnvelopes(comments []*models.Comment) []CommentEnvelope {
	return functional.Map(comments, func(comment *models.Comment) CommentEnvelope {
		return CommentEnvelope{
			ID:        comment.ID,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
			Author:    authorEnvelope(comment.Author, false),
		}
	})
}
