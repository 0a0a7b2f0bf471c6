package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostChanges struct {
	Text    string
	GroupID *int64
	Image   *string
}

type PostDetail struct {
	Post             *models.Post
	Comments         []*models.Comment
	AuthorPostsCount int64
}

func (c *Core) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	if err := db.Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, xerrors.New(err)
	}

	c.log.Info("Post created", "post_id", post.ID, "author_id", post.AuthorID)
	return post, nil
}

func (c *Core) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	return takePost(db.Scopes(withAuthorAndGroup), id)
}

// UpdatePost applies changes when editor is the post author, otherwise it
// fails with ErrPermissionDenied and leaves the post untouched.
func (c *Core) UpdatePost(ctx context.Context, editor *auth.User, id int64, changes PostChanges) (*models.Post, error) {
	return databaseutils.DoTransactionally(ctx, c.sqlTemplate, func(tx *gorm.DB) (*models.Post, error) {
		post, err := takePost(tx, id)
		if err != nil {
			return nil, err
		}
		if editor == nil || post.AuthorID != editor.ID {
			return nil, xerrors.New(ErrPermissionDenied)
		}

		err = tx.Model(post).
			Select("Text", "GroupID", "Image").
			Updates(models.Post{Text: changes.Text, GroupID: changes.GroupID, Image: changes.Image}).Error
		if err != nil {
			return nil, xerrors.New(err)
		}

		return takePost(tx.Scopes(withAuthorAndGroup), id)
	})
}

func (c *Core) DeletePost(ctx context.Context, user *auth.User, id int64) (*models.Post, error) {
	return databaseutils.DoTransactionally(ctx, c.sqlTemplate, func(tx *gorm.DB) (*models.Post, error) {
		post, err := takePost(tx, id)
		if err != nil {
			return nil, err
		}
		if user == nil || post.AuthorID != user.ID {
			return nil, xerrors.New(ErrPermissionDenied)
		}
		if err := tx.Delete(post).Error; err != nil {
			return nil, xerrors.New(err)
		}

		c.log.Info("Post deleted", "post_id", post.ID, "author_id", post.AuthorID)
		return post, nil
	})
}

func (c *Core) CountPostsByAuthor(ctx context.Context, authorID int64) (int64, error) {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, xerrors.New(err)
	}
	return count, nil
}

// GetPostDetail loads a post with its comments (oldest first) and the number
// of posts its author has published.
func (c *Core) GetPostDetail(ctx context.Context, id int64) (*PostDetail, error) {
	post, err := c.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := c.CommentsByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	count, err := c.CountPostsByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:             post,
		Comments:         comments,
		AuthorPostsCount: count,
	}, nil
}

func takePost(db *gorm.DB, id int64) (*models.Post, error) {
	post := &models.Post{}
	if err := db.Where("posts.id = ?", id).Take(post).Error; err != nil {
		if databaseutils.IsNotFound(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}
	return post, nil
}
