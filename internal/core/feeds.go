package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/filter"
	"github.com/siahsang/postfeed/models"
	"gorm.io/gorm"
)

type FeedPage struct {
	Posts    []*models.Post
	Metadata filter.Metadata
}

// Every feed is ordered newest first with ties broken by id so that pages do
// not overlap. Author and group are loaded with one query per relation.
func byNewest(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at DESC").Order("posts.id ASC")
}

func withAuthorAndGroup(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group")
}

func allPosts(db *gorm.DB) *gorm.DB {
	return db
}

func (c *Core) GlobalFeed(ctx context.Context, page int) (*FeedPage, error) {
	return c.feed(ctx, allPosts, page)
}

func (c *Core) GroupFeed(ctx context.Context, slug string, page int) (*models.Group, *FeedPage, error) {
	group, err := c.GetGroupBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	feed, err := c.feed(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.group_id = ?", group.ID)
	}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, feed, nil
}

func (c *Core) AuthorFeed(ctx context.Context, username string, page int) (*auth.User, *FeedPage, error) {
	author, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	feed, err := c.feed(ctx, byAuthor(author.ID), page)
	if err != nil {
		return nil, nil, err
	}
	return author, feed, nil
}

// ProfileFeed resolves username once and returns the profile as seen by viewer
// together with one page of the author's posts.
func (c *Core) ProfileFeed(ctx context.Context, username string, viewer *auth.User, page int) (*models.Profile, *FeedPage, error) {
	author, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	profile, err := c.profileOf(ctx, author, viewer)
	if err != nil {
		return nil, nil, err
	}

	feed, err := c.feed(ctx, byAuthor(author.ID), page)
	if err != nil {
		return nil, nil, err
	}
	return profile, feed, nil
}

func byAuthor(authorID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id = ?", authorID)
	}
}

// FollowingFeed returns posts written by the authors user follows.
func (c *Core) FollowingFeed(ctx context.Context, user *auth.User, page int) (*FeedPage, error) {
	if user == nil {
		return nil, xerrors.New(auth.NotAuthenticatedUser)
	}

	return c.feed(ctx, func(db *gorm.DB) *gorm.DB {
		followed := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Follow{}).
			Select("author_id").
			Where("user_id = ?", user.ID)
		return db.Where("posts.author_id IN (?)", followed)
	}, page)
}

func (c *Core) feed(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page int) (*FeedPage, error) {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	var total int64
	if err := db.Model(&models.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, xerrors.New(err)
	}

	metadata := c.paginator.Window(total, page)
	posts := make([]*models.Post, 0, metadata.ItemCount())
	if metadata.ItemCount() > 0 {
		err := db.Scopes(scope, withAuthorAndGroup, byNewest).
			Offset(metadata.Offset()).
			Limit(metadata.Limit()).
			Find(&posts).Error
		if err != nil {
			return nil, xerrors.New(err)
		}
	}

	return &FeedPage{Posts: posts, Metadata: metadata}, nil
}
