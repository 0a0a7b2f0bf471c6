package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/models"
	"gorm.io/gorm/clause"
)

var UserIsNotFollowed = xerrors.Message("User is not followed")

// Follow makes user follow the author named authorUsername. Following an
// author twice is a no-op and following yourself is silently ignored.
//
// The edge is written with a single INSERT ... ON CONFLICT DO NOTHING backed
// by the unique_follower index, so concurrent calls never duplicate it.
func (c *Core) Follow(ctx context.Context, user *auth.User, authorUsername string) (*auth.User, error) {
	if user == nil {
		return nil, xerrors.New(auth.NotAuthenticatedUser)
	}

	author, err := c.GetUserByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	if author.ID == user.ID {
		c.log.Debug("Ignoring self follow", "user_id", user.ID)
		return author, nil
	}

	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	edge := &models.Follow{UserID: user.ID, AuthorID: author.ID}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(edge).Error
	if err != nil {
		return nil, xerrors.New(err)
	}

	return author, nil
}

// Unfollow removes the edge and fails with UserIsNotFollowed when there is none.
func (c *Core) Unfollow(ctx context.Context, user *auth.User, authorUsername string) (*auth.User, error) {
	if user == nil {
		return nil, xerrors.New(auth.NotAuthenticatedUser)
	}

	author, err := c.GetUserByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	result := db.Where("user_id = ? AND author_id = ?", user.ID, author.ID).Delete(&models.Follow{})
	if result.Error != nil {
		return nil, xerrors.New(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, xerrors.New(UserIsNotFollowed)
	}

	return author, nil
}

// IsFollowing is always false for anonymous callers.
func (c *Core) IsFollowing(ctx context.Context, user *auth.User, authorID int64) (bool, error) {
	if user == nil {
		return false, nil
	}

	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	var count int64
	err := db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", user.ID, authorID).
		Count(&count).Error
	if err != nil {
		return false, xerrors.New(err)
	}
	return count > 0, nil
}

func (c *Core) FollowingAuthors(ctx context.Context, user *auth.User) ([]*auth.User, error) {
	if user == nil {
		return []*auth.User{}, nil
	}

	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	authors := make([]*auth.User, 0)
	err := db.Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", user.ID).
		Order("users.username ASC").
		Find(&authors).Error
	if err != nil {
		return nil, xerrors.New(err)
	}
	return authors, nil
}

func (c *Core) GetProfile(ctx context.Context, username string, viewer *auth.User) (*models.Profile, error) {
	user, err := c.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return c.profileOf(ctx, user, viewer)
}

func (c *Core) profileOf(ctx context.Context, user *auth.User, viewer *auth.User) (*models.Profile, error) {
	following, err := c.IsFollowing(ctx, viewer, user.ID)
	if err != nil {
		return nil, err
	}

	count, err := c.CountPostsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:         user.ID,
		Username:   user.Username,
		Bio:        user.Bio,
		Image:      user.Image,
		Following:  following,
		PostsCount: count,
	}, nil
}
