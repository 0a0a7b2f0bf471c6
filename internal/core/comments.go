package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (c *Core) CreateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	return databaseutils.DoTransactionally(ctx, c.sqlTemplate, func(tx *gorm.DB) (*models.Comment, error) {
		if _, err := takePost(tx, comment.PostID); err != nil {
			return nil, err
		}
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return nil, xerrors.New(err)
		}
		return comment, nil
	})
}

func (c *Core) CommentsByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	comments := make([]*models.Comment, 0)
	err := db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, xerrors.New(err)
	}
	return comments, nil
}
