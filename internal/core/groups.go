package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"github.com/siahsang/postfeed/models"
)

func (c *Core) CreateGroup(ctx context.Context, group *models.Group) (*models.Group, error) {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	if err := db.Create(group).Error; err != nil {
		if databaseutils.IsUniqueViolation(err) {
			return nil, xerrors.New(ErrDuplicatedSlug)
		}
		return nil, xerrors.New(err)
	}
	return group, nil
}

func (c *Core) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	group := &models.Group{}
	if err := db.Where("slug = ?", slug).Take(group).Error; err != nil {
		if databaseutils.IsNotFound(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}
	return group, nil
}

// DeleteGroup removes the group; its posts stay and lose their group reference.
func (c *Core) DeleteGroup(ctx context.Context, slug string) error {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	result := db.Where("slug = ?", slug).Delete(&models.Group{})
	if result.Error != nil {
		return xerrors.New(result.Error)
	}
	if result.RowsAffected == 0 {
		return xerrors.New(NoRecordFound)
	}

	c.log.Info("Group deleted", "slug", slug)
	return nil
}
