package core

import (
	"context"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/internal/auth"
	"github.com/siahsang/postfeed/internal/utils/databaseutils"
	"gorm.io/gorm/clause"
)

func (c *Core) CreateNewUser(ctx context.Context, user *auth.User) error {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	err := db.Omit(clause.Associations).Create(user).Error
	if err != nil {
		if databaseutils.IsUniqueViolation(err) {
			return c.duplicateUserError(ctx, user)
		}
		return xerrors.New(err)
	}

	c.log.Info("User created", "user_id", user.ID, "username", user.Username)
	return nil
}

// duplicateUserError tells which unique column rejected the insert.
func (c *Core) duplicateUserError(ctx context.Context, user *auth.User) error {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&auth.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return xerrors.New(err)
	}
	if count > 0 {
		return xerrors.New(ErrDuplicateEmail)
	}
	return xerrors.New(ErrDuplicateUsername)
}

func (c *Core) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return c.findUser(ctx, "email = ?", email)
}

func (c *Core) GetUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	return c.findUser(ctx, "username = ?", username)
}

func (c *Core) GetUserByID(ctx context.Context, id int64) (*auth.User, error) {
	return c.findUser(ctx, "id = ?", id)
}

func (c *Core) findUser(ctx context.Context, query string, arg any) (*auth.User, error) {
	db, cancel := c.sqlTemplate.Session(ctx)
	defer cancel()

	user := &auth.User{}
	if err := db.Where(query, arg).Take(user).Error; err != nil {
		if databaseutils.IsNotFound(err) {
			return nil, xerrors.New(NoRecordFound)
		}
		return nil, xerrors.New(err)
	}
	return user, nil
}
