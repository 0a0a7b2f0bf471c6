package models

import (
	"time"

	"github.com/siahsang/postfeed/internal/auth"
)

type Profile struct {
	ID         int64   `json:"-"`
	Username   string  `json:"username"`
	Bio        *string `json:"bio"`
	Image      *string `json:"image"`
	Following  bool    `json:"following"`
	PostsCount int64   `json:"postsCount"`
}

// Group is a community posts can be published in. Deleting a group keeps its posts.
type Group struct {
	ID          int64  `json:"-"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	Description string `json:"description" gorm:"not null"`
}

type Post struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text" gorm:"not null"`
	AuthorID  int64      `json:"-" gorm:"not null;index"`
	Author    *auth.User `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	GroupID   *int64     `json:"-" gorm:"index"`
	Group     *Group     `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Image     *string    `json:"image,omitempty"`
	CreatedAt time.Time  `json:"created" gorm:"index"`
}

type Comment struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text" gorm:"not null"`
	PostID    int64      `json:"-" gorm:"not null;index"`
	Post      *Post      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  int64      `json:"-" gorm:"not null;index"`
	Author    *auth.User `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created"`
}

// Follow is the edge "User follows Author". At most one edge exists per ordered pair.
type Follow struct {
	ID       int64      `json:"-"`
	UserID   int64      `json:"-" gorm:"not null;uniqueIndex:unique_follower,priority:1"`
	User     *auth.User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID int64      `json:"-" gorm:"not null;uniqueIndex:unique_follower,priority:2;index"`
	Author   *auth.User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&auth.User{},
		&Group{},
		&Post{},
		&Comment{},
		&Follow{},
	}
}
