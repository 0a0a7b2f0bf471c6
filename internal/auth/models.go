package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID                int64     `json:"-"`
	Email             string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Token             string    `json:"token,omitempty" gorm:"-"`
	Username          string    `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Password          []byte    `json:"-" gorm:"not null"`
	PlaintextPassword string    `json:"-" gorm:"-"`
	Bio               *string   `json:"bio"`
	Image             *string   `json:"image"`
	CreatedAt         time.Time `json:"-"`
}

type UserClaim struct {
	Username string `json:"username"`
	Email    string `json:"email"`

	jwt.RegisteredClaims
}
