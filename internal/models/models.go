package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account record. Hashed fields are never serialized.
type User struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email                string    `gorm:"uniqueIndex;not null" json:"email"`
	Username             string    `gorm:"uniqueIndex;not null" json:"username"`
	HashedPassword       string    `gorm:"not null"             json:"-"`
	SecurityQuestionID   *uint     `gorm:"index"                json:"security_question_id,omitempty"`
	HashedSecurityAnswer string    `json:"-"`
	IsActive             bool      `gorm:"default:true"         json:"is_active"`
	IsSuperuser          bool      `gorm:"default:false"        json:"is_superuser"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SecurityQuestion is a catalog entry; seeded once, referenced by users.
type SecurityQuestion struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Question  string    `gorm:"uniqueIndex;not null"     json:"question"`
	IsActive  bool      `gorm:"default:true"             json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// RefreshToken stores the SHA-256 of the opaque value, never the raw token.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null"     json:"-"`
	IssuedAt  time.Time `gorm:"not null"                 json:"issued_at"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"default:false"            json:"revoked"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
