package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID                 string `gorm:"primaryKey"`
	Email              string `gorm:"uniqueIndex;not null"`
	Username           string `gorm:"uniqueIndex;not null"`
	PasswordHash       string `gorm:"not null"`
	Role               string `gorm:"not null"`
	Blocked            bool   `gorm:"not null;default:false"`
	BlockedUntil       *time.Time
	EmailVerified      bool   `gorm:"not null;default:false"`
	VerificationToken  string `gorm:"index"`
	VerificationExpiry *time.Time
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time
}

type CharacterModel struct {
	ID                 string    `gorm:"primaryKey"`
	UserID             string    `gorm:"not null;index"`
	Name               string    `gorm:"not null"`
	SystemPrompt       string    `gorm:"type:text"`
	Personality        string    `gorm:"type:text"`
	Backstory          string    `gorm:"type:text"`
	CustomInstructions string    `gorm:"type:text"`
	IsPublic           bool      `gorm:"not null;default:false"`
	ReviewStatus       string    `gorm:"not null"`
	SortOrder          int       `gorm:"not null;default:0"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

type ChatMessageModel struct {
	ID          string         `gorm:"primaryKey"`
	CharacterID string         `gorm:"not null;index"`
	Role        string         `gorm:"not null"`
	Content     string         `gorm:"type:text;not null"`
	Reactions   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time      `gorm:"not null;index"`
}

type PendingCharacterModel struct {
	ID                  string    `gorm:"primaryKey"`
	UserID              string    `gorm:"not null;index"`
	OriginalCharacterID *string   `gorm:"index"`
	Name                string    `gorm:"not null"`
	SystemPrompt        string    `gorm:"type:text"`
	Personality         string    `gorm:"type:text"`
	Backstory           string    `gorm:"type:text"`
	CustomInstructions  string    `gorm:"type:text"`
	Status              string    `gorm:"not null;index"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

type NotificationModel struct {
	ID        string         `gorm:"primaryKey"`
	UserID    string         `gorm:"not null;index"`
	Type      string         `gorm:"not null"`
	Title     string         `gorm:"not null"`
	Message   string         `gorm:"type:text"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	Read      bool           `gorm:"not null;default:false"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

type UserPreferenceModel struct {
	UserID         string `gorm:"primaryKey"`
	SelectedCharID string
	ChatTheme      string
	UpdatedAt      time.Time
}
