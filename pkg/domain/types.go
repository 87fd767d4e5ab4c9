package domain

import "time"

// MessageRole tags who produced a chat message.
type MessageRole string

const (
	RoleSystemMessage    MessageRole = "system"
	RoleUserMessage      MessageRole = "user"
	RoleAssistantMessage MessageRole = "assistant"
)

// ReviewStatus tracks a character's position in the moderation pipeline.
type ReviewStatus string

const (
	ReviewPrivate  ReviewStatus = "private"
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// User is an account that owns characters and their conversations.
type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	PasswordHash       string     `json:"-"`
	Role               Role       `json:"role"`
	Blocked            bool       `json:"blocked"`
	BlockedUntil       *time.Time `json:"blockedUntil,omitempty"`
	EmailVerified      bool       `json:"emailVerified"`
	VerificationToken  string     `json:"-"`
	VerificationExpiry *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// IsBlocked reports whether the account is currently blocked.
// A block whose BlockedUntil has elapsed no longer applies.
func (u User) IsBlocked(now time.Time) bool {
	if !u.Blocked {
		return false
	}
	if u.BlockedUntil != nil && now.After(*u.BlockedUntil) {
		return false
	}
	return true
}

// Character is a configurable AI persona with its own conversation history.
type Character struct {
	ID                 string       `json:"id"`
	UserID             string       `json:"userId"`
	Name               string       `json:"name"`
	SystemPrompt       string       `json:"systemPrompt"`
	Personality        string       `json:"personality"`
	Backstory          string       `json:"backstory"`
	CustomInstructions string       `json:"customInstructions"`
	IsPublic           bool         `json:"isPublic"`
	ReviewStatus       ReviewStatus `json:"reviewStatus"`
	SortOrder          int          `json:"order"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// ChatMessage is one turn of a character's conversation.
// Per-character ordering is created_at ascending; that ordering is the only
// sequencing invariant conversation reconstruction relies on.
type ChatMessage struct {
	ID          string         `json:"id"`
	CharacterID string         `json:"characterId"`
	Role        MessageRole    `json:"role"`
	Content     string         `json:"content"`
	Reactions   map[string]int `json:"reactions,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// PendingCharacter is a staged copy of a character awaiting moderation.
type PendingCharacter struct {
	ID                  string       `json:"id"`
	UserID              string       `json:"userId"`
	OriginalCharacterID string       `json:"originalCharacterId,omitempty"`
	Name                string       `json:"name"`
	SystemPrompt        string       `json:"systemPrompt"`
	Personality         string       `json:"personality"`
	Backstory           string       `json:"backstory"`
	CustomInstructions  string       `json:"customInstructions"`
	Status              ReviewStatus `json:"status"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// Notification is an in-app message shown to a user.
type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

// UserPreference holds per-user UI and chat settings, one row per user.
type UserPreference struct {
	UserID         string    `json:"userId"`
	SelectedCharID string    `json:"selectedCharId,omitempty"`
	ChatTheme      string    `json:"chatTheme,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
