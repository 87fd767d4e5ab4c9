package store

import "personahub/pkg/domain"

// Store defines persistence operations for users, characters, messages,
// moderation staging, notifications, and preferences.
//
// Ownership contract: every character or message mutation in the application
// layer must be preceded by CharacterOwnedBy / MessageOwnedBy. The store
// itself does not enforce ownership on reads and writes.
type Store interface {
	// users
	CreateUserWithDefaults(user domain.User, character domain.Character, pref domain.UserPreference) error
	SaveUser(domain.User) error
	GetUserByID(id string) (domain.User, bool, error)
	GetUserByEmail(email string) (domain.User, bool, error)
	GetUserByVerificationToken(token string) (domain.User, bool, error)
	HasUserEmail(email string) (bool, error)
	HasUsername(username string) (bool, error)
	ListUsers() ([]domain.User, error)
	UserCount() (int, error)
	DeleteUser(id string) error

	// characters
	SaveCharacter(domain.Character) error
	GetCharacter(id string) (domain.Character, bool, error)
	ListCharactersByOwner(userID string) ([]domain.Character, error)
	ListPublicCharacters() ([]domain.Character, error)
	DeleteCharacter(id string) error
	CharacterOwnedBy(characterID, userID string) (bool, error)

	// messages
	AppendMessage(domain.ChatMessage) error
	GetMessage(id string) (domain.ChatMessage, bool, error)
	ListMessages(characterID string) ([]domain.ChatMessage, error)
	UpdateMessageContent(id, content string) error
	UpdateMessageReactions(id string, reactions map[string]int) error
	DeleteMessage(id string) error
	MessageOwnedBy(messageID, userID string) (bool, error)

	// moderation staging
	SavePendingCharacter(domain.PendingCharacter) error
	GetPendingCharacter(id string) (domain.PendingCharacter, bool, error)
	ListPendingCharacters(status domain.ReviewStatus) ([]domain.PendingCharacter, error)

	// notifications
	SaveNotification(domain.Notification) error
	GetNotification(id string) (domain.Notification, bool, error)
	ListNotificationsByUser(userID string) ([]domain.Notification, error)
	MarkNotificationRead(id string) error
	MarkAllNotificationsRead(userID string) error
	DeleteNotification(id string) error

	// preferences
	SavePreference(domain.UserPreference) error
	GetPreference(userID string) (domain.UserPreference, bool, error)
}
