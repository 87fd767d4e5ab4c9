package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"personahub/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&CharacterModel{},
		&ChatMessageModel{},
		&PendingCharacterModel{},
		&NotificationModel{},
		&UserPreferenceModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// CreateUserWithDefaults writes a new account together with its default
// character and preference row in one transaction, so a partial signup
// never persists.
func (s *GormStore) CreateUserWithDefaults(u domain.User, c domain.Character, p domain.UserPreference) error {
	userModel := userToModel(u)
	charModel := characterToModel(c)
	prefModel := preferenceToModel(p)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&userModel).Error; err != nil {
			return err
		}
		if err := tx.Create(&charModel).Error; err != nil {
			return err
		}
		return tx.Create(&prefModel).Error
	})
}

// SaveUser creates or updates a user row.
func (s *GormStore) SaveUser(u domain.User) error {
	model := userToModel(u)
	return s.db.Save(&model).Error
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.Where("email = ?", email).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByVerificationToken resolves a pending email-verification token.
func (s *GormStore) GetUserByVerificationToken(token string) (domain.User, bool, error) {
	if token == "" {
		return domain.User{}, false, nil
	}
	var model UserModel
	if err := s.db.Where("verification_token = ?", token).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// HasUserEmail checks if email exists.
func (s *GormStore) HasUserEmail(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasUsername checks if username exists.
func (s *GormStore) HasUsername(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUsers returns all users ordered by signup time.
func (s *GormStore) ListUsers() ([]domain.User, error) {
	var models []UserModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(models))
	for _, model := range models {
		users = append(users, userFromModel(model))
	}
	return users, nil
}

// UserCount returns number of users.
func (s *GormStore) UserCount() (int, error) {
	var count int64
	if err := s.db.Model(&UserModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// DeleteUser removes a user and everything it owns: characters, their
// messages, staged moderation copies, notifications, and preferences.
func (s *GormStore) DeleteUser(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"character_id IN (?)",
			tx.Model(&CharacterModel{}).Select("id").Where("user_id = ?", id),
		).Delete(&ChatMessageModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&CharacterModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&PendingCharacterModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&NotificationModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&UserPreferenceModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&UserModel{}, "id = ?", id).Error
	})
}

// SaveCharacter creates or updates a character row.
func (s *GormStore) SaveCharacter(c domain.Character) error {
	model := characterToModel(c)
	return s.db.Save(&model).Error
}

// GetCharacter returns a character by ID.
func (s *GormStore) GetCharacter(id string) (domain.Character, bool, error) {
	var model CharacterModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Character{}, false, nil
		}
		return domain.Character{}, false, err
	}
	return characterFromModel(model), true, nil
}

// ListCharactersByOwner returns a user's characters in their chosen order.
func (s *GormStore) ListCharactersByOwner(userID string) ([]domain.Character, error) {
	var models []CharacterModel
	if err := s.db.Where("user_id = ?", userID).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return charactersFromModels(models), nil
}

// ListPublicCharacters returns approved public characters.
func (s *GormStore) ListPublicCharacters() ([]domain.Character, error) {
	var models []CharacterModel
	if err := s.db.Where("is_public = ? AND review_status = ?", true, string(domain.ReviewApproved)).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return charactersFromModels(models), nil
}

// DeleteCharacter removes a character and its messages.
func (s *GormStore) DeleteCharacter(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ChatMessageModel{}, "character_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&CharacterModel{}, "id = ?", id).Error
	})
}

// CharacterOwnedBy is the ownership filter for characters: a single filtered
// existence query. Nonexistent and foreign-owned are indistinguishable.
func (s *GormStore) CharacterOwnedBy(characterID, userID string) (bool, error) {
	var count int64
	if err := s.db.Model(&CharacterModel{}).
		Where("id = ? AND user_id = ?", characterID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AppendMessage records a chat message.
func (s *GormStore) AppendMessage(msg domain.ChatMessage) error {
	model := messageToModel(msg)
	return s.db.Create(&model).Error
}

// GetMessage returns one chat message by ID.
func (s *GormStore) GetMessage(id string) (domain.ChatMessage, bool, error) {
	var model ChatMessageModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ChatMessage{}, false, nil
		}
		return domain.ChatMessage{}, false, err
	}
	return messageFromModel(model), true, nil
}

// ListMessages returns a character's messages in chronological order.
func (s *GormStore) ListMessages(characterID string) ([]domain.ChatMessage, error) {
	var models []ChatMessageModel
	if err := s.db.Where("character_id = ?", characterID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	msgs := make([]domain.ChatMessage, 0, len(models))
	for _, model := range models {
		msgs = append(msgs, messageFromModel(model))
	}
	return msgs, nil
}

// UpdateMessageContent overwrites the content column in place, leaving id,
// role, and created_at untouched.
func (s *GormStore) UpdateMessageContent(id, content string) error {
	return s.db.Model(&ChatMessageModel{}).
		Where("id = ?", id).
		Update("content", content).Error
}

// UpdateMessageReactions replaces the reactions map of one message.
func (s *GormStore) UpdateMessageReactions(id string, reactions map[string]int) error {
	raw, err := json.Marshal(reactions)
	if err != nil {
		return err
	}
	return s.db.Model(&ChatMessageModel{}).
		Where("id = ?", id).
		Update("reactions", datatypes.JSON(raw)).Error
}

// DeleteMessage removes one chat message.
func (s *GormStore) DeleteMessage(id string) error {
	return s.db.Delete(&ChatMessageModel{}, "id = ?", id).Error
}

// MessageOwnedBy is the ownership filter for messages: one existence query
// joining message -> character -> user.
func (s *GormStore) MessageOwnedBy(messageID, userID string) (bool, error) {
	var count int64
	if err := s.db.Model(&ChatMessageModel{}).
		Joins("JOIN character_models ON character_models.id = chat_message_models.character_id").
		Where("chat_message_models.id = ? AND character_models.user_id = ?", messageID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SavePendingCharacter creates or updates a staged moderation copy.
func (s *GormStore) SavePendingCharacter(p domain.PendingCharacter) error {
	model := pendingToModel(p)
	return s.db.Save(&model).Error
}

// GetPendingCharacter returns one staged copy by ID.
func (s *GormStore) GetPendingCharacter(id string) (domain.PendingCharacter, bool, error) {
	var model PendingCharacterModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.PendingCharacter{}, false, nil
		}
		return domain.PendingCharacter{}, false, err
	}
	return pendingFromModel(model), true, nil
}

// ListPendingCharacters returns staged copies filtered by status, oldest first.
func (s *GormStore) ListPendingCharacters(status domain.ReviewStatus) ([]domain.PendingCharacter, error) {
	query := s.db.Order("created_at ASC")
	if status != "" {
		query = query.Where("status = ?", string(status))
	}
	var models []PendingCharacterModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.PendingCharacter, 0, len(models))
	for _, model := range models {
		items = append(items, pendingFromModel(model))
	}
	return items, nil
}

// SaveNotification creates or updates a notification row.
func (s *GormStore) SaveNotification(n domain.Notification) error {
	model := notificationToModel(n)
	return s.db.Save(&model).Error
}

// GetNotification returns one notification by ID.
func (s *GormStore) GetNotification(id string) (domain.Notification, bool, error) {
	var model NotificationModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.Notification{}, false, nil
		}
		return domain.Notification{}, false, err
	}
	return notificationFromModel(model), true, nil
}

// ListNotificationsByUser returns a user's notifications, newest first.
func (s *GormStore) ListNotificationsByUser(userID string) ([]domain.Notification, error) {
	var models []NotificationModel
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Notification, 0, len(models))
	for _, model := range models {
		items = append(items, notificationFromModel(model))
	}
	return items, nil
}

// MarkNotificationRead flips the read flag of one notification.
func (s *GormStore) MarkNotificationRead(id string) error {
	return s.db.Model(&NotificationModel{}).
		Where("id = ?", id).
		Update("read", true).Error
}

// MarkAllNotificationsRead flips the read flag of all of a user's notifications.
func (s *GormStore) MarkAllNotificationsRead(userID string) error {
	return s.db.Model(&NotificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
}

// DeleteNotification removes one notification.
func (s *GormStore) DeleteNotification(id string) error {
	return s.db.Delete(&NotificationModel{}, "id = ?", id).Error
}

// SavePreference creates or updates a user's preference row.
func (s *GormStore) SavePreference(p domain.UserPreference) error {
	model := preferenceToModel(p)
	return s.db.Save(&model).Error
}

// GetPreference returns a user's preference row.
func (s *GormStore) GetPreference(userID string) (domain.UserPreference, bool, error) {
	var model UserPreferenceModel
	if err := s.db.First(&model, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.UserPreference{}, false, nil
		}
		return domain.UserPreference{}, false, err
	}
	return preferenceFromModel(model), true, nil
}

func charactersFromModels(models []CharacterModel) []domain.Character {
	items := make([]domain.Character, 0, len(models))
	for _, model := range models {
		items = append(items, characterFromModel(model))
	}
	return items
}
