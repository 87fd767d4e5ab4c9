package store

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"

	"personahub/pkg/domain"
)

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:                 u.ID,
		Email:              u.Email,
		Username:           u.Username,
		PasswordHash:       u.PasswordHash,
		Role:               string(u.Role),
		Blocked:            u.Blocked,
		BlockedUntil:       u.BlockedUntil,
		EmailVerified:      u.EmailVerified,
		VerificationToken:  u.VerificationToken,
		VerificationExpiry: u.VerificationExpiry,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:                 m.ID,
		Email:              m.Email,
		Username:           m.Username,
		PasswordHash:       m.PasswordHash,
		Role:               domain.Role(m.Role),
		Blocked:            m.Blocked,
		BlockedUntil:       m.BlockedUntil,
		EmailVerified:      m.EmailVerified,
		VerificationToken:  m.VerificationToken,
		VerificationExpiry: m.VerificationExpiry,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func characterToModel(c domain.Character) CharacterModel {
	return CharacterModel{
		ID:                 c.ID,
		UserID:             c.UserID,
		Name:               c.Name,
		SystemPrompt:       c.SystemPrompt,
		Personality:        c.Personality,
		Backstory:          c.Backstory,
		CustomInstructions: c.CustomInstructions,
		IsPublic:           c.IsPublic,
		ReviewStatus:       string(c.ReviewStatus),
		SortOrder:          c.SortOrder,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func characterFromModel(m CharacterModel) domain.Character {
	return domain.Character{
		ID:                 m.ID,
		UserID:             m.UserID,
		Name:               m.Name,
		SystemPrompt:       m.SystemPrompt,
		Personality:        m.Personality,
		Backstory:          m.Backstory,
		CustomInstructions: m.CustomInstructions,
		IsPublic:           m.IsPublic,
		ReviewStatus:       domain.ReviewStatus(m.ReviewStatus),
		SortOrder:          m.SortOrder,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func messageToModel(msg domain.ChatMessage) ChatMessageModel {
	var reactions datatypes.JSON
	if len(msg.Reactions) > 0 {
		raw, _ := json.Marshal(msg.Reactions)
		reactions = datatypes.JSON(raw)
	}
	return ChatMessageModel{
		ID:          msg.ID,
		CharacterID: msg.CharacterID,
		Role:        string(msg.Role),
		Content:     msg.Content,
		Reactions:   reactions,
		CreatedAt:   msg.CreatedAt,
	}
}

func messageFromModel(m ChatMessageModel) domain.ChatMessage {
	var reactions map[string]int
	if len(m.Reactions) > 0 {
		_ = json.Unmarshal(m.Reactions, &reactions)
	}
	return domain.ChatMessage{
		ID:          m.ID,
		CharacterID: m.CharacterID,
		Role:        domain.MessageRole(m.Role),
		Content:     m.Content,
		Reactions:   reactions,
		CreatedAt:   m.CreatedAt,
	}
}

func pendingToModel(p domain.PendingCharacter) PendingCharacterModel {
	var originalID *string
	if strings.TrimSpace(p.OriginalCharacterID) != "" {
		value := strings.TrimSpace(p.OriginalCharacterID)
		originalID = &value
	}
	return PendingCharacterModel{
		ID:                  p.ID,
		UserID:              p.UserID,
		OriginalCharacterID: originalID,
		Name:                p.Name,
		SystemPrompt:        p.SystemPrompt,
		Personality:         p.Personality,
		Backstory:           p.Backstory,
		CustomInstructions:  p.CustomInstructions,
		Status:              string(p.Status),
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func pendingFromModel(m PendingCharacterModel) domain.PendingCharacter {
	originalID := ""
	if m.OriginalCharacterID != nil {
		originalID = strings.TrimSpace(*m.OriginalCharacterID)
	}
	return domain.PendingCharacter{
		ID:                  m.ID,
		UserID:              m.UserID,
		OriginalCharacterID: originalID,
		Name:                m.Name,
		SystemPrompt:        m.SystemPrompt,
		Personality:         m.Personality,
		Backstory:           m.Backstory,
		CustomInstructions:  m.CustomInstructions,
		Status:              domain.ReviewStatus(m.Status),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func notificationToModel(n domain.Notification) NotificationModel {
	var metadata datatypes.JSON
	if len(n.Metadata) > 0 {
		raw, _ := json.Marshal(n.Metadata)
		metadata = datatypes.JSON(raw)
	}
	return NotificationModel{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Metadata:  metadata,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func notificationFromModel(m NotificationModel) domain.Notification {
	var metadata map[string]string
	if len(m.Metadata) > 0 {
		_ = json.Unmarshal(m.Metadata, &metadata)
	}
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Metadata:  metadata,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

func preferenceToModel(p domain.UserPreference) UserPreferenceModel {
	return UserPreferenceModel{
		UserID:         p.UserID,
		SelectedCharID: p.SelectedCharID,
		ChatTheme:      p.ChatTheme,
		UpdatedAt:      p.UpdatedAt,
	}
}

func preferenceFromModel(m UserPreferenceModel) domain.UserPreference {
	return domain.UserPreference{
		UserID:         m.UserID,
		SelectedCharID: m.SelectedCharID,
		ChatTheme:      m.ChatTheme,
		UpdatedAt:      m.UpdatedAt,
	}
}
