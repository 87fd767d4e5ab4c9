package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"personahub/internal/util"
	"personahub/pkg/ai"
	"personahub/pkg/auth"
	"personahub/pkg/domain"
	"personahub/pkg/notify"
	"personahub/pkg/store"
)

const (
	defaultCharacterName   = "Assistant"
	defaultCharacterPrompt = "You are a helpful assistant."
	verificationTTL        = 48 * time.Hour
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL  string
	Store        store.Store
	Completer    ai.ChatCompleter
	Notifier     notify.Publisher
	DefaultModel string
}

// App is the core application service wiring together storage, completion,
// and moderation logic.
type App struct {
	store        store.Store
	completer    ai.ChatCompleter
	notifier     notify.Publisher
	defaultModel string
}

// New constructs the application with database-backed storage.
func New(cfg Config) (*App, error) {
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	if cfg.Completer == nil {
		return nil, fmt.Errorf("chat completer required")
	}
	if cfg.DefaultModel == "" {
		return nil, fmt.Errorf("default model required")
	}
	return &App{
		store:        dataStore,
		completer:    cfg.Completer,
		notifier:     cfg.Notifier,
		defaultModel: cfg.DefaultModel,
	}, nil
}

// SignUp registers a new user. Every new account gets a default character
// and a preference row, written atomically with the user so a failed signup
// never leaves a partial account. The first account becomes superadmin.
func (a *App) SignUp(email, username, password string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return domain.User{}, fmt.Errorf("%w: email, username, and password required", ErrValidation)
	}
	if err := auth.ValidatePassword(password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if exists, err := a.store.HasUserEmail(email); err != nil {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	} else if exists {
		return domain.User{}, ErrEmailAlreadyExists
	}
	if exists, err := a.store.HasUsername(username); err != nil {
		return domain.User{}, fmt.Errorf("check username: %w", err)
	} else if exists {
		return domain.User{}, ErrUsernameAlreadyExists
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	role := domain.RoleUser
	count, err := a.store.UserCount()
	if err != nil {
		return domain.User{}, fmt.Errorf("count users: %w", err)
	}
	if count == 0 {
		role = domain.RoleSuperAdmin
	}
	now := time.Now().UTC()
	verifyExpiry := now.Add(verificationTTL)
	user := domain.User{
		ID:                 util.NewID(),
		Email:              email,
		Username:           username,
		PasswordHash:       passwordHash,
		Role:               role,
		EmailVerified:      false,
		VerificationToken:  util.NewID(),
		VerificationExpiry: &verifyExpiry,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	character := domain.Character{
		ID:           util.NewID(),
		UserID:       user.ID,
		Name:         defaultCharacterName,
		SystemPrompt: defaultCharacterPrompt,
		ReviewStatus: domain.ReviewPrivate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	pref := domain.UserPreference{
		UserID:         user.ID,
		SelectedCharID: character.ID,
		UpdatedAt:      now,
	}
	if err := a.store.CreateUserWithDefaults(user, character, pref); err != nil {
		return domain.User{}, fmt.Errorf("create account: %w", err)
	}
	return user, nil
}

// Login validates credentials. Blocked accounts cannot log in until their
// block expires.
func (a *App) Login(email, password string) (domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	if user.IsBlocked(time.Now().UTC()) {
		return domain.User{}, ErrAccountBlocked
	}
	return user, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (a *App) VerifyEmail(token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, ErrInvalidVerifyToken
	}
	user, ok, err := a.store.GetUserByVerificationToken(token)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrInvalidVerifyToken
	}
	if user.VerificationExpiry != nil && time.Now().UTC().After(*user.VerificationExpiry) {
		return domain.User{}, ErrInvalidVerifyToken
	}
	user.EmailVerified = true
	user.VerificationToken = ""
	user.VerificationExpiry = nil
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UserFromID resolves an authenticated identity. Blocked accounts resolve
// as not found so their tokens stop working immediately.
func (a *App) UserFromID(id string) (domain.User, bool) {
	user, ok, err := a.store.GetUserByID(id)
	if err != nil || !ok {
		return domain.User{}, false
	}
	if user.IsBlocked(time.Now().UTC()) {
		return domain.User{}, false
	}
	return user, true
}

// CharacterInput carries the user-editable character fields.
type CharacterInput struct {
	Name               string
	SystemPrompt       string
	Personality        string
	Backstory          string
	CustomInstructions string
	IsPublic           bool
}

// CreateCharacter adds a character owned by the user.
func (a *App) CreateCharacter(user domain.User, input CharacterInput) (domain.Character, error) {
	if strings.TrimSpace(input.Name) == "" {
		return domain.Character{}, fmt.Errorf("%w: name required", ErrValidation)
	}
	existing, err := a.store.ListCharactersByOwner(user.ID)
	if err != nil {
		return domain.Character{}, fmt.Errorf("list characters: %w", err)
	}
	now := time.Now().UTC()
	character := domain.Character{
		ID:                 util.NewID(),
		UserID:             user.ID,
		Name:               strings.TrimSpace(input.Name),
		SystemPrompt:       input.SystemPrompt,
		Personality:        input.Personality,
		Backstory:          input.Backstory,
		CustomInstructions: input.CustomInstructions,
		IsPublic:           input.IsPublic,
		ReviewStatus:       domain.ReviewPrivate,
		SortOrder:          len(existing),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := a.store.SaveCharacter(character); err != nil {
		return domain.Character{}, fmt.Errorf("save character: %w", err)
	}
	return character, nil
}

// GetCharacter returns one of the user's characters.
func (a *App) GetCharacter(user domain.User, id string) (domain.Character, error) {
	character, err := a.ownedCharacter(user, id)
	if err != nil {
		return domain.Character{}, err
	}
	return character, nil
}

// ListCharacters returns the user's characters in their chosen order.
func (a *App) ListCharacters(user domain.User) ([]domain.Character, error) {
	return a.store.ListCharactersByOwner(user.ID)
}

// ListPublicCharacters returns everyone's approved public characters.
func (a *App) ListPublicCharacters() ([]domain.Character, error) {
	return a.store.ListPublicCharacters()
}

// CharacterUpdate carries optional field updates; nil fields are unchanged.
type CharacterUpdate struct {
	Name               *string
	SystemPrompt       *string
	Personality        *string
	Backstory          *string
	CustomInstructions *string
	IsPublic           *bool
}

// UpdateCharacter patches one of the user's characters. Editing a character
// whose review was already decided resets it to private: the approved copy
// no longer matches what was reviewed.
func (a *App) UpdateCharacter(user domain.User, id string, update CharacterUpdate) (domain.Character, error) {
	character, err := a.ownedCharacter(user, id)
	if err != nil {
		return domain.Character{}, err
	}
	changed := false
	apply := func(dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = true
		}
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return domain.Character{}, fmt.Errorf("%w: name required", ErrValidation)
	}
	apply(&character.Name, update.Name)
	apply(&character.SystemPrompt, update.SystemPrompt)
	apply(&character.Personality, update.Personality)
	apply(&character.Backstory, update.Backstory)
	apply(&character.CustomInstructions, update.CustomInstructions)
	if update.IsPublic != nil && *update.IsPublic != character.IsPublic {
		character.IsPublic = *update.IsPublic
		changed = true
	}
	if !changed {
		return character, nil
	}
	if character.ReviewStatus == domain.ReviewApproved || character.ReviewStatus == domain.ReviewRejected {
		character.ReviewStatus = domain.ReviewPrivate
	}
	character.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveCharacter(character); err != nil {
		return domain.Character{}, fmt.Errorf("save character: %w", err)
	}
	return character, nil
}

// DeleteCharacter removes one of the user's characters and its messages.
func (a *App) DeleteCharacter(user domain.User, id string) error {
	if _, err := a.ownedCharacter(user, id); err != nil {
		return err
	}
	if err := a.store.DeleteCharacter(id); err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	return nil
}

// ReorderCharacters persists a user-defined ordering. The id list must be a
// permutation of the user's characters.
func (a *App) ReorderCharacters(user domain.User, ids []string) error {
	characters, err := a.store.ListCharactersByOwner(user.ID)
	if err != nil {
		return fmt.Errorf("list characters: %w", err)
	}
	if len(ids) != len(characters) {
		return fmt.Errorf("%w: id list must contain all characters", ErrValidation)
	}
	byID := make(map[string]domain.Character, len(characters))
	for _, c := range characters {
		byID[c.ID] = c
	}
	now := time.Now().UTC()
	for position, id := range ids {
		character, ok := byID[id]
		if !ok {
			return ErrNotFound
		}
		delete(byID, id)
		if character.SortOrder == position {
			continue
		}
		character.SortOrder = position
		character.UpdatedAt = now
		if err := a.store.SaveCharacter(character); err != nil {
			return fmt.Errorf("save character: %w", err)
		}
	}
	return nil
}

// SubmitForReview stages a snapshot of the character for moderation.
func (a *App) SubmitForReview(user domain.User, id string) (domain.PendingCharacter, error) {
	character, err := a.ownedCharacter(user, id)
	if err != nil {
		return domain.PendingCharacter{}, err
	}
	now := time.Now().UTC()
	pending := domain.PendingCharacter{
		ID:                  util.NewID(),
		UserID:              user.ID,
		OriginalCharacterID: character.ID,
		Name:                character.Name,
		SystemPrompt:        character.SystemPrompt,
		Personality:         character.Personality,
		Backstory:           character.Backstory,
		CustomInstructions:  character.CustomInstructions,
		Status:              domain.ReviewPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := a.store.SavePendingCharacter(pending); err != nil {
		return domain.PendingCharacter{}, fmt.Errorf("save pending character: %w", err)
	}
	character.ReviewStatus = domain.ReviewPending
	character.UpdatedAt = now
	if err := a.store.SaveCharacter(character); err != nil {
		return domain.PendingCharacter{}, fmt.Errorf("save character: %w", err)
	}
	return pending, nil
}

// ListPendingCharacters returns the moderation queue, oldest first.
func (a *App) ListPendingCharacters(actor domain.User) ([]domain.PendingCharacter, error) {
	if !actor.Role.AtLeast(domain.RoleModerator) {
		return nil, ErrForbidden
	}
	return a.store.ListPendingCharacters(domain.ReviewPending)
}

// ApprovePending approves a staged character and notifies its owner.
func (a *App) ApprovePending(ctx context.Context, actor domain.User, pendingID string) (domain.PendingCharacter, error) {
	return a.decidePending(ctx, actor, pendingID, domain.ReviewApproved, "")
}

// RejectPending rejects a staged character and notifies its owner.
func (a *App) RejectPending(ctx context.Context, actor domain.User, pendingID, reason string) (domain.PendingCharacter, error) {
	return a.decidePending(ctx, actor, pendingID, domain.ReviewRejected, reason)
}

func (a *App) decidePending(ctx context.Context, actor domain.User, pendingID string, decision domain.ReviewStatus, reason string) (domain.PendingCharacter, error) {
	if !actor.Role.AtLeast(domain.RoleModerator) {
		return domain.PendingCharacter{}, ErrForbidden
	}
	pending, ok, err := a.store.GetPendingCharacter(pendingID)
	if err != nil {
		return domain.PendingCharacter{}, fmt.Errorf("fetch pending character: %w", err)
	}
	if !ok || pending.Status != domain.ReviewPending {
		return domain.PendingCharacter{}, ErrNotFound
	}
	now := time.Now().UTC()
	pending.Status = decision
	pending.UpdatedAt = now
	if err := a.store.SavePendingCharacter(pending); err != nil {
		return domain.PendingCharacter{}, fmt.Errorf("save pending character: %w", err)
	}
	if pending.OriginalCharacterID != "" {
		character, ok, err := a.store.GetCharacter(pending.OriginalCharacterID)
		if err != nil {
			return domain.PendingCharacter{}, fmt.Errorf("fetch character: %w", err)
		}
		if ok {
			character.ReviewStatus = decision
			character.UpdatedAt = now
			if err := a.store.SaveCharacter(character); err != nil {
				return domain.PendingCharacter{}, fmt.Errorf("save character: %w", err)
			}
		}
	}
	title := "Character approved"
	message := fmt.Sprintf("Your character %q was approved.", pending.Name)
	if decision == domain.ReviewRejected {
		title = "Character rejected"
		message = fmt.Sprintf("Your character %q was rejected.", pending.Name)
		if strings.TrimSpace(reason) != "" {
			message += " Reason: " + strings.TrimSpace(reason)
		}
	}
	a.createNotification(ctx, pending.UserID, "moderation", title, message, map[string]string{
		"pendingId":   pending.ID,
		"characterId": pending.OriginalCharacterID,
		"decision":    string(decision),
	})
	return pending, nil
}

// ListCharacterMessages returns a character's conversation, oldest first.
func (a *App) ListCharacterMessages(user domain.User, characterID string) ([]domain.ChatMessage, error) {
	if err := a.requireCharacterOwnership(user, characterID); err != nil {
		return nil, err
	}
	return a.store.ListMessages(characterID)
}

// AppendUserMessage records a user turn in a character's conversation.
func (a *App) AppendUserMessage(user domain.User, characterID, content string) (domain.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: content required", ErrValidation)
	}
	if err := a.requireCharacterOwnership(user, characterID); err != nil {
		return domain.ChatMessage{}, err
	}
	msg := domain.ChatMessage{
		ID:          util.NewID(),
		CharacterID: characterID,
		Role:        domain.RoleUserMessage,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.AppendMessage(msg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("save message: %w", err)
	}
	return msg, nil
}

// Generate produces a new assistant reply for a character's conversation and
// appends it as a new row. Exactly one row is created, or zero on failure.
func (a *App) Generate(ctx context.Context, user domain.User, characterID, model string) (domain.ChatMessage, error) {
	if err := a.requireCharacterOwnership(user, characterID); err != nil {
		return domain.ChatMessage{}, err
	}
	character, ok, err := a.store.GetCharacter(characterID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("fetch character: %w", err)
	}
	if !ok {
		return domain.ChatMessage{}, ErrNotFound
	}
	messages, err := a.store.ListMessages(characterID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("list messages: %w", err)
	}
	prompt, err := assembleFullPrompt(character, messages)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	result, err := a.complete(ctx, model, prompt)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	msg := domain.ChatMessage{
		ID:          util.NewID(),
		CharacterID: characterID,
		Role:        domain.RoleAssistantMessage,
		Content:     result.Content,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.AppendMessage(msg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("%w: %s", ErrPersistenceFailed, err.Error())
	}
	return msg, nil
}

// Regenerate replaces the content of an existing assistant message by
// re-running the completion over the same prefix. The flow is three phases,
// terminal on the first failure:
//
//	validating:  the message exists, is an assistant turn, and passes the
//	             ownership filter
//	generating:  prompt prefix assembly + completion call; no mutation on
//	             failure
//	persisting:  content overwritten in place (id, role, createdAt
//	             unchanged); on failure the generated text is discarded
//
// Concurrent regenerations of the same message are not serialized; the last
// persist wins.
func (a *App) Regenerate(ctx context.Context, user domain.User, messageID, model string) (domain.ChatMessage, error) {
	owned, err := a.store.MessageOwnedBy(messageID, user.ID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("check ownership: %w", err)
	}
	if !owned {
		return domain.ChatMessage{}, ErrNotFound
	}
	msg, ok, err := a.store.GetMessage(messageID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("fetch message: %w", err)
	}
	if !ok || msg.Role != domain.RoleAssistantMessage {
		return domain.ChatMessage{}, ErrNotFound
	}
	character, ok, err := a.store.GetCharacter(msg.CharacterID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("fetch character: %w", err)
	}
	if !ok {
		return domain.ChatMessage{}, ErrNotFound
	}
	messages, err := a.store.ListMessages(msg.CharacterID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("list messages: %w", err)
	}
	prompt, err := assemblePrompt(character, messages, messageID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	result, err := a.complete(ctx, model, prompt)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	if err := a.store.UpdateMessageContent(messageID, result.Content); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("%w: %s", ErrPersistenceFailed, err.Error())
	}
	msg.Content = result.Content
	return msg, nil
}

func (a *App) complete(ctx context.Context, model string, prompt []ai.Message) (ai.Result, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = a.defaultModel
	}
	result, err := a.completer.Complete(ctx, model, prompt)
	if err != nil {
		return ai.Result{}, fmt.Errorf("%w: %s", ErrCompletionFailed, err.Error())
	}
	return result, nil
}

// DeleteMessage removes one message from a conversation the user owns.
func (a *App) DeleteMessage(user domain.User, messageID string) error {
	owned, err := a.store.MessageOwnedBy(messageID, user.ID)
	if err != nil {
		return fmt.Errorf("check ownership: %w", err)
	}
	if !owned {
		return ErrNotFound
	}
	if err := a.store.DeleteMessage(messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// ReactToMessage increments the count for one emoji on a message.
func (a *App) ReactToMessage(user domain.User, messageID, emoji string) (domain.ChatMessage, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: emoji required", ErrValidation)
	}
	owned, err := a.store.MessageOwnedBy(messageID, user.ID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("check ownership: %w", err)
	}
	if !owned {
		return domain.ChatMessage{}, ErrNotFound
	}
	msg, ok, err := a.store.GetMessage(messageID)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("fetch message: %w", err)
	}
	if !ok {
		return domain.ChatMessage{}, ErrNotFound
	}
	if msg.Reactions == nil {
		msg.Reactions = make(map[string]int)
	}
	msg.Reactions[emoji]++
	if err := a.store.UpdateMessageReactions(messageID, msg.Reactions); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("save reactions: %w", err)
	}
	return msg, nil
}

// ListNotifications returns the user's notifications, newest first.
func (a *App) ListNotifications(user domain.User) ([]domain.Notification, error) {
	return a.store.ListNotificationsByUser(user.ID)
}

// MarkNotificationRead marks one of the user's notifications as read.
func (a *App) MarkNotificationRead(user domain.User, id string) error {
	if err := a.requireNotificationOwnership(user, id); err != nil {
		return err
	}
	return a.store.MarkNotificationRead(id)
}

// MarkAllNotificationsRead marks all of the user's notifications as read.
func (a *App) MarkAllNotificationsRead(user domain.User) error {
	return a.store.MarkAllNotificationsRead(user.ID)
}

// DeleteNotification removes one of the user's notifications.
func (a *App) DeleteNotification(user domain.User, id string) error {
	if err := a.requireNotificationOwnership(user, id); err != nil {
		return err
	}
	return a.store.DeleteNotification(id)
}

// GetPreferences returns the user's preference row.
func (a *App) GetPreferences(user domain.User) (domain.UserPreference, error) {
	pref, ok, err := a.store.GetPreference(user.ID)
	if err != nil {
		return domain.UserPreference{}, fmt.Errorf("fetch preference: %w", err)
	}
	if !ok {
		return domain.UserPreference{UserID: user.ID}, nil
	}
	return pref, nil
}

// UpdatePreferences replaces the user's preference row. A selected character
// must pass the ownership filter.
func (a *App) UpdatePreferences(user domain.User, selectedCharID, chatTheme string) (domain.UserPreference, error) {
	selectedCharID = strings.TrimSpace(selectedCharID)
	if selectedCharID != "" {
		if err := a.requireCharacterOwnership(user, selectedCharID); err != nil {
			return domain.UserPreference{}, err
		}
	}
	pref := domain.UserPreference{
		UserID:         user.ID,
		SelectedCharID: selectedCharID,
		ChatTheme:      strings.TrimSpace(chatTheme),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := a.store.SavePreference(pref); err != nil {
		return domain.UserPreference{}, fmt.Errorf("save preference: %w", err)
	}
	return pref, nil
}

// ListUsers returns all users (admin use only).
func (a *App) ListUsers(actor domain.User) ([]domain.User, error) {
	if !actor.Role.AtLeast(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	return a.store.ListUsers()
}

// AdminUserUpdate carries optional moderation changes to an account.
type AdminUserUpdate struct {
	Role         *domain.Role
	Blocked      *bool
	BlockedUntil *time.Time
}

// AdminUpdateUser changes another account's role or blocked state. The actor
// may only modify accounts of strictly lower rank and may only assign roles
// below their own.
func (a *App) AdminUpdateUser(actor domain.User, targetID string, update AdminUserUpdate) (domain.User, error) {
	if !actor.Role.AtLeast(domain.RoleAdmin) {
		return domain.User{}, ErrForbidden
	}
	if targetID == actor.ID {
		return domain.User{}, fmt.Errorf("%w: cannot modify own account", ErrValidation)
	}
	target, ok, err := a.store.GetUserByID(targetID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrNotFound
	}
	if !actor.Role.CanModerate(target.Role) {
		return domain.User{}, ErrForbidden
	}
	if update.Role != nil {
		if !actor.Role.CanModerate(*update.Role) {
			return domain.User{}, ErrForbidden
		}
		target.Role = *update.Role
	}
	if update.Blocked != nil {
		target.Blocked = *update.Blocked
		target.BlockedUntil = nil
		if *update.Blocked && update.BlockedUntil != nil {
			until := update.BlockedUntil.UTC()
			target.BlockedUntil = &until
		}
	}
	target.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveUser(target); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return target, nil
}

// AdminDeleteUser removes an account and everything it owns.
func (a *App) AdminDeleteUser(actor domain.User, targetID string) error {
	if !actor.Role.AtLeast(domain.RoleAdmin) {
		return ErrForbidden
	}
	if targetID == actor.ID {
		return fmt.Errorf("%w: cannot delete own account", ErrValidation)
	}
	target, ok, err := a.store.GetUserByID(targetID)
	if err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	if !actor.Role.CanModerate(target.Role) {
		return ErrForbidden
	}
	if err := a.store.DeleteUser(targetID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (a *App) ownedCharacter(user domain.User, id string) (domain.Character, error) {
	if err := a.requireCharacterOwnership(user, id); err != nil {
		return domain.Character{}, err
	}
	character, ok, err := a.store.GetCharacter(id)
	if err != nil {
		return domain.Character{}, fmt.Errorf("fetch character: %w", err)
	}
	if !ok {
		return domain.Character{}, ErrNotFound
	}
	return character, nil
}

func (a *App) requireCharacterOwnership(user domain.User, characterID string) error {
	owned, err := a.store.CharacterOwnedBy(characterID, user.ID)
	if err != nil {
		return fmt.Errorf("check ownership: %w", err)
	}
	if !owned {
		return ErrNotFound
	}
	return nil
}

func (a *App) requireNotificationOwnership(user domain.User, id string) error {
	notification, ok, err := a.store.GetNotification(id)
	if err != nil {
		return fmt.Errorf("fetch notification: %w", err)
	}
	if !ok || notification.UserID != user.ID {
		return ErrNotFound
	}
	return nil
}

func (a *App) createNotification(ctx context.Context, userID, kind, title, message string, metadata map[string]string) {
	notification := domain.Notification{
		ID:        util.NewID(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.SaveNotification(notification); err != nil {
		slog.Error("save notification", "err", err, "user_id", userID)
		return
	}
	if a.notifier != nil {
		if err := a.notifier.Publish(ctx, notification); err != nil {
			slog.Warn("publish notification event", "err", err, "notification_id", notification.ID)
		}
	}
}
