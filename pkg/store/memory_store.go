package store

import (
	"sort"
	"sync"

	"personahub/pkg/domain"
)

// MemoryStore keeps all records in-process. It implements Store and is the
// persistence double used by application and server tests.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]domain.User
	emails        map[string]string // email -> user ID
	characters    map[string]domain.Character
	messages      map[string]domain.ChatMessage
	pending       map[string]domain.PendingCharacter
	notifications map[string]domain.Notification
	preferences   map[string]domain.UserPreference
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]domain.User),
		emails:        make(map[string]string),
		characters:    make(map[string]domain.Character),
		messages:      make(map[string]domain.ChatMessage),
		pending:       make(map[string]domain.PendingCharacter),
		notifications: make(map[string]domain.Notification),
		preferences:   make(map[string]domain.UserPreference),
	}
}

func (m *MemoryStore) CreateUserWithDefaults(u domain.User, c domain.Character, p domain.UserPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
	m.emails[u.Email] = u.ID
	m.characters[c.ID] = c
	m.preferences[p.UserID] = p
	return nil
}

func (m *MemoryStore) SaveUser(u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.users[u.ID]; ok && existing.Email != u.Email {
		delete(m.emails, existing.Email)
	}
	m.users[u.ID] = u
	m.emails[u.Email] = u.ID
	return nil
}

func (m *MemoryStore) GetUserByID(id string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok, nil
}

func (m *MemoryStore) GetUserByEmail(email string) (domain.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.emails[email]; ok {
		u, exists := m.users[id]
		return u, exists, nil
	}
	return domain.User{}, false, nil
}

func (m *MemoryStore) GetUserByVerificationToken(token string) (domain.User, bool, error) {
	if token == "" {
		return domain.User{}, false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.VerificationToken == token {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (m *MemoryStore) HasUserEmail(email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.emails[email]
	return ok, nil
}

func (m *MemoryStore) HasUsername(username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) ListUsers() ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (m *MemoryStore) UserCount() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

func (m *MemoryStore) DeleteUser(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil
	}
	for charID, c := range m.characters {
		if c.UserID != id {
			continue
		}
		for msgID, msg := range m.messages {
			if msg.CharacterID == charID {
				delete(m.messages, msgID)
			}
		}
		delete(m.characters, charID)
	}
	for pendingID, p := range m.pending {
		if p.UserID == id {
			delete(m.pending, pendingID)
		}
	}
	for notifID, n := range m.notifications {
		if n.UserID == id {
			delete(m.notifications, notifID)
		}
	}
	delete(m.preferences, id)
	delete(m.emails, user.Email)
	delete(m.users, id)
	return nil
}

func (m *MemoryStore) SaveCharacter(c domain.Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.characters[c.ID] = c
	return nil
}

func (m *MemoryStore) GetCharacter(id string) (domain.Character, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.characters[id]
	return c, ok, nil
}

func (m *MemoryStore) ListCharactersByOwner(userID string) ([]domain.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Character, 0)
	for _, c := range m.characters {
		if c.UserID == userID {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].SortOrder != res[j].SortOrder {
			return res[i].SortOrder < res[j].SortOrder
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) ListPublicCharacters() ([]domain.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Character, 0)
	for _, c := range m.characters {
		if c.IsPublic && c.ReviewStatus == domain.ReviewApproved {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (m *MemoryStore) DeleteCharacter(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for msgID, msg := range m.messages {
		if msg.CharacterID == id {
			delete(m.messages, msgID)
		}
	}
	delete(m.characters, id)
	return nil
}

func (m *MemoryStore) CharacterOwnedBy(characterID, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.characters[characterID]
	return ok && c.UserID == userID, nil
}

func (m *MemoryStore) AppendMessage(msg domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = msg
	return nil
}

func (m *MemoryStore) GetMessage(id string) (domain.ChatMessage, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.messages[id]
	return msg, ok, nil
}

func (m *MemoryStore) ListMessages(characterID string) ([]domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.ChatMessage, 0)
	for _, msg := range m.messages {
		if msg.CharacterID == characterID {
			res = append(res, msg)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (m *MemoryStore) UpdateMessageContent(id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil
	}
	msg.Content = content
	m.messages[id] = msg
	return nil
}

func (m *MemoryStore) UpdateMessageReactions(id string, reactions map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil
	}
	msg.Reactions = reactions
	m.messages[id] = msg
	return nil
}

func (m *MemoryStore) DeleteMessage(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages, id)
	return nil
}

func (m *MemoryStore) MessageOwnedBy(messageID, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.messages[messageID]
	if !ok {
		return false, nil
	}
	c, ok := m.characters[msg.CharacterID]
	return ok && c.UserID == userID, nil
}

func (m *MemoryStore) SavePendingCharacter(p domain.PendingCharacter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[p.ID] = p
	return nil
}

func (m *MemoryStore) GetPendingCharacter(id string) (domain.PendingCharacter, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pending[id]
	return p, ok, nil
}

func (m *MemoryStore) ListPendingCharacters(status domain.ReviewStatus) ([]domain.PendingCharacter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.PendingCharacter, 0)
	for _, p := range m.pending {
		if status == "" || p.Status == status {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (m *MemoryStore) SaveNotification(n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications[n.ID] = n
	return nil
}

func (m *MemoryStore) GetNotification(id string) (domain.Notification, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notifications[id]
	return n, ok, nil
}

func (m *MemoryStore) ListNotificationsByUser(userID string) ([]domain.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make([]domain.Notification, 0)
	for _, n := range m.notifications {
		if n.UserID == userID {
			res = append(res, n)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (m *MemoryStore) MarkNotificationRead(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil
	}
	n.Read = true
	m.notifications[id] = n
	return nil
}

func (m *MemoryStore) MarkAllNotificationsRead(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			m.notifications[id] = n
		}
	}
	return nil
}

func (m *MemoryStore) DeleteNotification(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.notifications, id)
	return nil
}

func (m *MemoryStore) SavePreference(p domain.UserPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferences[p.UserID] = p
	return nil
}

func (m *MemoryStore) GetPreference(userID string) (domain.UserPreference, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.preferences[userID]
	return p, ok, nil
}
