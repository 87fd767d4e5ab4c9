package store

import (
	"testing"
	"time"

	"personahub/pkg/domain"
)

func seedUserWithCharacter(t *testing.T, m *MemoryStore, userID, charID string) {
	t.Helper()
	now := time.Now().UTC()
	if err := m.SaveUser(domain.User{ID: userID, Email: userID + "@example.com", Username: userID, CreatedAt: now}); err != nil {
		t.Fatalf("save user: %v", err)
	}
	if err := m.SaveCharacter(domain.Character{ID: charID, UserID: userID, Name: "C", CreatedAt: now}); err != nil {
		t.Fatalf("save character: %v", err)
	}
}

func TestMemoryStoreCreateUserWithDefaults(t *testing.T) {
	m := NewMemoryStore()
	now := time.Now().UTC()
	err := m.CreateUserWithDefaults(
		domain.User{ID: "u1", Email: "u1@example.com", Username: "u1", CreatedAt: now},
		domain.Character{ID: "c1", UserID: "u1", Name: "Assistant", CreatedAt: now},
		domain.UserPreference{UserID: "u1", SelectedCharID: "c1"},
	)
	if err != nil {
		t.Fatalf("create user with defaults: %v", err)
	}
	if _, ok, _ := m.GetUserByEmail("u1@example.com"); !ok {
		t.Fatalf("user not reachable by email after signup")
	}
	characters, err := m.ListCharactersByOwner("u1")
	if err != nil || len(characters) != 1 {
		t.Fatalf("expected one default character, got %d (%v)", len(characters), err)
	}
	if pref, ok, _ := m.GetPreference("u1"); !ok || pref.SelectedCharID != "c1" {
		t.Fatalf("preference row missing or wrong: %+v (found=%v)", pref, ok)
	}
}

func TestMemoryStoreMessageOrdering(t *testing.T) {
	m := NewMemoryStore()
	seedUserWithCharacter(t, m, "u1", "c1")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// Insert out of order; reads must come back by createdAt ascending.
	for _, msg := range []domain.ChatMessage{
		{ID: "m3", CharacterID: "c1", Role: domain.RoleUserMessage, CreatedAt: base.Add(2 * time.Second)},
		{ID: "m1", CharacterID: "c1", Role: domain.RoleUserMessage, CreatedAt: base},
		{ID: "m2", CharacterID: "c1", Role: domain.RoleAssistantMessage, CreatedAt: base.Add(time.Second)},
	} {
		if err := m.AppendMessage(msg); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	messages, err := m.ListMessages("c1")
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	got := []string{messages[0].ID, messages[1].ID, messages[2].ID}
	want := []string{"m1", "m2", "m3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", got, want)
		}
	}
}

func TestMemoryStoreOwnershipQueries(t *testing.T) {
	m := NewMemoryStore()
	seedUserWithCharacter(t, m, "u1", "c1")
	seedUserWithCharacter(t, m, "u2", "c2")
	if err := m.AppendMessage(domain.ChatMessage{ID: "m1", CharacterID: "c1", Role: domain.RoleUserMessage, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if owned, _ := m.CharacterOwnedBy("c1", "u1"); !owned {
		t.Fatalf("owner should pass the filter")
	}
	if owned, _ := m.CharacterOwnedBy("c1", "u2"); owned {
		t.Fatalf("non-owner must not pass the filter")
	}
	if owned, _ := m.CharacterOwnedBy("missing", "u1"); owned {
		t.Fatalf("missing character must not pass the filter")
	}
	if owned, _ := m.MessageOwnedBy("m1", "u1"); !owned {
		t.Fatalf("message owner should pass the filter")
	}
	if owned, _ := m.MessageOwnedBy("m1", "u2"); owned {
		t.Fatalf("message non-owner must not pass the filter")
	}
}

func TestMemoryStoreDeleteUserCascades(t *testing.T) {
	m := NewMemoryStore()
	seedUserWithCharacter(t, m, "u1", "c1")
	now := time.Now().UTC()
	if err := m.AppendMessage(domain.ChatMessage{ID: "m1", CharacterID: "c1", Role: domain.RoleUserMessage, CreatedAt: now}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := m.SaveNotification(domain.Notification{ID: "n1", UserID: "u1", CreatedAt: now}); err != nil {
		t.Fatalf("save notification: %v", err)
	}
	if err := m.SavePendingCharacter(domain.PendingCharacter{ID: "p1", UserID: "u1", Status: domain.ReviewPending, CreatedAt: now}); err != nil {
		t.Fatalf("save pending: %v", err)
	}
	if err := m.SavePreference(domain.UserPreference{UserID: "u1"}); err != nil {
		t.Fatalf("save preference: %v", err)
	}

	if err := m.DeleteUser("u1"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, ok, _ := m.GetUserByID("u1"); ok {
		t.Fatalf("user should be gone")
	}
	if _, ok, _ := m.GetCharacter("c1"); ok {
		t.Fatalf("character should cascade")
	}
	if _, ok, _ := m.GetMessage("m1"); ok {
		t.Fatalf("message should cascade")
	}
	if _, ok, _ := m.GetNotification("n1"); ok {
		t.Fatalf("notification should cascade")
	}
	if _, ok, _ := m.GetPendingCharacter("p1"); ok {
		t.Fatalf("pending character should cascade")
	}
	if _, ok, _ := m.GetPreference("u1"); ok {
		t.Fatalf("preference should cascade")
	}
	// Email frees up for reuse after deletion.
	if exists, _ := m.HasUserEmail("u1@example.com"); exists {
		t.Fatalf("email should be released")
	}
}

func TestMemoryStoreCharacterOrdering(t *testing.T) {
	m := NewMemoryStore()
	now := time.Now().UTC()
	if err := m.SaveUser(domain.User{ID: "u1", Email: "u1@example.com", Username: "u1"}); err != nil {
		t.Fatalf("save user: %v", err)
	}
	for _, c := range []domain.Character{
		{ID: "c2", UserID: "u1", Name: "second", SortOrder: 1, CreatedAt: now},
		{ID: "c1", UserID: "u1", Name: "first", SortOrder: 0, CreatedAt: now.Add(time.Second)},
	} {
		if err := m.SaveCharacter(c); err != nil {
			t.Fatalf("save character: %v", err)
		}
	}
	characters, err := m.ListCharactersByOwner("u1")
	if err != nil {
		t.Fatalf("list characters: %v", err)
	}
	if characters[0].ID != "c1" || characters[1].ID != "c2" {
		t.Fatalf("sortOrder must win over createdAt: %s, %s", characters[0].ID, characters[1].ID)
	}
}

func TestMemoryStoreListPublicCharacters(t *testing.T) {
	m := NewMemoryStore()
	seedUserWithCharacter(t, m, "u1", "c1")
	pub := domain.Character{ID: "c-pub", UserID: "u1", Name: "P", IsPublic: true, ReviewStatus: domain.ReviewApproved, CreatedAt: time.Now().UTC()}
	if err := m.SaveCharacter(pub); err != nil {
		t.Fatalf("save character: %v", err)
	}
	unapproved := domain.Character{ID: "c-wip", UserID: "u1", Name: "W", IsPublic: true, ReviewStatus: domain.ReviewPending, CreatedAt: time.Now().UTC()}
	if err := m.SaveCharacter(unapproved); err != nil {
		t.Fatalf("save character: %v", err)
	}
	public, err := m.ListPublicCharacters()
	if err != nil {
		t.Fatalf("list public: %v", err)
	}
	if len(public) != 1 || public[0].ID != "c-pub" {
		t.Fatalf("only approved public characters should list: %+v", public)
	}
}

func TestMemoryStoreNotifications(t *testing.T) {
	m := NewMemoryStore()
	now := time.Now().UTC()
	for i, id := range []string{"n1", "n2"} {
		if err := m.SaveNotification(domain.Notification{ID: id, UserID: "u1", CreatedAt: now.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("save notification: %v", err)
		}
	}
	list, err := m.ListNotificationsByUser("u1")
	if err != nil || len(list) != 2 {
		t.Fatalf("list notifications: %v (count %d)", err, len(list))
	}
	if list[0].ID != "n2" {
		t.Fatalf("notifications should list newest first, got %s", list[0].ID)
	}
	if err := m.MarkAllNotificationsRead("u1"); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	list, _ = m.ListNotificationsByUser("u1")
	for _, n := range list {
		if !n.Read {
			t.Fatalf("expected all read, got %+v", n)
		}
	}
}
