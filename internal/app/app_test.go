package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"personahub/internal/util"
	"personahub/pkg/ai"
	"personahub/pkg/domain"
	"personahub/pkg/store"
)

type fakeCompleter struct {
	result     ai.Result
	err        error
	calls      int
	lastPrompt []ai.Message
	lastModel  string
}

func (f *fakeCompleter) Complete(_ context.Context, model string, messages []ai.Message) (ai.Result, error) {
	f.calls++
	f.lastModel = model
	f.lastPrompt = messages
	if f.err != nil {
		return ai.Result{}, f.err
	}
	return f.result, nil
}

// failingStore wraps MemoryStore so individual writes can be made to fail,
// standing in for a database that errors mid-operation.
type failingStore struct {
	*store.MemoryStore
	failAppend bool
	failUpdate bool
	failSignup bool
}

func (f *failingStore) AppendMessage(msg domain.ChatMessage) error {
	if f.failAppend {
		return errors.New("disk full")
	}
	return f.MemoryStore.AppendMessage(msg)
}

func (f *failingStore) UpdateMessageContent(id, content string) error {
	if f.failUpdate {
		return errors.New("disk full")
	}
	return f.MemoryStore.UpdateMessageContent(id, content)
}

func (f *failingStore) CreateUserWithDefaults(u domain.User, c domain.Character, p domain.UserPreference) error {
	if f.failSignup {
		return errors.New("disk full")
	}
	return f.MemoryStore.CreateUserWithDefaults(u, c, p)
}

func newFailingTestApp(t *testing.T) (*App, *failingStore, *fakeCompleter) {
	t.Helper()
	flaky := &failingStore{MemoryStore: store.NewMemoryStore()}
	completer := &fakeCompleter{result: ai.Result{Content: "generated reply", FinishReason: "stop"}}
	a, err := New(Config{
		Store:        flaky,
		Completer:    completer,
		DefaultModel: "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, flaky, completer
}

func newTestApp(t *testing.T) (*App, *store.MemoryStore, *fakeCompleter) {
	t.Helper()
	memStore := store.NewMemoryStore()
	completer := &fakeCompleter{result: ai.Result{Content: "generated reply", FinishReason: "stop"}}
	a, err := New(Config{
		Store:        memStore,
		Completer:    completer,
		DefaultModel: "gpt-4o-mini",
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a, memStore, completer
}

func signUp(t *testing.T, a *App, email, username string) domain.User {
	t.Helper()
	user, err := a.SignUp(email, username, "Str0ngPassword")
	if err != nil {
		t.Fatalf("sign up %s: %v", email, err)
	}
	return user
}

func seedConversation(t *testing.T, memStore *store.MemoryStore, characterID string) (userMsg, assistantMsg domain.ChatMessage) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userMsg = domain.ChatMessage{
		ID: util.NewID(), CharacterID: characterID,
		Role: domain.RoleUserMessage, Content: "tell me a story", CreatedAt: base,
	}
	assistantMsg = domain.ChatMessage{
		ID: util.NewID(), CharacterID: characterID,
		Role: domain.RoleAssistantMessage, Content: "once upon a time", CreatedAt: base.Add(time.Second),
	}
	if err := memStore.AppendMessage(userMsg); err != nil {
		t.Fatalf("seed user message: %v", err)
	}
	if err := memStore.AppendMessage(assistantMsg); err != nil {
		t.Fatalf("seed assistant message: %v", err)
	}
	return userMsg, assistantMsg
}

func ownedCharacterID(t *testing.T, a *App, user domain.User) string {
	t.Helper()
	characters, err := a.ListCharacters(user)
	if err != nil || len(characters) == 0 {
		t.Fatalf("list characters: %v (count %d)", err, len(characters))
	}
	return characters[0].ID
}

func TestSignUpCreatesDefaults(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	first := signUp(t, a, "first@example.com", "first")
	if first.Role != domain.RoleSuperAdmin {
		t.Fatalf("first account should be superadmin, got %s", first.Role)
	}
	second := signUp(t, a, "second@example.com", "second")
	if second.Role != domain.RoleUser {
		t.Fatalf("later accounts should be plain users, got %s", second.Role)
	}
	characters, err := a.ListCharacters(second)
	if err != nil || len(characters) != 1 {
		t.Fatalf("expected one default character, got %d (%v)", len(characters), err)
	}
	pref, ok, err := memStore.GetPreference(second.ID)
	if err != nil || !ok {
		t.Fatalf("expected preference row, got ok=%v err=%v", ok, err)
	}
	if pref.SelectedCharID != characters[0].ID {
		t.Fatalf("preference should select the default character")
	}
}

func TestSignUpRejectsDuplicates(t *testing.T) {
	a, _, _ := newTestApp(t)
	signUp(t, a, "dup@example.com", "dup")
	if _, err := a.SignUp("dup@example.com", "other", "Str0ngPassword"); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
	if _, err := a.SignUp("other@example.com", "dup", "Str0ngPassword"); !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Fatalf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

func TestSignUpRejectsWeakPassword(t *testing.T) {
	a, _, _ := newTestApp(t)
	if _, err := a.SignUp("weak@example.com", "weak", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	user := signUp(t, a, "login@example.com", "login")

	got, err := a.Login("Login@Example.com", "Str0ngPassword")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("login returned wrong user")
	}
	if _, err := a.Login("login@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Login("nobody@example.com", "Str0ngPassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	user.Blocked = true
	if err := memStore.SaveUser(user); err != nil {
		t.Fatalf("block user: %v", err)
	}
	if _, err := a.Login("login@example.com", "Str0ngPassword"); !errors.Is(err, ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}

	// An expired temporary block no longer locks the account out.
	past := time.Now().UTC().Add(-time.Hour)
	user.BlockedUntil = &past
	if err := memStore.SaveUser(user); err != nil {
		t.Fatalf("update user: %v", err)
	}
	if _, err := a.Login("login@example.com", "Str0ngPassword"); err != nil {
		t.Fatalf("expired block should allow login, got %v", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	user := signUp(t, a, "verify@example.com", "verify")
	stored, _, _ := memStore.GetUserByID(user.ID)

	verified, err := a.VerifyEmail(stored.VerificationToken)
	if err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if !verified.EmailVerified || verified.VerificationToken != "" {
		t.Fatalf("verification should mark the account and consume the token")
	}
	if _, err := a.VerifyEmail(stored.VerificationToken); !errors.Is(err, ErrInvalidVerifyToken) {
		t.Fatalf("expected consumed token to be rejected, got %v", err)
	}
	if _, err := a.VerifyEmail("bogus"); !errors.Is(err, ErrInvalidVerifyToken) {
		t.Fatalf("expected unknown token to be rejected, got %v", err)
	}
}

func TestGenerateAppendsExactlyOneMessage(t *testing.T) {
	a, memStore, completer := newTestApp(t)
	user := signUp(t, a, "gen@example.com", "gen")
	characterID := ownedCharacterID(t, a, user)
	seedConversation(t, memStore, characterID)

	before, _ := memStore.ListMessages(characterID)
	msg, err := a.Generate(context.Background(), user, characterID, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	after, _ := memStore.ListMessages(characterID)
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one new message, got %d -> %d", len(before), len(after))
	}
	if msg.Role != domain.RoleAssistantMessage || msg.Content != "generated reply" {
		t.Fatalf("unexpected generated message: %+v", msg)
	}
	if completer.lastModel != "gpt-4o-mini" {
		t.Fatalf("empty model should fall back to the default, got %q", completer.lastModel)
	}
}

func TestGenerateRequiresUserTurn(t *testing.T) {
	a, _, completer := newTestApp(t)
	user := signUp(t, a, "empty@example.com", "empty")
	characterID := ownedCharacterID(t, a, user)

	if _, err := a.Generate(context.Background(), user, characterID, ""); !errors.Is(err, ErrNoPriorUserMessage) {
		t.Fatalf("expected ErrNoPriorUserMessage, got %v", err)
	}
	if completer.calls != 0 {
		t.Fatalf("completion must not run without a user turn")
	}
}

func TestGenerateCompletionFailureAppendsNothing(t *testing.T) {
	a, memStore, completer := newTestApp(t)
	user := signUp(t, a, "fail@example.com", "fail")
	characterID := ownedCharacterID(t, a, user)
	seedConversation(t, memStore, characterID)
	completer.err = errors.New("provider down")

	if _, err := a.Generate(context.Background(), user, characterID, ""); !errors.Is(err, ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
	messages, _ := memStore.ListMessages(characterID)
	if len(messages) != 2 {
		t.Fatalf("failed generation must not append, got %d messages", len(messages))
	}
}

func TestRegenerateOverwritesInPlace(t *testing.T) {
	a, memStore, completer := newTestApp(t)
	user := signUp(t, a, "regen@example.com", "regen")
	characterID := ownedCharacterID(t, a, user)
	_, target := seedConversation(t, memStore, characterID)

	before, _ := memStore.ListMessages(characterID)
	updated, err := a.Regenerate(context.Background(), user, target.ID, "gpt-4o")
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	after, _ := memStore.ListMessages(characterID)
	if len(after) != len(before) {
		t.Fatalf("regeneration must not change message count: %d -> %d", len(before), len(after))
	}
	if updated.ID != target.ID || updated.Role != target.Role || !updated.CreatedAt.Equal(target.CreatedAt) {
		t.Fatalf("identity fields must be preserved: %+v", updated)
	}
	stored, _, _ := memStore.GetMessage(target.ID)
	if stored.Content != "generated reply" {
		t.Fatalf("content should be overwritten, got %q", stored.Content)
	}
	if completer.lastModel != "gpt-4o" {
		t.Fatalf("explicit model should be honored, got %q", completer.lastModel)
	}
	// The prompt is the prefix up to the nearest user turn, not the stale reply.
	for _, p := range completer.lastPrompt {
		if p.Content == "once upon a time" {
			t.Fatalf("stale assistant content must not appear in the prompt")
		}
	}
}

func TestRegenerateCompletionFailureLeavesContent(t *testing.T) {
	a, memStore, completer := newTestApp(t)
	user := signUp(t, a, "regenfail@example.com", "regenfail")
	characterID := ownedCharacterID(t, a, user)
	_, target := seedConversation(t, memStore, characterID)
	completer.err = errors.New("timeout")

	if _, err := a.Regenerate(context.Background(), user, target.ID, ""); !errors.Is(err, ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
	stored, _, _ := memStore.GetMessage(target.ID)
	if stored.Content != "once upon a time" {
		t.Fatalf("failed regeneration must not mutate, got %q", stored.Content)
	}
}

func TestGeneratePersistFailureAppendsNothing(t *testing.T) {
	a, flaky, completer := newFailingTestApp(t)
	user := signUp(t, a, "persist@example.com", "persist")
	characterID := ownedCharacterID(t, a, user)
	seedConversation(t, flaky.MemoryStore, characterID)
	flaky.failAppend = true

	if _, err := a.Generate(context.Background(), user, characterID, ""); !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed, got %v", err)
	}
	if completer.calls != 1 {
		t.Fatalf("generation runs before the persist step, got %d calls", completer.calls)
	}
	messages, _ := flaky.MemoryStore.ListMessages(characterID)
	if len(messages) != 2 {
		t.Fatalf("failed persist must create no row, got %d messages", len(messages))
	}
}

func TestRegeneratePersistFailureLeavesContent(t *testing.T) {
	a, flaky, _ := newFailingTestApp(t)
	user := signUp(t, a, "persist2@example.com", "persist2")
	characterID := ownedCharacterID(t, a, user)
	_, target := seedConversation(t, flaky.MemoryStore, characterID)
	flaky.failUpdate = true

	if _, err := a.Regenerate(context.Background(), user, target.ID, ""); !errors.Is(err, ErrPersistenceFailed) {
		t.Fatalf("expected ErrPersistenceFailed, got %v", err)
	}
	stored, _, _ := flaky.MemoryStore.GetMessage(target.ID)
	if stored.Content != "once upon a time" {
		t.Fatalf("generated text must be discarded on persist failure, got %q", stored.Content)
	}
}

func TestSignUpStoreFailureCreatesNothing(t *testing.T) {
	a, flaky, _ := newFailingTestApp(t)
	flaky.failSignup = true

	if _, err := a.SignUp("atomic@example.com", "atomic", "Str0ngPassword"); err == nil {
		t.Fatalf("expected signup to surface the store failure")
	}
	if exists, _ := flaky.MemoryStore.HasUserEmail("atomic@example.com"); exists {
		t.Fatalf("failed signup must not leave an account behind")
	}
	if count, _ := flaky.MemoryStore.UserCount(); count != 0 {
		t.Fatalf("failed signup must not leave rows behind, got %d users", count)
	}
}

func TestRegenerateOwnershipIndistinguishableFromMissing(t *testing.T) {
	a, memStore, completer := newTestApp(t)
	owner := signUp(t, a, "owner@example.com", "owner")
	intruder := signUp(t, a, "intruder@example.com", "intruder")
	characterID := ownedCharacterID(t, a, owner)
	_, target := seedConversation(t, memStore, characterID)

	crossErr := func() error {
		_, err := a.Regenerate(context.Background(), intruder, target.ID, "")
		return err
	}()
	missingErr := func() error {
		_, err := a.Regenerate(context.Background(), intruder, "no-such-message", "")
		return err
	}()
	if !errors.Is(crossErr, ErrNotFound) || !errors.Is(missingErr, ErrNotFound) {
		t.Fatalf("both must be NotFound, got %v and %v", crossErr, missingErr)
	}
	if completer.calls != 0 {
		t.Fatalf("completion must not run for rejected requests")
	}
}

func TestRegenerateRejectsUserTurn(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	user := signUp(t, a, "userturn@example.com", "userturn")
	characterID := ownedCharacterID(t, a, user)
	userMsg, _ := seedConversation(t, memStore, characterID)

	if _, err := a.Regenerate(context.Background(), user, userMsg.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("user-turn target should be NotFound, got %v", err)
	}
}

func TestCharacterOwnershipFilter(t *testing.T) {
	a, _, _ := newTestApp(t)
	owner := signUp(t, a, "charowner@example.com", "charowner")
	intruder := signUp(t, a, "charintruder@example.com", "charintruder")
	characterID := ownedCharacterID(t, a, owner)

	if _, err := a.GetCharacter(intruder, characterID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user read should be NotFound, got %v", err)
	}
	if err := a.DeleteCharacter(intruder, characterID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user delete should be NotFound, got %v", err)
	}
	if _, err := a.ListCharacterMessages(intruder, characterID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user message list should be NotFound, got %v", err)
	}
}

func TestUpdateCharacterResetsDecidedReview(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	user := signUp(t, a, "edit@example.com", "edit")
	characterID := ownedCharacterID(t, a, user)

	character, _, _ := memStore.GetCharacter(characterID)
	character.ReviewStatus = domain.ReviewApproved
	if err := memStore.SaveCharacter(character); err != nil {
		t.Fatalf("save character: %v", err)
	}
	name := "Renamed"
	updated, err := a.UpdateCharacter(user, characterID, CharacterUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update character: %v", err)
	}
	if updated.ReviewStatus != domain.ReviewPrivate {
		t.Fatalf("editing an approved character should reset review status, got %s", updated.ReviewStatus)
	}
}

func TestReorderCharacters(t *testing.T) {
	a, _, _ := newTestApp(t)
	user := signUp(t, a, "order@example.com", "order")
	b, err := a.CreateCharacter(user, CharacterInput{Name: "B"})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	defaultID := ownedCharacterID(t, a, user)

	if err := a.ReorderCharacters(user, []string{b.ID, defaultID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	characters, _ := a.ListCharacters(user)
	if characters[0].ID != b.ID || characters[1].ID != defaultID {
		t.Fatalf("ordering not persisted: %s, %s", characters[0].Name, characters[1].Name)
	}
	if err := a.ReorderCharacters(user, []string{b.ID}); !errors.Is(err, ErrValidation) {
		t.Fatalf("partial id list should fail validation, got %v", err)
	}
}

func TestModerationFlow(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	moderator := signUp(t, a, "mod@example.com", "mod") // first user, superadmin
	author := signUp(t, a, "author@example.com", "author")
	characterID := ownedCharacterID(t, a, author)

	pending, err := a.SubmitForReview(author, characterID)
	if err != nil {
		t.Fatalf("submit for review: %v", err)
	}
	character, _, _ := memStore.GetCharacter(characterID)
	if character.ReviewStatus != domain.ReviewPending {
		t.Fatalf("submit should mark the character pending, got %s", character.ReviewStatus)
	}

	if _, err := a.ListPendingCharacters(author); !errors.Is(err, ErrForbidden) {
		t.Fatalf("plain user must not read the queue, got %v", err)
	}
	queue, err := a.ListPendingCharacters(moderator)
	if err != nil || len(queue) != 1 {
		t.Fatalf("expected one queued item, got %d (%v)", len(queue), err)
	}

	decided, err := a.ApprovePending(context.Background(), moderator, pending.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if decided.Status != domain.ReviewApproved {
		t.Fatalf("expected approved status, got %s", decided.Status)
	}
	character, _, _ = memStore.GetCharacter(characterID)
	if character.ReviewStatus != domain.ReviewApproved {
		t.Fatalf("approval should flip the character status, got %s", character.ReviewStatus)
	}
	notifications, _ := a.ListNotifications(author)
	if len(notifications) != 1 {
		t.Fatalf("author should be notified, got %d notifications", len(notifications))
	}

	// A decided item leaves the queue and cannot be decided twice.
	if _, err := a.ApprovePending(context.Background(), moderator, pending.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double decision should be NotFound, got %v", err)
	}
}

func TestRejectPendingIncludesReason(t *testing.T) {
	a, _, _ := newTestApp(t)
	moderator := signUp(t, a, "mod2@example.com", "mod2")
	author := signUp(t, a, "author2@example.com", "author2")
	characterID := ownedCharacterID(t, a, author)
	pending, err := a.SubmitForReview(author, characterID)
	if err != nil {
		t.Fatalf("submit for review: %v", err)
	}
	if _, err := a.RejectPending(context.Background(), moderator, pending.ID, "too spicy"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	notifications, _ := a.ListNotifications(author)
	if len(notifications) != 1 || !strings.Contains(notifications[0].Message, "too spicy") {
		t.Fatalf("rejection reason should reach the author: %+v", notifications)
	}
}

func TestReactionsAccumulate(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	user := signUp(t, a, "react@example.com", "react")
	characterID := ownedCharacterID(t, a, user)
	_, target := seedConversation(t, memStore, characterID)

	if _, err := a.ReactToMessage(user, target.ID, "heart"); err != nil {
		t.Fatalf("react: %v", err)
	}
	msg, err := a.ReactToMessage(user, target.ID, "heart")
	if err != nil {
		t.Fatalf("react again: %v", err)
	}
	if msg.Reactions["heart"] != 2 {
		t.Fatalf("expected count 2, got %d", msg.Reactions["heart"])
	}
}

func TestPreferencesRejectForeignCharacter(t *testing.T) {
	a, _, _ := newTestApp(t)
	owner := signUp(t, a, "prefowner@example.com", "prefowner")
	other := signUp(t, a, "prefother@example.com", "prefother")
	foreignID := ownedCharacterID(t, a, owner)

	if _, err := a.UpdatePreferences(other, foreignID, "dark"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign selected character should be NotFound, got %v", err)
	}
	pref, err := a.UpdatePreferences(other, "", "dark")
	if err != nil {
		t.Fatalf("update preferences: %v", err)
	}
	if pref.ChatTheme != "dark" {
		t.Fatalf("theme not persisted: %+v", pref)
	}
}

func TestAdminUpdateUserRankRules(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	super := signUp(t, a, "super@example.com", "super")
	target := signUp(t, a, "target@example.com", "target")

	adminRole := domain.RoleAdmin
	promoted, err := a.AdminUpdateUser(super, target.ID, AdminUserUpdate{Role: &adminRole})
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.Role != domain.RoleAdmin {
		t.Fatalf("expected admin, got %s", promoted.Role)
	}

	// An admin cannot touch a peer admin.
	peer := signUp(t, a, "peer@example.com", "peer")
	peerUser, _, _ := memStore.GetUserByID(peer.ID)
	peerUser.Role = domain.RoleAdmin
	if err := memStore.SaveUser(peerUser); err != nil {
		t.Fatalf("save user: %v", err)
	}
	blocked := true
	if _, err := a.AdminUpdateUser(promoted, peerUser.ID, AdminUserUpdate{Blocked: &blocked}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("peer modification should be forbidden, got %v", err)
	}

	// An admin cannot hand out their own rank.
	pleb := signUp(t, a, "pleb@example.com", "pleb")
	if _, err := a.AdminUpdateUser(promoted, pleb.ID, AdminUserUpdate{Role: &adminRole}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("assigning own rank should be forbidden, got %v", err)
	}
	modRole := domain.RoleModerator
	if _, err := a.AdminUpdateUser(promoted, pleb.ID, AdminUserUpdate{Role: &modRole}); err != nil {
		t.Fatalf("assigning a lower rank should work, got %v", err)
	}

	// Nobody edits their own account through the admin surface.
	if _, err := a.AdminUpdateUser(super, super.ID, AdminUserUpdate{Blocked: &blocked}); !errors.Is(err, ErrValidation) {
		t.Fatalf("self modification should fail validation, got %v", err)
	}

	// Blocking takes effect immediately.
	if _, err := a.AdminUpdateUser(super, pleb.ID, AdminUserUpdate{Blocked: &blocked}); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, ok := a.UserFromID(pleb.ID); ok {
		t.Fatalf("blocked user should not resolve")
	}
}

func TestAdminDeleteUserCascades(t *testing.T) {
	a, memStore, _ := newTestApp(t)
	super := signUp(t, a, "root@example.com", "root")
	doomed := signUp(t, a, "doomed@example.com", "doomed")
	characterID := ownedCharacterID(t, a, doomed)
	seedConversation(t, memStore, characterID)

	if err := a.AdminDeleteUser(super, doomed.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, ok, _ := memStore.GetUserByID(doomed.ID); ok {
		t.Fatalf("user should be gone")
	}
	if _, ok, _ := memStore.GetCharacter(characterID); ok {
		t.Fatalf("characters should cascade")
	}
	if messages, _ := memStore.ListMessages(characterID); len(messages) != 0 {
		t.Fatalf("messages should cascade, got %d", len(messages))
	}
	if _, ok, _ := memStore.GetPreference(doomed.ID); ok {
		t.Fatalf("preference should cascade")
	}
}
