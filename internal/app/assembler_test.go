package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"personahub/pkg/domain"
)

func msg(id string, role domain.MessageRole, content string, at time.Time) domain.ChatMessage {
	return domain.ChatMessage{ID: id, CharacterID: "char-1", Role: role, Content: content, CreatedAt: at}
}

func history() []domain.ChatMessage {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []domain.ChatMessage{
		msg("m1", domain.RoleUserMessage, "hello", base),
		msg("m2", domain.RoleAssistantMessage, "hi there", base.Add(time.Second)),
		msg("m3", domain.RoleUserMessage, "tell me a story", base.Add(2*time.Second)),
		msg("m4", domain.RoleAssistantMessage, "once upon a time", base.Add(3*time.Second)),
		msg("m5", domain.RoleUserMessage, "go on", base.Add(4*time.Second)),
	}
}

func TestCharacterSystemPromptSections(t *testing.T) {
	character := domain.Character{
		SystemPrompt: "You are Watson.",
		Personality:  "Curious and patient.",
		Backstory:    "A retired army doctor.",
	}
	prompt := characterSystemPrompt(character)
	if !strings.HasPrefix(prompt, "You are Watson.") {
		t.Fatalf("system prompt must lead with the base prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "Personality:\nCurious and patient.") {
		t.Fatalf("missing labeled personality section: %q", prompt)
	}
	if !strings.Contains(prompt, "Backstory:\nA retired army doctor.") {
		t.Fatalf("missing labeled backstory section: %q", prompt)
	}
	if strings.Contains(prompt, "Custom instructions") {
		t.Fatalf("empty field must not produce a label: %q", prompt)
	}
}

func TestCharacterSystemPromptEmptyCharacter(t *testing.T) {
	if got := characterSystemPrompt(domain.Character{}); got != "" {
		t.Fatalf("expected empty prompt, got %q", got)
	}
}

func TestAssemblePromptPrefix(t *testing.T) {
	character := domain.Character{SystemPrompt: "You are a storyteller."}
	prompt, err := assemblePrompt(character, history(), "m4")
	if err != nil {
		t.Fatalf("assemble prompt: %v", err)
	}
	// system + m1..m3: everything after the nearest preceding user turn is cut.
	if len(prompt) != 4 {
		t.Fatalf("expected 4 prompt messages, got %d", len(prompt))
	}
	if prompt[0].Role != "system" {
		t.Fatalf("expected leading system message, got %q", prompt[0].Role)
	}
	if prompt[len(prompt)-1].Content != "tell me a story" {
		t.Fatalf("prefix must end at the nearest user turn, got %q", prompt[len(prompt)-1].Content)
	}
	for _, p := range prompt {
		if p.Content == "once upon a time" || p.Content == "go on" {
			t.Fatalf("target and later messages must be excluded")
		}
	}
}

func TestAssemblePromptTargetMustBeAssistant(t *testing.T) {
	if _, err := assemblePrompt(domain.Character{}, history(), "m3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("user-turn target should be NotFound, got %v", err)
	}
	if _, err := assemblePrompt(domain.Character{}, history(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown target should be NotFound, got %v", err)
	}
}

func TestAssemblePromptNoPriorUserMessage(t *testing.T) {
	base := time.Now().UTC()
	stray := []domain.ChatMessage{
		msg("a1", domain.RoleAssistantMessage, "greetings", base),
		msg("u1", domain.RoleUserMessage, "hi", base.Add(time.Second)),
	}
	if _, err := assemblePrompt(domain.Character{}, stray, "a1"); !errors.Is(err, ErrNoPriorUserMessage) {
		t.Fatalf("expected ErrNoPriorUserMessage, got %v", err)
	}
}

func TestAssembleFullPromptRequiresUserTurn(t *testing.T) {
	base := time.Now().UTC()
	onlyAssistant := []domain.ChatMessage{
		msg("a1", domain.RoleAssistantMessage, "greetings", base),
	}
	if _, err := assembleFullPrompt(domain.Character{}, onlyAssistant); !errors.Is(err, ErrNoPriorUserMessage) {
		t.Fatalf("expected ErrNoPriorUserMessage, got %v", err)
	}
	prompt, err := assembleFullPrompt(domain.Character{SystemPrompt: "x"}, history())
	if err != nil {
		t.Fatalf("assemble full prompt: %v", err)
	}
	if len(prompt) != 6 {
		t.Fatalf("expected system plus full history, got %d messages", len(prompt))
	}
}
