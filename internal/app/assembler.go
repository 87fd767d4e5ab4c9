package app

import (
	"strings"

	"personahub/pkg/ai"
	"personahub/pkg/domain"
)

// characterSystemPrompt synthesizes the system message from a character's
// configuration fields, concatenated in a fixed order with labeled sections.
// Empty fields are skipped entirely, label included.
func characterSystemPrompt(character domain.Character) string {
	var sb strings.Builder
	appendSection := func(label, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		if label != "" {
			sb.WriteString(label)
			sb.WriteString(":\n")
		}
		sb.WriteString(text)
	}
	appendSection("", character.SystemPrompt)
	appendSection("Personality", character.Personality)
	appendSection("Backstory", character.Backstory)
	appendSection("Custom instructions", character.CustomInstructions)
	return sb.String()
}

// assemblePrompt reconstructs the exact prompt that originally produced the
// target assistant message: the synthesized system message followed by all
// messages up to and including the last user message preceding the target.
//
// messages must be the character's full history ordered by createdAt
// ascending. The function does not touch storage.
func assemblePrompt(character domain.Character, messages []domain.ChatMessage, targetID string) ([]ai.Message, error) {
	target := -1
	for i, msg := range messages {
		if msg.ID == targetID {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, ErrNotFound
	}
	if messages[target].Role != domain.RoleAssistantMessage {
		return nil, ErrNotFound
	}

	// Nearest user turn before the target bounds the prefix.
	lastUser := -1
	for i := target - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUserMessage {
			lastUser = i
			break
		}
	}
	if lastUser == -1 {
		return nil, ErrNoPriorUserMessage
	}

	prompt := make([]ai.Message, 0, lastUser+2)
	if system := characterSystemPrompt(character); system != "" {
		prompt = append(prompt, ai.Message{Role: string(domain.RoleSystemMessage), Content: system})
	}
	for _, msg := range messages[:lastUser+1] {
		prompt = append(prompt, ai.Message{Role: string(msg.Role), Content: msg.Content})
	}
	return prompt, nil
}

// assembleFullPrompt builds the prompt for generating a brand-new assistant
// reply: the synthesized system message plus the entire history. The history
// must end in a user turn for the reply to have something to respond to.
func assembleFullPrompt(character domain.Character, messages []domain.ChatMessage) ([]ai.Message, error) {
	lastUser := -1
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUserMessage {
			lastUser = i
			break
		}
	}
	if lastUser == -1 {
		return nil, ErrNoPriorUserMessage
	}
	prompt := make([]ai.Message, 0, len(messages)+1)
	if system := characterSystemPrompt(character); system != "" {
		prompt = append(prompt, ai.Message{Role: string(domain.RoleSystemMessage), Content: system})
	}
	for _, msg := range messages {
		prompt = append(prompt, ai.Message{Role: string(msg.Role), Content: msg.Content})
	}
	return prompt, nil
}
