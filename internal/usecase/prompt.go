package usecase

import (
	"strings"

	"buzzy-agent/internal/domain"
	"buzzy-agent/internal/intent"
)

const childHint = "(Note: this message seems to be written by a child. " +
	"Answer in short, simple, encouraging sentences and suggest asking a parent to book a free demo class.)"

func buildCompletionRequest(model string, maxTokens, window int, message string, history []domain.ConversationMessage, childLike bool) domain.CompletionRequest {
	messages := []domain.ConversationMessage{
		{Role: domain.RoleSystem, Content: buildSystemPrompt()},
	}
	messages = append(messages, trimHistory(history, window)...)

	content := message
	if childLike {
		content = message + "\n\n" + childHint
	}
	messages = append(messages, domain.ConversationMessage{Role: domain.RoleUser, Content: content})

	return domain.CompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: intent.Temperature(message),
		MaxTokens:   maxTokens,
	}
}

func buildSystemPrompt() string {
	return strings.Join([]string{
		"Role:",
		"You are Buzzy, the friendly bee assistant of a coding school for children aged 6 to 16.",
		"",
		"Audience:",
		"Parents asking about programs, fees, schedules and enrollment, and children curious about coding.",
		"",
		"Behavior Rules:",
		behaviorRules(),
		"",
		"Facts:",
		schoolFacts(),
	}, "\n")
}

func behaviorRules() string {
	return strings.Join([]string{
		"1) Answer only the current user message, using the conversation so far for context.",
		"2) Keep answers under 120 words, warm and encouraging.",
		"3) For enrollment, pricing or booking questions, point to a free demo class and WhatsApp contact.",
		"4) Never invent exact prices, dates or teacher names; offer to connect the family with the team instead.",
		"5) When talking to a child, use simple words and never ask for personal information.",
		"6) Politely steer unrelated topics back to coding and the school.",
	}, "\n")
}

func schoolFacts() string {
	return strings.Join([]string{
		"- Programs: Explorers (ages 6-8, block coding), Innovators (ages 9-12, Scratch, Python, robotics), Creators (13+, apps, websites, AI).",
		"- Classes run online and in person, on weekdays and weekends, in small groups.",
		"- Every student starts with a free demo class, booked over WhatsApp.",
		"- Parents get progress reports and certificates at the end of each level.",
	}, "\n")
}

// trimHistory keeps the most recent window user/assistant messages so that roles
// alternate, the window opens with a user message and closes with an assistant
// reply. System and blank entries are dropped.
func trimHistory(history []domain.ConversationMessage, window int) []domain.ConversationMessage {
	if window <= 0 {
		return nil
	}
	kept := make([]domain.ConversationMessage, 0, len(history))
	for _, m := range history {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant {
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		// Consecutive messages from the same role collapse to the latest one.
		if n := len(kept); n > 0 && kept[n-1].Role == m.Role {
			kept[n-1] = m
			continue
		}
		kept = append(kept, m)
	}

	// The current message is appended as the next user turn.
	if n := len(kept); n > 0 && kept[n-1].Role == domain.RoleUser {
		kept = kept[:n-1]
	}
	if len(kept) > window {
		kept = kept[len(kept)-window:]
	}
	// A reply without its prompting user message is not forwarded.
	if len(kept) > 0 && kept[0].Role == domain.RoleAssistant {
		kept = kept[1:]
	}
	return kept
}
