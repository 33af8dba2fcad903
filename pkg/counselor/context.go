package counselor

import (
	"ai-career-counselor-be/internal/constant"
	"ai-career-counselor-be/pkg/llm"
)

// Turn is one transcript entry, decoupled from any persistence type.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// BuildContext converts a chat transcript into the generation context
// for a contextual call: the counselor priming pair followed by every
// prior turn oldest-first. The final entry of history is the message
// currently being answered and is excluded; it is sent as the new user
// turn instead.
func BuildContext(history []Turn) []llm.Message {
	messages := []llm.Message{
		{Role: llmRoleUser, Content: constant.CareerCounselorPromptV1},
		{Role: llmRoleAssistant, Content: constant.CareerCounselorAckPromptV1},
	}

	if len(history) == 0 {
		return messages
	}

	for _, turn := range history[:len(history)-1] {
		switch turn.Role {
		case constant.ChatMessageRoleUser:
			messages = append(messages, llm.Message{Role: llmRoleUser, Content: turn.Content})
		case constant.ChatMessageRoleAssistant:
			messages = append(messages, llm.Message{Role: llmRoleAssistant, Content: turn.Content})
		}
	}

	return messages
}

const (
	llmRoleUser      = "user"
	llmRoleAssistant = "assistant"
)
