package counselor

import (
	"testing"

	"ai-career-counselor-be/internal/constant"
)

func TestBuildContextPrimingPair(t *testing.T) {
	messages := BuildContext(nil)

	if len(messages) != 2 {
		t.Fatalf("expected only the priming pair, got %d messages", len(messages))
	}
	if messages[0].Role != "user" || messages[0].Content != constant.CareerCounselorPromptV1 {
		t.Errorf("first message is not the counselor prompt")
	}
	if messages[1].Role != "assistant" || messages[1].Content != constant.CareerCounselorAckPromptV1 {
		t.Errorf("second message is not the acknowledgement")
	}
}

func TestBuildContextExcludesCurrentMessage(t *testing.T) {
	history := []Turn{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
		{Role: "user", Content: "the message being answered"},
	}

	messages := BuildContext(history)

	// priming pair + the two prior turns
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	for _, msg := range messages {
		if msg.Content == "the message being answered" {
			t.Errorf("current message must not be replayed in the context")
		}
	}
	if messages[2].Content != "first question" || messages[2].Role != "user" {
		t.Errorf("third message = %+v, want the first user turn", messages[2])
	}
	if messages[3].Content != "first answer" || messages[3].Role != "assistant" {
		t.Errorf("fourth message = %+v, want the first assistant turn", messages[3])
	}
}

func TestBuildContextSkipsUnknownRoles(t *testing.T) {
	history := []Turn{
		{Role: "system", Content: "should be dropped"},
		{Role: "user", Content: "kept"},
		{Role: "user", Content: "current"},
	}

	messages := BuildContext(history)

	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[2].Content != "kept" {
		t.Errorf("unexpected replayed turn %+v", messages[2])
	}
}
