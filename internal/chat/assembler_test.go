package chat

import (
	"testing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/nexa-ai/nexa/internal/models"
)

func wordCounter(s string) int {
	if s == "" {
		return 1
	}
	n := 1
	for _, r := range s {
		if r == ' ' {
			n++
		}
	}
	return n
}

func textOf(t *testing.T, mc llms.MessageContent) string {
	t.Helper()
	if len(mc.Parts) != 1 {
		t.Fatalf("expected single part, got %d", len(mc.Parts))
	}
	part, ok := mc.Parts[0].(llms.TextContent)
	if !ok {
		t.Fatalf("expected text part, got %T", mc.Parts[0])
	}
	return part.Text
}

func TestBuildPayload_FullHistory(t *testing.T) {
	a := NewAssemblerWithCounter(0, wordCounter)
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi there"},
		{Role: models.RoleSystem, Content: "sender-tagged system note"},
	}

	payload := a.BuildPayload("You are X", msgs)

	if len(payload) != 1+len(msgs) {
		t.Fatalf("payload length = %d, want %d", len(payload), 1+len(msgs))
	}
	if payload[0].Role != schema.ChatMessageTypeSystem {
		t.Errorf("payload[0].Role = %v, want system", payload[0].Role)
	}
	if got := textOf(t, payload[0]); got != "You are X" {
		t.Errorf("instruction = %q", got)
	}
	if payload[1].Role != schema.ChatMessageTypeHuman {
		t.Errorf("user message mapped to %v, want human", payload[1].Role)
	}
	if payload[2].Role != schema.ChatMessageTypeAI {
		t.Errorf("assistant message mapped to %v, want ai", payload[2].Role)
	}
	// Stored "system" roles collapse to the human role; only the leading
	// instruction is a real system message.
	if payload[3].Role != schema.ChatMessageTypeHuman {
		t.Errorf("stored system message mapped to %v, want human", payload[3].Role)
	}
	for i, msg := range msgs {
		if got := textOf(t, payload[i+1]); got != msg.Content {
			t.Errorf("payload[%d] = %q, want %q", i+1, got, msg.Content)
		}
	}
}

func TestBuildPayload_TokenBudgetKeepsNewest(t *testing.T) {
	a := NewAssemblerWithCounter(5, wordCounter)
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "one two three four"},  // 4 tokens
		{Role: models.RoleAssistant, Content: "five six seven"}, // 3 tokens
		{Role: models.RoleUser, Content: "eight nine"},          // 2 tokens
	}

	payload := a.BuildPayload("sys", msgs)

	if len(payload) != 3 {
		t.Fatalf("payload length = %d, want 3 (system + newest two fitting)", len(payload))
	}
	if got := textOf(t, payload[1]); got != "five six seven" {
		t.Errorf("oldest included = %q, want %q", got, "five six seven")
	}
	if got := textOf(t, payload[2]); got != "eight nine" {
		t.Errorf("newest = %q, want %q", got, "eight nine")
	}
}

func TestBuildPayload_BudgetTooSmallStillHasInstruction(t *testing.T) {
	a := NewAssemblerWithCounter(1, wordCounter)
	msgs := []models.Message{
		{Role: models.RoleUser, Content: "far too many words to fit in one token"},
	}

	payload := a.BuildPayload("sys", msgs)

	if len(payload) != 1 {
		t.Fatalf("payload length = %d, want 1", len(payload))
	}
	if payload[0].Role != schema.ChatMessageTypeSystem {
		t.Errorf("payload[0].Role = %v, want system", payload[0].Role)
	}
}

func TestBuildPayload_EmptyHistory(t *testing.T) {
	a := NewAssemblerWithCounter(0, wordCounter)
	payload := a.BuildPayload("sys", nil)
	if len(payload) != 1 {
		t.Fatalf("payload length = %d, want 1", len(payload))
	}
}
