package chat

import (
	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/nexa-ai/nexa/internal/models"
)

const contextEncoding = "cl100k_base"

// Assembler turns stored conversation history into the ordered role/content
// payload consumed by the generation gateway. A zero token budget includes
// the full history; a positive budget keeps the newest messages that fit.
type Assembler struct {
	budget int
	count  func(string) int
}

// NewAssembler creates an assembler counting tokens with the cl100k_base
// encoding, falling back to a rune estimate when the vocabulary cannot be
// loaded (for example without network access to fetch it).
func NewAssembler(tokenBudget int) *Assembler {
	a := NewAssemblerWithCounter(tokenBudget, estimateTokens)
	if enc, err := tiktoken.GetEncoding(contextEncoding); err == nil {
		a.count = func(s string) int { return len(enc.Encode(s, nil, nil)) }
	}
	return a
}

// NewAssemblerWithCounter creates an assembler with a custom token counter.
func NewAssemblerWithCounter(tokenBudget int, count func(string) int) *Assembler {
	return &Assembler{budget: tokenBudget, count: count}
}

// estimateTokens approximates the cl100k token count; English text averages
// roughly four characters per token.
func estimateTokens(s string) int {
	return len([]rune(s))/4 + 1
}

// BuildPayload returns the system instruction followed by msgs in insertion
// order. Any stored role other than assistant collapses to the human role.
// The system instruction is always included, even when nothing else fits.
func (a *Assembler) BuildPayload(instruction string, msgs []models.Message) []llms.MessageContent {
	start := 0
	if a.budget > 0 {
		remaining := a.budget
		start = len(msgs)
		for i := len(msgs) - 1; i >= 0; i-- {
			cost := a.count(msgs[i].Content)
			if cost > remaining {
				break
			}
			remaining -= cost
			start = i
		}
	}

	payload := make([]llms.MessageContent, 0, len(msgs)-start+1)
	payload = append(payload, llms.TextParts(schema.ChatMessageTypeSystem, instruction))
	for _, msg := range msgs[start:] {
		role := schema.ChatMessageTypeHuman
		if msg.Role == models.RoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		payload = append(payload, llms.TextParts(role, msg.Content))
	}
	return payload
}
