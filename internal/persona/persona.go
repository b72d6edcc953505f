// Package persona defines the closed set of reply styles and their
// deterministic local reply templates.
package persona

import (
	"fmt"
	"strings"
)

// Persona selects the assistant's reply style.
type Persona int

const (
	Friendly Persona = iota
	Neutral
	Cheerful
	Professional
)

// Parse maps a persona label to its variant. Unknown labels map to Friendly.
func Parse(s string) Persona {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "neutral":
		return Neutral
	case "cheerful":
		return Cheerful
	case "professional":
		return Professional
	default:
		return Friendly
	}
}

func (p Persona) String() string {
	switch p {
	case Neutral:
		return "Neutral"
	case Cheerful:
		return "Cheerful"
	case Professional:
		return "Professional"
	default:
		return "Friendly"
	}
}

// Instruction returns the system prompt sent ahead of the conversation history.
func (p Persona) Instruction() string {
	return fmt.Sprintf("You are Nexa, a helpful assistant. Persona: %s.", p)
}

// Fallback returns the local reply used when no generation gateway is
// available or the gateway call fails. The turn still completes with a
// degraded reply rather than an error.
func (p Persona) Fallback(text string) string {
	if text == "" {
		text = "(image)"
	}
	switch p {
	case Neutral:
		return text
	case Cheerful:
		return fmt.Sprintf("🎉 Yay! Quick take: %s — hope that helps!", text)
	case Professional:
		return fmt.Sprintf("As requested, here's a concise response: %s.", text)
	default:
		return fmt.Sprintf("🙂 Sure — %s. I'd be happy to help! Here's a friendly summary: %s", text, text)
	}
}
