package title

import (
	"strings"
	"testing"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     string
	}{
		{
			name:     "empty input",
			text:     "",
			maxWords: 5,
			want:     "New chat",
		},
		{
			name:     "whitespace only",
			text:     "   \t\n  ",
			maxWords: 5,
			want:     "New chat",
		},
		{
			name:     "typical question",
			text:     "Explain quantum computing in simple terms please",
			maxWords: 5,
			want:     "Explain quantum computing simple terms",
		},
		{
			name:     "stopwords and short tokens dropped",
			text:     "What is the best way to learn Go",
			maxWords: 5,
			want:     "Best way learn",
		},
		{
			name:     "punctuation stripped",
			text:     "Hello, world! How's everything going?",
			maxWords: 5,
			want:     "Hello world everything going",
		},
		{
			name:     "duplicates removed preserving order",
			text:     "testing testing one more testing round",
			maxWords: 5,
			want:     "Testing one more round",
		},
		{
			name:     "max words respected",
			text:     "alpha bravo charlie delta echo foxtrot golf",
			maxWords: 3,
			want:     "Alpha bravo charlie",
		},
		{
			name:     "only stopwords falls back to trimmed original",
			text:     "is it on and to the",
			maxWords: 5,
			want:     "is it on and to the",
		},
		{
			name:     "unfilterable long text truncated with ellipsis",
			text:     strings.Repeat("!", 50),
			maxWords: 5,
			want:     strings.Repeat("!", 40) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.text, tt.maxWords)
			if got != tt.want {
				t.Errorf("Derive(%q, %d) = %q, want %q", tt.text, tt.maxWords, got, tt.want)
			}
		})
	}
}

func TestDerive_Deterministic(t *testing.T) {
	text := "Plan a 3-day itinerary for Paris"
	first := Derive(text, 5)
	for i := 0; i < 10; i++ {
		if got := Derive(text, 5); got != first {
			t.Fatalf("Derive not deterministic: got %q then %q", first, got)
		}
	}
	if first != "Plan day itinerary paris" {
		t.Errorf("Derive(%q) = %q", text, first)
	}
}
