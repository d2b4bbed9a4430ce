package llm

import (
	"context"
	"strings"
)

type Provider interface {
	// Generate returns the full model reply to prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// GenerateFromDocument answers prompt about an attached document.
	GenerateFromDocument(ctx context.Context, mimeType string, doc []byte, prompt string) (string, error)
	Close() error
}

// ExtractJSON strips the markdown fences models like to wrap JSON in and
// returns the outermost object or array.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	open := strings.IndexAny(s, "{[")
	if open < 0 {
		return s
	}
	closer := byte('}')
	if s[open] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < open {
		return s[open:]
	}
	return s[open : end+1]
}
