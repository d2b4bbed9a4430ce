package stt

import (
	"context"
	"strings"
)

type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}

// NormalizeLanguage maps short codes to BCP-47 tags; empty means fallback.
func NormalizeLanguage(v, fallback string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "":
		if fallback == "" {
			return "en-US"
		}
		return fallback
	case "en", "en-us":
		return "en-US"
	case "zh", "zh-cn", "cmn-hans-cn":
		return "cmn-Hans-CN"
	case "id", "id-id":
		return "id-ID"
	default:
		return v
	}
}
