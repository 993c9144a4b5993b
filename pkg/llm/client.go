package llm

import (
	"context"
	"fmt"
	"time"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Prompt struct {
	System string
	User   string
}

// Narrator turns a prompt into free text. The output is returned as the
// service produced it.
type Narrator interface {
	Narrate(ctx context.Context, prompt Prompt) (string, error)
	ModelName() string
}

type Settings struct {
	Provider    string
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
	Timeout     time.Duration
	BaseURL     string
}

func NewNarrator(s Settings) (Narrator, error) {
	switch s.Provider {
	case "", ProviderAnthropic:
		return NewAnthropicClient(s), nil
	case ProviderOpenAI:
		return NewOpenAIClient(s), nil
	default:
		return nil, fmt.Errorf("unknown narrative provider %q", s.Provider)
	}
}
