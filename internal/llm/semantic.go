// Package llm is an optional LLM-backed implementation of the classifier's
// semantic-similarity slot. It is never wired in by default: the shipped
// semantic term stays 0 unless an API key is configured.
package llm

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You rate how semantically related a support ticket is to a category name.
Reply with a single number between 0.0 and 1.0 and nothing else.`

// SemanticScorer asks the model to rate content/category similarity.
// Scores are cached per (content, category) so a batch never asks twice.
type SemanticScorer struct {
	client anthropic.Client
	model  string

	mu    sync.Mutex
	cache map[string]float64
}

func NewSemanticScorer(apiKey, model string) *SemanticScorer {
	if model == "" {
		model = defaultModel
	}
	return &SemanticScorer{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		cache:  make(map[string]float64),
	}
}

// SemanticScore returns a similarity in [0,1]. Any API or parse failure
// degrades to 0 so classification proceeds on the remaining sub-signals.
func (s *SemanticScorer) SemanticScore(content, category string) float64 {
	key := category + "\x00" + content
	s.mu.Lock()
	if v, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return v
	}
	s.mu.Unlock()

	score, err := s.rate(content, category)
	if err != nil {
		log.Printf("llm semantic score error: %v", err)
		return 0
	}

	s.mu.Lock()
	s.cache[key] = score
	s.mu.Unlock()
	return score
}

func (s *SemanticScorer) rate(content, category string) (float64, error) {
	userPrompt := fmt.Sprintf("Category: %s\nTicket: %s", category, content)
	message, err := s.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 16,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("Anthropic API error: %w", err)
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			return parseScore(block.Text)
		}
	}
	return 0, fmt.Errorf("no text content in Anthropic response")
}

func parseScore(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable score %q: %w", text, err)
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}
