package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/admitdesk/admitdesk/internal"
	"github.com/admitdesk/admitdesk/pkg/models"
)

var log = internal.GetLogger()

// FallbackResponse is returned whenever no category produces an answer.
const FallbackResponse = "I'm sorry, I don't understand that question. Could you please rephrase it?"

// Answer is the outcome of matching a query. When Matched is false, Response holds
// FallbackResponse and Category is nil.
type Answer struct {
	Response string
	Category *string
	Matched  bool
}

type MatcherOption func(*Matcher)

// WithFormatting runs matched response text through FormatResponse.
func WithFormatting(enabled bool) MatcherOption {
	return func(m *Matcher) {
		m.format = enabled
	}
}

// Matcher answers free-text questions from the knowledge base using a first-match
// keyword scan.
type Matcher struct {
	store  models.KnowledgeReader
	format bool
}

func NewMatcher(store models.KnowledgeReader, opts ...MatcherOption) *Matcher {
	m := &Matcher{store: store}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Answer finds the first category, in ascending id order, with a keyword contained in
// the lowercased query and returns that category's highest-priority response.
// Keywords match as plain substrings, not whole words: "fee" matches "coffee".
// Errors are only returned for store failures; a miss is a normal Answer.
func (m *Matcher) Answer(ctx context.Context, query string) (*Answer, error) {
	normalized := strings.ToLower(query)

	categories, err := m.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list intent categories: %w", err)
	}

	category := firstMatch(categories, normalized)
	if category == nil {
		log.Debugf("no intent category matched query %q", query)
		return fallback(), nil
	}

	responses, err := m.store.ListResponses(ctx, category.ID)
	if errors.Is(err, models.ErrNotFound) {
		// deleted between the two reads; same as a category without responses
		log.Debugf("intent category %d vanished while answering", category.ID)
		return fallback(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list responses for category %d: %w", category.ID, err)
	}
	if len(responses) == 0 {
		log.Warnf("intent category %q matched but has no responses", category.Name)
		return fallback(), nil
	}

	text := responses[0].ResponseText
	if m.format {
		text = FormatResponse(text)
	}
	name := category.Name

	return &Answer{
		Response: text,
		Category: &name,
		Matched:  true,
	}, nil
}

func firstMatch(categories []*models.IntentCategory, normalized string) *models.IntentCategory {
	for _, c := range categories {
		for _, keyword := range ParseKeywords(c.Keywords) {
			if strings.Contains(normalized, keyword) {
				return c
			}
		}
	}
	return nil
}

func fallback() *Answer {
	return &Answer{Response: FallbackResponse}
}
