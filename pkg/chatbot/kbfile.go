package chatbot

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/admitdesk/admitdesk/pkg/models"
)

// KnowledgeBase is the YAML layout accepted by `admitdesk kb import`.
type KnowledgeBase struct {
	Categories []KnowledgeBaseCategory `yaml:"categories"`
}

type KnowledgeBaseCategory struct {
	models.CreateIntentCategoryRequest `yaml:",inline"`
	Responses                          []KnowledgeBaseResponse `yaml:"responses"`
}

type KnowledgeBaseResponse struct {
	Text     string `yaml:"text"`
	Priority *int   `yaml:"priority"`
}

// ImportResult counts what an import created.
type ImportResult struct {
	Categories int
	Responses  int
}

func DecodeKnowledgeBase(r io.Reader) (*KnowledgeBase, error) {
	var kb KnowledgeBase
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&kb); err != nil {
		if err == io.EOF {
			return &kb, nil
		}
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	return &kb, nil
}

// Validate checks every category and response. Nothing should be written unless
// the whole file is valid.
func (kb *KnowledgeBase) Validate() error {
	for i := range kb.Categories {
		c := &kb.Categories[i]
		if err := models.ValidateStruct(&c.CreateIntentCategoryRequest); err != nil {
			return fmt.Errorf("category %d (%q): %w", i, c.Name, err)
		}
		if err := ValidateKeywords(c.Keywords); err != nil {
			return fmt.Errorf("category %d (%q): %w", i, c.Name, err)
		}
		for j, r := range c.Responses {
			if r.Text == "" {
				return fmt.Errorf(
					"category %d (%q) response %d: %w",
					i, c.Name, j,
					models.NewValidationError("text", "This field is required."),
				)
			}
		}
	}
	return nil
}

// Import validates kb and then creates its categories and responses.
func (kb *KnowledgeBase) Import(ctx context.Context, store models.KnowledgeStore) (*ImportResult, error) {
	if err := kb.Validate(); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i := range kb.Categories {
		c := &kb.Categories[i]
		category, err := store.CreateCategory(ctx, &c.CreateIntentCategoryRequest)
		if err != nil {
			return result, fmt.Errorf("failed to create category %q: %w", c.Name, err)
		}
		result.Categories++

		for _, r := range c.Responses {
			_, err := store.CreateResponse(ctx, &models.CreateResponseRequest{
				CategoryID:   category.ID,
				ResponseText: r.Text,
				Priority:     r.Priority,
			})
			if err != nil {
				return result, fmt.Errorf("failed to create response for %q: %w", c.Name, err)
			}
			result.Responses++
		}
	}

	log.Infof("imported %d categories and %d responses", result.Categories, result.Responses)
	return result, nil
}
