package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/admitdesk/admitdesk/pkg/chatbot"
	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.KnowledgeStore = &KnowledgeStore{}

type KnowledgeStore struct {
	db *DB
}

func NewKnowledgeStore(db *DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

func (s *KnowledgeStore) ListCategories(_ context.Context) ([]*models.IntentCategory, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	categories := filter(s.db.categories, func(*models.IntentCategory) bool { return true })
	for _, c := range categories {
		c.ResponseCount = s.responseCount(c.ID)
	}
	return categories, nil
}

func (s *KnowledgeStore) ListResponses(
	_ context.Context,
	categoryID int64,
) ([]*models.Response, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.categories[categoryID]; !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("intent category %d", categoryID))
	}

	responses := filter(s.db.responses, func(r *models.Response) bool {
		return r.CategoryID == categoryID
	})
	// filter yields ascending ids, so a stable sort keeps id order within a priority
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Priority > responses[j].Priority
	})
	return responses, nil
}

func (s *KnowledgeStore) CreateCategory(
	_ context.Context,
	category *models.CreateIntentCategoryRequest,
) (*models.IntentCategory, error) {
	if err := chatbot.ValidateKeywords(category.Keywords); err != nil {
		return nil, err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	now := time.Now().UTC()
	c := &models.IntentCategory{
		ID:          s.db.id("intent_category"),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        category.Name,
		Description: category.Description,
		Keywords:    category.Keywords,
	}
	s.db.categories[c.ID] = c
	return clone(c), nil
}

func (s *KnowledgeStore) GetCategory(_ context.Context, id int64) (*models.IntentCategory, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.categories[id]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("intent category %d", id))
	}
	result := clone(c)
	result.ResponseCount = s.responseCount(id)
	return result, nil
}

func (s *KnowledgeStore) UpdateCategory(
	_ context.Context,
	id int64,
	category *models.UpdateIntentCategoryRequest,
) (*models.IntentCategory, error) {
	if category.Keywords != nil {
		if err := chatbot.ValidateKeywords(*category.Keywords); err != nil {
			return nil, err
		}
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c, ok := s.db.categories[id]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("intent category %d", id))
	}
	if category.Name != nil {
		c.Name = *category.Name
	}
	if category.Description != nil {
		c.Description = *category.Description
	}
	if category.Keywords != nil {
		c.Keywords = *category.Keywords
	}
	c.UpdatedAt = time.Now().UTC()

	result := clone(c)
	result.ResponseCount = s.responseCount(id)
	return result, nil
}

func (s *KnowledgeStore) DeleteCategory(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.categories[id]; !ok {
		return models.NewNotFoundError(fmt.Sprintf("intent category %d", id))
	}
	for rid, r := range s.db.responses {
		if r.CategoryID == id {
			delete(s.db.responses, rid)
		}
	}
	delete(s.db.categories, id)
	return nil
}

func (s *KnowledgeStore) CreateResponse(
	_ context.Context,
	response *models.CreateResponseRequest,
) (*models.Response, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.categories[response.CategoryID]; !ok {
		return nil, models.NewInvalidReferenceError("category_id", response.CategoryID)
	}

	priority := models.DefaultResponsePriority
	if response.Priority != nil {
		priority = *response.Priority
	}

	now := time.Now().UTC()
	r := &models.Response{
		ID:           s.db.id("response"),
		CreatedAt:    now,
		UpdatedAt:    now,
		CategoryID:   response.CategoryID,
		ResponseText: response.ResponseText,
		Priority:     priority,
	}
	s.db.responses[r.ID] = r
	return clone(r), nil
}

func (s *KnowledgeStore) GetResponse(_ context.Context, id int64) (*models.Response, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	r, ok := s.db.responses[id]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("response %d", id))
	}
	return clone(r), nil
}

func (s *KnowledgeStore) UpdateResponse(
	_ context.Context,
	id int64,
	response *models.UpdateResponseRequest,
) (*models.Response, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	r, ok := s.db.responses[id]
	if !ok {
		return nil, models.NewNotFoundError(fmt.Sprintf("response %d", id))
	}
	if response.ResponseText != nil {
		r.ResponseText = *response.ResponseText
	}
	if response.Priority != nil {
		r.Priority = *response.Priority
	}
	r.UpdatedAt = time.Now().UTC()
	return clone(r), nil
}

func (s *KnowledgeStore) DeleteResponse(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.responses[id]; !ok {
		return models.NewNotFoundError(fmt.Sprintf("response %d", id))
	}
	delete(s.db.responses, id)
	return nil
}

func (s *KnowledgeStore) responseCount(categoryID int64) int {
	n := 0
	for _, r := range s.db.responses {
		if r.CategoryID == categoryID {
			n++
		}
	}
	return n
}
