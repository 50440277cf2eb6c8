package models

import (
	"context"
	"time"
)

// IntentCategory is a named bucket of applicant questions identified by trigger keywords.
// Keywords is stored as comma-separated text.
type IntentCategory struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Keywords      string    `json:"keywords"`
	ResponseCount int       `json:"response_count"`
}

type CreateIntentCategoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100" yaml:"name"`
	Description string `json:"description"                             yaml:"description"`
	Keywords    string `json:"keywords"    validate:"required"         yaml:"keywords"`
}

type UpdateIntentCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Keywords    *string `json:"keywords"    validate:"omitempty,min=1"`
}

// Response is canned answer text tied to an IntentCategory. Higher priority is preferred.
type Response struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	CategoryID   int64     `json:"category_id"`
	ResponseText string    `json:"response_text"`
	Priority     int       `json:"priority"`
}

const DefaultResponsePriority = 1

type CreateResponseRequest struct {
	CategoryID   int64  `json:"category_id"`
	ResponseText string `json:"response_text" validate:"required"`
	// Priority defaults to DefaultResponsePriority when omitted.
	Priority *int `json:"priority"`
}

type UpdateResponseRequest struct {
	ResponseText *string `json:"response_text" validate:"omitempty,min=1"`
	Priority     *int    `json:"priority"`
}

// KnowledgeReader is the read side of the knowledge base used by the query matcher.
type KnowledgeReader interface {
	// ListCategories returns every category in ascending id order.
	ListCategories(ctx context.Context) ([]*IntentCategory, error)
	// ListResponses returns a category's responses ordered by priority descending,
	// ties broken by ascending id.
	ListResponses(ctx context.Context, categoryID int64) ([]*Response, error)
}

type KnowledgeStore interface {
	KnowledgeReader
	CreateCategory(ctx context.Context, category *CreateIntentCategoryRequest) (*IntentCategory, error)
	GetCategory(ctx context.Context, id int64) (*IntentCategory, error)
	UpdateCategory(
		ctx context.Context,
		id int64,
		category *UpdateIntentCategoryRequest,
	) (*IntentCategory, error)
	// DeleteCategory deletes a category and all of its responses.
	DeleteCategory(ctx context.Context, id int64) error
	CreateResponse(ctx context.Context, response *CreateResponseRequest) (*Response, error)
	GetResponse(ctx context.Context, id int64) (*Response, error)
	UpdateResponse(ctx context.Context, id int64, response *UpdateResponseRequest) (*Response, error)
	DeleteResponse(ctx context.Context, id int64) error
}
