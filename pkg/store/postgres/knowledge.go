package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/admitdesk/admitdesk/pkg/chatbot"
	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/store"
)

var _ models.KnowledgeStore = &KnowledgeDAO{}

type KnowledgeDAO struct {
	db *bun.DB
}

func NewKnowledgeDAO(db *bun.DB) *KnowledgeDAO {
	return &KnowledgeDAO{
		db: db,
	}
}

// categoryRow carries the computed response count alongside the category columns.
type categoryRow struct {
	IntentCategorySchema `bun:",extend"`

	ResponseCount int `bun:"response_count,scanonly"`
}

const responseCountExpr = "(SELECT count(*) FROM response AS r WHERE r.category_id = ic.id) AS response_count"

// ListCategories returns every category in ascending id order.
func (dao *KnowledgeDAO) ListCategories(ctx context.Context) ([]*models.IntentCategory, error) {
	var rows []*categoryRow
	err := dao.db.NewSelect().
		Model(&rows).
		ColumnExpr("ic.*").
		ColumnExpr(responseCountExpr).
		OrderExpr("ic.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to list intent categories", err)
	}

	categories := make([]*models.IntentCategory, len(rows))
	for i, row := range rows {
		categories[i] = row.toModel()
	}
	return categories, nil
}

// ListResponses returns a category's responses, highest priority first.
func (dao *KnowledgeDAO) ListResponses(
	ctx context.Context,
	categoryID int64,
) ([]*models.Response, error) {
	var rows []*ResponseSchema
	err := dao.db.NewSelect().
		Model(&rows).
		Where("category_id = ?", categoryID).
		OrderExpr("priority DESC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, store.NewStorageError("failed to list responses", err)
	}

	if len(rows) == 0 {
		exists, err := dao.db.NewSelect().
			Model((*IntentCategorySchema)(nil)).
			Where("id = ?", categoryID).
			Exists(ctx)
		if err != nil {
			return nil, store.NewStorageError("failed to get intent category", err)
		}
		if !exists {
			return nil, categoryNotFound(categoryID)
		}
	}

	return toModels[models.Response](rows)
}

func (dao *KnowledgeDAO) CreateCategory(
	ctx context.Context,
	category *models.CreateIntentCategoryRequest,
) (*models.IntentCategory, error) {
	if err := chatbot.ValidateKeywords(category.Keywords); err != nil {
		return nil, err
	}

	row := &IntentCategorySchema{
		Name:        category.Name,
		Description: category.Description,
		Keywords:    category.Keywords,
	}
	_, err := dao.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return nil, classifyError(err, "failed to create intent category", reference{})
	}

	return (&categoryRow{IntentCategorySchema: *row}).toModel(), nil
}

func (dao *KnowledgeDAO) GetCategory(ctx context.Context, id int64) (*models.IntentCategory, error) {
	row := new(categoryRow)
	err := dao.db.NewSelect().
		Model(row).
		ColumnExpr("ic.*").
		ColumnExpr(responseCountExpr).
		Where("ic.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, categoryResource(id), "failed to get intent category")
	}
	return row.toModel(), nil
}

func (dao *KnowledgeDAO) UpdateCategory(
	ctx context.Context,
	id int64,
	category *models.UpdateIntentCategoryRequest,
) (*models.IntentCategory, error) {
	if category.Keywords != nil {
		if err := chatbot.ValidateKeywords(*category.Keywords); err != nil {
			return nil, err
		}
	}

	row := new(IntentCategorySchema)
	err := updateByID(ctx, dao.db, row, id, category, categoryResource(id), reference{})
	if err != nil {
		return nil, err
	}

	return dao.GetCategory(ctx, id)
}

// DeleteCategory deletes a category. Its responses go with it through the
// foreign key's ON DELETE CASCADE.
func (dao *KnowledgeDAO) DeleteCategory(ctx context.Context, id int64) error {
	return deleteByID(ctx, dao.db, (*IntentCategorySchema)(nil), id, categoryResource(id))
}

func (dao *KnowledgeDAO) CreateResponse(
	ctx context.Context,
	response *models.CreateResponseRequest,
) (*models.Response, error) {
	priority := models.DefaultResponsePriority
	if response.Priority != nil {
		priority = *response.Priority
	}

	row := &ResponseSchema{
		CategoryID:   response.CategoryID,
		ResponseText: response.ResponseText,
		Priority:     priority,
	}
	_, err := dao.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return nil, classifyError(
			err,
			"failed to create response",
			reference{field: "category_id", id: response.CategoryID},
		)
	}

	return toModel[models.Response](row)
}

func (dao *KnowledgeDAO) GetResponse(ctx context.Context, id int64) (*models.Response, error) {
	row := new(ResponseSchema)
	err := dao.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, responseResource(id), "failed to get response")
	}
	return toModel[models.Response](row)
}

func (dao *KnowledgeDAO) UpdateResponse(
	ctx context.Context,
	id int64,
	response *models.UpdateResponseRequest,
) (*models.Response, error) {
	row := new(ResponseSchema)
	err := updateByID(ctx, dao.db, row, id, response, responseResource(id), reference{})
	if err != nil {
		return nil, err
	}
	return toModel[models.Response](row)
}

func (dao *KnowledgeDAO) DeleteResponse(ctx context.Context, id int64) error {
	return deleteByID(ctx, dao.db, (*ResponseSchema)(nil), id, responseResource(id))
}

func (r *categoryRow) toModel() *models.IntentCategory {
	return &models.IntentCategory{
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Name:          r.Name,
		Description:   r.Description,
		Keywords:      r.Keywords,
		ResponseCount: r.ResponseCount,
	}
}

func categoryNotFound(id int64) error {
	return models.NewNotFoundError(categoryResource(id))
}

func categoryResource(id int64) string {
	return fmt.Sprintf("intent category %d", id)
}

func responseResource(id int64) string {
	return fmt.Sprintf("response %d", id)
}
