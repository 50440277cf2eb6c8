package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.DocumentStore = &DocumentDAO{}

type DocumentDAO struct {
	db *bun.DB
}

func NewDocumentDAO(db *bun.DB) *DocumentDAO {
	return &DocumentDAO{
		db: db,
	}
}

func (dao *DocumentDAO) Create(
	ctx context.Context,
	document *models.CreateDocumentRequest,
) (*models.Document, error) {
	row := &DocumentSchema{
		AdmissionID:  document.AdmissionID,
		DocumentType: document.DocumentType,
		File:         document.File,
		FileName:     document.FileName,
		ContentType:  document.ContentType,
	}
	_, err := dao.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return nil, classifyError(
			err,
			"failed to create document",
			reference{field: "admission_id", id: document.AdmissionID},
		)
	}
	return toModel[models.Document](row)
}

func (dao *DocumentDAO) Get(ctx context.Context, id int64) (*models.Document, error) {
	row := new(DocumentSchema)
	err := dao.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, documentResource(id), "failed to get document")
	}
	return toModel[models.Document](row)
}

func (dao *DocumentDAO) Update(
	ctx context.Context,
	id int64,
	document *models.UpdateDocumentRequest,
) (*models.Document, error) {
	row := new(DocumentSchema)
	err := updateByID(ctx, dao.db, row, id, document, documentResource(id), reference{})
	if err != nil {
		return nil, err
	}
	return toModel[models.Document](row)
}

func (dao *DocumentDAO) SetVerified(
	ctx context.Context,
	id int64,
	verified bool,
) (*models.Document, error) {
	row := new(DocumentSchema)
	err := dao.db.NewUpdate().
		Model(row).
		Set("verified = ?", verified).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, documentResource(id), "failed to verify document")
	}
	return toModel[models.Document](row)
}

func (dao *DocumentDAO) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, dao.db, (*DocumentSchema)(nil), id, documentResource(id))
}

func (dao *DocumentDAO) ListAll(
	ctx context.Context,
	cursor int64,
	limit int,
) ([]*models.Document, error) {
	var rows []*DocumentSchema
	if err := listPage(ctx, dao.db, &rows, cursor, limit, "documents"); err != nil {
		return nil, err
	}
	return toModels[models.Document](rows)
}

func (dao *DocumentDAO) ListByAdmission(
	ctx context.Context,
	admissionID int64,
) ([]*models.Document, error) {
	var rows []*DocumentSchema
	if err := listByAdmission(ctx, dao.db, &rows, admissionID, "documents"); err != nil {
		return nil, err
	}
	return toModels[models.Document](rows)
}

func documentResource(id int64) string {
	return fmt.Sprintf("document %d", id)
}
