package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.GuardianStore = &GuardianDAO{}

type GuardianDAO struct {
	db *bun.DB
}

func NewGuardianDAO(db *bun.DB) *GuardianDAO {
	return &GuardianDAO{
		db: db,
	}
}

func (dao *GuardianDAO) Create(
	ctx context.Context,
	guardian *models.CreateGuardianRequest,
) (*models.Guardian, error) {
	row := &GuardianSchema{
		AdmissionID: guardian.AdmissionID,
		Name:        guardian.Name,
		Relation:    guardian.Relation,
		Phone:       guardian.Phone,
		Occupation:  guardian.Occupation,
		Income:      guardian.Income,
	}
	_, err := dao.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return nil, classifyError(
			err,
			"failed to create guardian",
			reference{field: "admission_id", id: guardian.AdmissionID},
		)
	}
	return toModel[models.Guardian](row)
}

func (dao *GuardianDAO) Get(ctx context.Context, id int64) (*models.Guardian, error) {
	row := new(GuardianSchema)
	err := dao.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, guardianResource(id), "failed to get guardian")
	}
	return toModel[models.Guardian](row)
}

func (dao *GuardianDAO) Update(
	ctx context.Context,
	id int64,
	guardian *models.UpdateGuardianRequest,
) (*models.Guardian, error) {
	row := new(GuardianSchema)
	err := updateByID(ctx, dao.db, row, id, guardian, guardianResource(id), reference{})
	if err != nil {
		return nil, err
	}
	return toModel[models.Guardian](row)
}

func (dao *GuardianDAO) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, dao.db, (*GuardianSchema)(nil), id, guardianResource(id))
}

func (dao *GuardianDAO) ListAll(
	ctx context.Context,
	cursor int64,
	limit int,
) ([]*models.Guardian, error) {
	var rows []*GuardianSchema
	if err := listPage(ctx, dao.db, &rows, cursor, limit, "guardians"); err != nil {
		return nil, err
	}
	return toModels[models.Guardian](rows)
}

func (dao *GuardianDAO) ListByAdmission(
	ctx context.Context,
	admissionID int64,
) ([]*models.Guardian, error) {
	var rows []*GuardianSchema
	if err := listByAdmission(ctx, dao.db, &rows, admissionID, "guardians"); err != nil {
		return nil, err
	}
	return toModels[models.Guardian](rows)
}

func guardianResource(id int64) string {
	return fmt.Sprintf("guardian %d", id)
}
