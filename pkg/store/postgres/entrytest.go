package postgres

import (
	"context"
	"fmt"

	"dario.cat/mergo"
	"github.com/uptrace/bun"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.EntryTestStore = &EntryTestDAO{}

var entryTestDefaults = EntryTestSchema{Status: models.DefaultEntryTestStatus}

type EntryTestDAO struct {
	db *bun.DB
}

func NewEntryTestDAO(db *bun.DB) *EntryTestDAO {
	return &EntryTestDAO{
		db: db,
	}
}

// Create creates the admission's entry test. The unique admission_id constraint
// rejects a second one.
func (dao *EntryTestDAO) Create(
	ctx context.Context,
	entryTest *models.CreateEntryTestRequest,
) (*models.EntryTest, error) {
	row := &EntryTestSchema{
		AdmissionID: entryTest.AdmissionID,
		TestDate:    entryTest.TestDate,
		Venue:       entryTest.Venue,
		Status:      entryTest.Status,
		Score:       entryTest.Score,
	}
	if err := mergo.Merge(row, entryTestDefaults); err != nil {
		return nil, fmt.Errorf("failed to apply entry test defaults: %w", err)
	}

	_, err := dao.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return nil, classifyError(
			err,
			"failed to create entry test",
			reference{field: "admission_id", id: entryTest.AdmissionID},
		)
	}
	return toModel[models.EntryTest](row)
}

func (dao *EntryTestDAO) Get(ctx context.Context, id int64) (*models.EntryTest, error) {
	row := new(EntryTestSchema)
	err := dao.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, entryTestResource(id), "failed to get entry test")
	}
	return toModel[models.EntryTest](row)
}

func (dao *EntryTestDAO) GetByAdmission(
	ctx context.Context,
	admissionID int64,
) (*models.EntryTest, error) {
	row := new(EntryTestSchema)
	err := dao.db.NewSelect().Model(row).Where("admission_id = ?", admissionID).Scan(ctx)
	if err != nil {
		return nil, notFoundOr(
			err,
			fmt.Sprintf("entry test for admission %d", admissionID),
			"failed to get entry test",
		)
	}
	return toModel[models.EntryTest](row)
}

func (dao *EntryTestDAO) Update(
	ctx context.Context,
	id int64,
	entryTest *models.UpdateEntryTestRequest,
) (*models.EntryTest, error) {
	row := new(EntryTestSchema)
	err := updateByID(ctx, dao.db, row, id, entryTest, entryTestResource(id), reference{})
	if err != nil {
		return nil, err
	}
	return toModel[models.EntryTest](row)
}

func (dao *EntryTestDAO) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, dao.db, (*EntryTestSchema)(nil), id, entryTestResource(id))
}

func (dao *EntryTestDAO) ListAll(
	ctx context.Context,
	cursor int64,
	limit int,
) ([]*models.EntryTest, error) {
	var rows []*EntryTestSchema
	if err := listPage(ctx, dao.db, &rows, cursor, limit, "entry tests"); err != nil {
		return nil, err
	}
	return toModels[models.EntryTest](rows)
}

func (dao *EntryTestDAO) CheckAccess(
	ctx context.Context,
	id int64,
) (*models.EntryTestAccess, error) {
	row := new(EntryTestSchema)
	err := dao.db.NewSelect().
		Model(row).
		Relation("Admission").
		Where("et.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, entryTestResource(id), "failed to get entry test")
	}
	return &models.EntryTestAccess{
		EntryTestUnlocked: row.Admission.EntryTestUnlocked,
		TestStatus:        row.Status,
	}, nil
}

// ToggleAccess flips the owning admission's flag with the same single-statement
// update as AdmissionDAO.ToggleEntryTest.
func (dao *EntryTestDAO) ToggleAccess(
	ctx context.Context,
	id int64,
) (*models.EntryTestAccess, error) {
	var access *models.EntryTestAccess
	err := dao.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(EntryTestSchema)
		err := tx.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
		if err != nil {
			return notFoundOr(err, entryTestResource(id), "failed to get entry test")
		}
		unlocked, err := toggleEntryTest(ctx, tx, row.AdmissionID)
		if err != nil {
			return err
		}
		access = &models.EntryTestAccess{
			EntryTestUnlocked: unlocked,
			TestStatus:        row.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return access, nil
}

func entryTestResource(id int64) string {
	return fmt.Sprintf("entry test %d", id)
}
