package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/store"
)

var _ models.AdmissionStore = &AdmissionDAO{}

type AdmissionDAO struct {
	db *bun.DB
}

func NewAdmissionDAO(db *bun.DB) *AdmissionDAO {
	return &AdmissionDAO{
		db: db,
	}
}

// Create creates a new pending admission with a fresh admission code.
func (dao *AdmissionDAO) Create(
	ctx context.Context,
	admission *models.CreateAdmissionRequest,
) (*models.Admission, error) {
	row := &AdmissionSchema{
		AdmissionCode: uuid.New(),
		FirstName:     admission.FirstName,
		LastName:      admission.LastName,
		Email:         admission.Email,
		Phone:         admission.Phone,
		Program:       admission.Program,
		Status:        models.AdmissionStatusPending,
	}
	_, err := dao.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return nil, classifyError(err, "failed to create admission", reference{})
	}

	return toModel[models.Admission](row)
}

func (dao *AdmissionDAO) Get(ctx context.Context, id int64) (*models.Admission, error) {
	row := new(AdmissionSchema)
	err := dao.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, admissionResource(id), "failed to get admission")
	}
	return toModel[models.Admission](row)
}

func (dao *AdmissionDAO) GetByCode(ctx context.Context, code uuid.UUID) (*models.Admission, error) {
	row := new(AdmissionSchema)
	err := dao.db.NewSelect().Model(row).Where("admission_code = ?", code).Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, "admission "+code.String(), "failed to get admission")
	}
	return toModel[models.Admission](row)
}

// GetDetails loads an admission with its guardians, documents, payments and entry test.
func (dao *AdmissionDAO) GetDetails(
	ctx context.Context,
	id int64,
) (*models.AdmissionDetails, error) {
	row := new(AdmissionSchema)
	err := dao.db.NewSelect().
		Model(row).
		Relation("Guardians", orderByID).
		Relation("Documents", orderByID).
		Relation("Payments", orderByID).
		Relation("EntryTest").
		Where("a.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, admissionResource(id), "failed to get admission details")
	}

	admission, err := toModel[models.Admission](row)
	if err != nil {
		return nil, err
	}
	details := &models.AdmissionDetails{Admission: admission}

	if details.Guardians, err = toModels[models.Guardian](row.Guardians); err != nil {
		return nil, err
	}
	if details.Documents, err = toModels[models.Document](row.Documents); err != nil {
		return nil, err
	}
	if details.Payments, err = toModels[models.Payment](row.Payments); err != nil {
		return nil, err
	}
	if row.EntryTest != nil {
		if details.EntryTest, err = toModel[models.EntryTest](row.EntryTest); err != nil {
			return nil, err
		}
	}

	return details, nil
}

func (dao *AdmissionDAO) Update(
	ctx context.Context,
	id int64,
	admission *models.UpdateAdmissionRequest,
) (*models.Admission, error) {
	row := new(AdmissionSchema)
	err := updateByID(ctx, dao.db, row, id, admission, admissionResource(id), reference{})
	if err != nil {
		return nil, err
	}
	return toModel[models.Admission](row)
}

func (dao *AdmissionDAO) SetStatus(
	ctx context.Context,
	id int64,
	status models.AdmissionStatus,
) (*models.Admission, error) {
	row := new(AdmissionSchema)
	err := dao.db.NewUpdate().
		Model(row).
		Set("status = ?", status).
		Set("updated_at = current_timestamp").
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, admissionResource(id), "failed to set admission status")
	}
	return toModel[models.Admission](row)
}

// ToggleEntryTest flips entry_test_unlocked in a single UPDATE so concurrent
// toggles never lose a write.
func (dao *AdmissionDAO) ToggleEntryTest(ctx context.Context, id int64) (bool, error) {
	return toggleEntryTest(ctx, dao.db, id)
}

// Delete removes the admission. Documents, payments, guardians and the entry test
// are removed by ON DELETE CASCADE.
func (dao *AdmissionDAO) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, dao.db, (*AdmissionSchema)(nil), id, admissionResource(id))
}

// ListAll lists all admissions. The cursor is used to paginate results.
func (dao *AdmissionDAO) ListAll(
	ctx context.Context,
	cursor int64,
	limit int,
) ([]*models.Admission, error) {
	var rows []*AdmissionSchema
	if err := listPage(ctx, dao.db, &rows, cursor, limit, "admissions"); err != nil {
		return nil, err
	}
	return toModels[models.Admission](rows)
}

func (dao *AdmissionDAO) CountAll(ctx context.Context) (int, error) {
	count, err := dao.db.NewSelect().Model((*AdmissionSchema)(nil)).Count(ctx)
	if err != nil {
		return 0, store.NewStorageError("failed to count admissions", err)
	}
	return count, nil
}

func toggleEntryTest(ctx context.Context, db bun.IDB, admissionID int64) (bool, error) {
	var unlocked bool
	err := db.NewUpdate().
		Model((*AdmissionSchema)(nil)).
		Set("entry_test_unlocked = NOT entry_test_unlocked").
		Set("updated_at = current_timestamp").
		Where("id = ?", admissionID).
		Returning("entry_test_unlocked").
		Scan(ctx, &unlocked)
	if err != nil {
		return false, notFoundOr(err, admissionResource(admissionID), "failed to toggle entry test")
	}
	return unlocked, nil
}

func orderByID(q *bun.SelectQuery) *bun.SelectQuery {
	return q.OrderExpr("id ASC")
}

func admissionResource(id int64) string {
	return fmt.Sprintf("admission %d", id)
}
