package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/store"
)

// updateByID locks the row with the given id, copies the set fields of patch onto
// it and writes it back. row is left holding the updated values.
func updateByID(
	ctx context.Context,
	db *bun.DB,
	row interface{},
	id int64,
	patch interface{},
	resource string,
	ref reference,
) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().Model(row).Where("id = ?", id).For("UPDATE").Scan(ctx)
		if err != nil {
			return notFoundOr(err, resource, "failed to get "+resource)
		}
		if err := applyPatch(row, patch); err != nil {
			return fmt.Errorf("failed to apply update to %s: %w", resource, err)
		}
		_, err = tx.NewUpdate().Model(row).WherePK().Returning("*").Exec(ctx)
		if err != nil {
			return classifyError(err, "failed to update "+resource, ref)
		}
		return nil
	})
}

func deleteByID(
	ctx context.Context,
	db *bun.DB,
	model interface{},
	id int64,
	resource string,
) error {
	r, err := db.NewDelete().Model(model).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return store.NewStorageError("failed to delete "+resource, err)
	}
	rowsAffected, err := r.RowsAffected()
	if err != nil {
		return store.NewStorageError("failed to delete "+resource, err)
	}
	if rowsAffected == 0 {
		return models.NewNotFoundError(resource)
	}
	return nil
}

// listPage returns rows with id > cursor in ascending id order. A limit <= 0 returns
// every remaining row.
func listPage(
	ctx context.Context,
	db *bun.DB,
	rows interface{},
	cursor int64,
	limit int,
	resource string,
) error {
	q := db.NewSelect().
		Model(rows).
		Where("id > ?", cursor).
		OrderExpr("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return store.NewStorageError("failed to list "+resource, err)
	}
	return nil
}

func listByAdmission(
	ctx context.Context,
	db *bun.DB,
	rows interface{},
	admissionID int64,
	resource string,
) error {
	err := db.NewSelect().
		Model(rows).
		Where("admission_id = ?", admissionID).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return store.NewStorageError("failed to list "+resource, err)
	}
	return nil
}
