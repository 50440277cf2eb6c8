package postgres

import (
	"context"
	"fmt"

	"dario.cat/mergo"
	"github.com/uptrace/bun"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.PaymentStore = &PaymentDAO{}

var paymentDefaults = PaymentSchema{Status: models.PaymentStatusPending}

type PaymentDAO struct {
	db *bun.DB
}

func NewPaymentDAO(db *bun.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (dao *PaymentDAO) Create(
	ctx context.Context,
	payment *models.CreatePaymentRequest,
) (*models.Payment, error) {
	row := &PaymentSchema{
		AdmissionID:   payment.AdmissionID,
		PaymentType:   payment.PaymentType,
		Amount:        payment.Amount,
		Status:        payment.Status,
		TransactionID: payment.TransactionID,
	}
	if err := mergo.Merge(row, paymentDefaults); err != nil {
		return nil, fmt.Errorf("failed to apply payment defaults: %w", err)
	}

	_, err := dao.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return nil, classifyError(
			err,
			"failed to create payment",
			reference{field: "admission_id", id: payment.AdmissionID},
		)
	}
	return toModel[models.Payment](row)
}

func (dao *PaymentDAO) Get(ctx context.Context, id int64) (*models.Payment, error) {
	row := new(PaymentSchema)
	err := dao.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, paymentResource(id), "failed to get payment")
	}
	return toModel[models.Payment](row)
}

func (dao *PaymentDAO) Update(
	ctx context.Context,
	id int64,
	payment *models.UpdatePaymentRequest,
) (*models.Payment, error) {
	row := new(PaymentSchema)
	err := updateByID(ctx, dao.db, row, id, payment, paymentResource(id), reference{})
	if err != nil {
		return nil, err
	}
	return toModel[models.Payment](row)
}

func (dao *PaymentDAO) SetStatus(
	ctx context.Context,
	id int64,
	status models.PaymentStatus,
) (*models.Payment, error) {
	row := new(PaymentSchema)
	err := dao.db.NewUpdate().
		Model(row).
		Set("status = ?", status).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, notFoundOr(err, paymentResource(id), "failed to set payment status")
	}
	return toModel[models.Payment](row)
}

func (dao *PaymentDAO) Delete(ctx context.Context, id int64) error {
	return deleteByID(ctx, dao.db, (*PaymentSchema)(nil), id, paymentResource(id))
}

func (dao *PaymentDAO) ListAll(
	ctx context.Context,
	cursor int64,
	limit int,
) ([]*models.Payment, error) {
	var rows []*PaymentSchema
	if err := listPage(ctx, dao.db, &rows, cursor, limit, "payments"); err != nil {
		return nil, err
	}
	return toModels[models.Payment](rows)
}

func (dao *PaymentDAO) ListByAdmission(
	ctx context.Context,
	admissionID int64,
) ([]*models.Payment, error) {
	var rows []*PaymentSchema
	if err := listByAdmission(ctx, dao.db, &rows, admissionID, "payments"); err != nil {
		return nil, err
	}
	return toModels[models.Payment](rows)
}

func paymentResource(id int64) string {
	return fmt.Sprintf("payment %d", id)
}
