package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/admitdesk/admitdesk/pkg/models"
)

var _ models.PaymentStore = &PaymentStore{}

type PaymentStore struct {
	db *DB
}

func NewPaymentStore(db *DB) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(
	_ context.Context,
	payment *models.CreatePaymentRequest,
) (*models.Payment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.db.checkAdmission(payment.AdmissionID); err != nil {
		return nil, err
	}
	for _, p := range s.db.payments {
		if p.TransactionID == payment.TransactionID {
			return nil, models.NewValidationError(
				"transaction_id",
				"payment with this transaction id already exists.",
			)
		}
	}

	status := payment.Status
	if status == "" {
		status = models.PaymentStatusPending
	}

	p := &models.Payment{
		ID:            s.db.id("payment"),
		AdmissionID:   payment.AdmissionID,
		PaymentType:   payment.PaymentType,
		Amount:        payment.Amount,
		Status:        status,
		PaymentDate:   time.Now().UTC(),
		TransactionID: payment.TransactionID,
	}
	s.db.payments[p.ID] = p
	return clone(p), nil
}

func (s *PaymentStore) Get(_ context.Context, id int64) (*models.Payment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.payments[id]
	if !ok {
		return nil, paymentNotFound(id)
	}
	return clone(p), nil
}

func (s *PaymentStore) Update(
	_ context.Context,
	id int64,
	payment *models.UpdatePaymentRequest,
) (*models.Payment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.payments[id]
	if !ok {
		return nil, paymentNotFound(id)
	}
	if payment.PaymentType != nil {
		p.PaymentType = *payment.PaymentType
	}
	if payment.Amount != nil {
		p.Amount = *payment.Amount
	}
	return clone(p), nil
}

func (s *PaymentStore) SetStatus(
	_ context.Context,
	id int64,
	status models.PaymentStatus,
) (*models.Payment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.payments[id]
	if !ok {
		return nil, paymentNotFound(id)
	}
	p.Status = status
	return clone(p), nil
}

func (s *PaymentStore) Delete(_ context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.payments[id]; !ok {
		return paymentNotFound(id)
	}
	delete(s.db.payments, id)
	return nil
}

func (s *PaymentStore) ListAll(
	_ context.Context,
	cursor int64,
	limit int,
) ([]*models.Payment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return page(s.db.payments, cursor, limit), nil
}

func (s *PaymentStore) ListByAdmission(
	_ context.Context,
	admissionID int64,
) ([]*models.Payment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return filter(s.db.payments, func(p *models.Payment) bool {
		return p.AdmissionID == admissionID
	}), nil
}

func paymentNotFound(id int64) error {
	return models.NewNotFoundError(fmt.Sprintf("payment %d", id))
}
