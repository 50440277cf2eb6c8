package apihandlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

type ProcessPaymentResponse struct {
	Message   string               `json:"message"`
	PaymentID int64                `json:"payment_id"`
	Status    models.PaymentStatus `json:"status"`
}

// PaymentHandlers serves the CRUD routes under /api/payments.
// List accepts ?admission_id= in place of cursor pagination.
func PaymentHandlers(appState *models.AppState) CRUD {
	res := &resource[models.Payment, models.CreatePaymentRequest, models.UpdatePaymentRequest]{
		store:       appState.PaymentStore,
		id:          func(p *models.Payment) int64 { return p.ID },
		byAdmission: func(ctx context.Context, admissionID int64) ([]*models.Payment, error) {
			return appState.PaymentStore.ListByAdmission(ctx, admissionID)
		},
	}
	return res.handlers()
}

// ProcessPaymentHandler godoc
//
//	@Summary		Process a payment
//	@Description	record a pending payment for the admission identified by admission_code
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.ProcessPaymentRequest	true	"Payment"
//	@Success		201		{object}	ProcessPaymentResponse
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/payments/process_payment [post]
func ProcessPaymentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.ProcessPaymentRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		code, err := uuid.Parse(body.AdmissionCode)
		if err != nil {
			handlertools.RenderError(
				w,
				models.NewValidationError("admission_code", "Must be a valid UUID."),
				http.StatusBadRequest,
			)
			return
		}
		admission, err := appState.AdmissionStore.GetByCode(r.Context(), code)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		payment, err := appState.PaymentStore.Create(r.Context(), &models.CreatePaymentRequest{
			AdmissionID:   admission.ID,
			PaymentType:   body.PaymentType,
			Amount:        body.Amount,
			Status:        models.PaymentStatusPending,
			TransactionID: body.TransactionID,
		})
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		encode(w, http.StatusCreated, &ProcessPaymentResponse{
			Message:   "Payment initiated successfully",
			PaymentID: payment.ID,
			Status:    payment.Status,
		})
	}
}

// SetPaymentStatusHandler godoc
//
//	@Summary		Set payment status
//	@Description	set the status of a payment
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Payment ID"
//	@Param			body	body		models.SetPaymentStatusRequest	true	"Status"
//	@Success		200		{object}	models.Payment
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/payments/{id}/status [patch]
func SetPaymentStatusHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		var body models.SetPaymentStatusRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		payment, err := appState.PaymentStore.SetStatus(r.Context(), id, body.Status)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, payment)
	}
}
