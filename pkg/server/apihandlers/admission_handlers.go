package apihandlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

type SubmitApplicationResponse struct {
	Message       string    `json:"message"`
	AdmissionCode uuid.UUID `json:"admission_code"`
	Status        string    `json:"status"`
}

type CheckStatusResponse struct {
	Status             models.AdmissionStatus   `json:"status"`
	EntryTestUnlocked  bool                     `json:"entry_test_unlocked"`
	ApplicationDetails *models.AdmissionDetails `json:"application_details"`
}

// AdmissionHandlers serves the CRUD routes under /api/admissions.
func AdmissionHandlers(appState *models.AppState) CRUD {
	res := &resource[models.Admission, models.CreateAdmissionRequest, models.UpdateAdmissionRequest]{
		store: appState.AdmissionStore,
		id:    func(a *models.Admission) int64 { return a.ID },
	}
	return res.handlers()
}

// SubmitApplicationHandler godoc
//
//	@Summary		Submit an application
//	@Description	create an admission and return its admission code
//	@Tags			admissions
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.CreateAdmissionRequest	true	"Application"
//	@Success		201		{object}	SubmitApplicationResponse
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/admissions/submit_application [post]
func SubmitApplicationHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.CreateAdmissionRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		admission, err := appState.AdmissionStore.Create(r.Context(), &body)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		encode(w, http.StatusCreated, &SubmitApplicationResponse{
			Message:       "Application submitted successfully",
			AdmissionCode: admission.AdmissionCode,
			Status:        "success",
		})
	}
}

// CheckStatusHandler godoc
//
//	@Summary		Check application status
//	@Description	get the status, entry test flag and nested application details
//	@Tags			admissions
//	@Produce		json
//	@Param			id	path		int	true	"Admission ID"
//	@Success		200		{object}	CheckStatusResponse
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/admissions/{id}/check_status [get]
func CheckStatusHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		details, err := appState.AdmissionStore.GetDetails(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		encode(w, http.StatusOK, &CheckStatusResponse{
			Status:             details.Status,
			EntryTestUnlocked:  details.EntryTestUnlocked,
			ApplicationDetails: details,
		})
	}
}

// AdmissionDetailsHandler godoc
//
//	@Summary		Returns an admission with its records
//	@Description	get an admission with guardians, documents, payments and entry test
//	@Tags			admissions
//	@Produce		json
//	@Param			id	path		int	true	"Admission ID"
//	@Success		200		{object}	models.AdmissionDetails
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/admissions/{id}/details [get]
func AdmissionDetailsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		details, err := appState.AdmissionStore.GetDetails(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, details)
	}
}

// SetAdmissionStatusHandler godoc
//
//	@Summary		Set admission status
//	@Description	set the status of an admission
//	@Tags			admissions
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Admission ID"
//	@Param			body	body		models.SetAdmissionStatusRequest	true	"Status"
//	@Success		200		{object}	models.Admission
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/admissions/{id}/status [patch]
func SetAdmissionStatusHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		var body models.SetAdmissionStatusRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		admission, err := appState.AdmissionStore.SetStatus(r.Context(), id, body.Status)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, admission)
	}
}

// ToggleEntryTestHandler godoc
//
//	@Summary		Toggle entry test access
//	@Description	flip entry test access for an admission
//	@Tags			admissions
//	@Produce		json
//	@Param			id	path		int	true	"Admission ID"
//	@Success		200		{object}	ToggleResponse
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/admissions/{id}/toggle_entry_test [post]
func ToggleEntryTestHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		unlocked, err := appState.AdmissionStore.ToggleEntryTest(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		log.Infof("entry test access for admission %d set to %t", id, unlocked)
		encode(w, http.StatusOK, newToggleResponse(unlocked))
	}
}
