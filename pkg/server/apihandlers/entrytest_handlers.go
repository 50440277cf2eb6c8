package apihandlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

// EntryTestHandlers serves the CRUD routes under /api/entry-tests.
// List accepts ?admission_id= in place of cursor pagination.
func EntryTestHandlers(appState *models.AppState) CRUD {
	res := &resource[models.EntryTest, models.CreateEntryTestRequest, models.UpdateEntryTestRequest]{
		store: appState.EntryTestStore,
		id:    func(e *models.EntryTest) int64 { return e.ID },
		byAdmission: func(ctx context.Context, admissionID int64) ([]*models.EntryTest, error) {
			entryTest, err := appState.EntryTestStore.GetByAdmission(ctx, admissionID)
			if errors.Is(err, models.ErrNotFound) {
				return []*models.EntryTest{}, nil
			}
			if err != nil {
				return nil, err
			}
			return []*models.EntryTest{entryTest}, nil
		},
	}
	return res.handlers()
}

// CheckAccessHandler godoc
//
//	@Summary		Check entry test access
//	@Description	report whether an entry test is unlocked
//	@Tags			entry-tests
//	@Produce		json
//	@Param			id	path		int	true	"Entry test ID"
//	@Success		200		{object}	models.EntryTestAccess
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/entry-tests/{id}/check_access [get]
func CheckAccessHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		access, err := appState.EntryTestStore.CheckAccess(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, access)
	}
}

// ToggleAccessHandler godoc
//
//	@Summary		Toggle entry test access
//	@Description	flip access for an entry test
//	@Tags			entry-tests
//	@Produce		json
//	@Param			id	path		int	true	"Entry test ID"
//	@Success		200		{object}	ToggleResponse
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/entry-tests/{id}/toggle_access [post]
func ToggleAccessHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		access, err := appState.EntryTestStore.ToggleAccess(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		log.Infof("entry test %d access set to %t", id, access.EntryTestUnlocked)
		encode(w, http.StatusOK, newToggleResponse(access.EntryTestUnlocked))
	}
}
