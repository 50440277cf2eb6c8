package webhandlers

import (
	"fmt"
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
	"github.com/admitdesk/admitdesk/pkg/web"
)

var admissionStatuses = []string{
	string(models.AdmissionStatusPending),
	string(models.AdmissionStatusReviewing),
	string(models.AdmissionStatusAccepted),
	string(models.AdmissionStatusRejected),
}

type AdmissionDetails struct {
	Details  *models.AdmissionDetails
	Statuses []string
}

func GetAdmissionDetailsHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handleError(w, err, "invalid admission id")
			return
		}

		details, err := appState.AdmissionStore.GetDetails(r.Context(), id)
		if err != nil {
			handleError(w, err, "failed to get admission")
			return
		}

		path := admissionPath(id)
		page := web.NewPage(
			details.FullName(),
			details.Email,
			path,
			[]string{
				"templates/pages/admission_details.html",
			},
			[]web.BreadCrumb{
				{
					Title: "Admissions",
					Path:  admissionsPath,
				},
				{
					Title: details.FullName(),
					Path:  path,
				},
			},
			&AdmissionDetails{
				Details:  details,
				Statuses: admissionStatuses,
			},
		)
		// keep the Admissions menu item highlighted
		page.Slug = "admissions"

		page.Render(w, r)
	}
}

// PostToggleEntryTestHandler flips the entry-test flag from the details page form.
func PostToggleEntryTestHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handleError(w, err, "invalid admission id")
			return
		}

		unlocked, err := appState.AdmissionStore.ToggleEntryTest(r.Context(), id)
		if err != nil {
			handleError(w, err, "failed to toggle entry test access")
			return
		}
		log.Infof("entry test access for admission %d set to %t", id, unlocked)

		http.Redirect(w, r, admissionPath(id), http.StatusSeeOther)
	}
}

func PostAdmissionStatusHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handleError(w, err, "invalid admission id")
			return
		}
		if err := r.ParseForm(); err != nil {
			handleError(w, models.NewBadRequestError(err.Error()), "invalid form")
			return
		}

		body := models.SetAdmissionStatusRequest{
			Status: models.AdmissionStatus(r.PostForm.Get("status")),
		}
		if err := handlertools.Validate(&body); err != nil {
			handleError(w, err, "invalid status")
			return
		}

		if _, err := appState.AdmissionStore.SetStatus(r.Context(), id, body.Status); err != nil {
			handleError(w, err, "failed to set admission status")
			return
		}

		http.Redirect(w, r, admissionPath(id), http.StatusSeeOther)
	}
}

func admissionPath(id int64) string {
	return fmt.Sprintf("%s/%d", admissionsPath, id)
}
