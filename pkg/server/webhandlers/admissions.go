package webhandlers

import (
	"context"
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/web"
)

const admissionsPath = "/admin/admissions"

var AdmissionTableColumns = []web.Column{
	{Name: "ID"},
	{Name: "Applicant"},
	{Name: "Email"},
	{Name: "Program"},
	{Name: "Status"},
	{Name: "Entry test"},
	{Name: "Submitted"},
}

func NewAdmissionList(admissionStore models.AdmissionStore, r *http.Request) *AdmissionList {
	t := web.NewTable("admission-table", AdmissionTableColumns)
	t.ParseQueryParams(r)
	return &AdmissionList{
		AdmissionStore: admissionStore,
		BasePath:       admissionsPath,
		Table:          t,
	}
}

type AdmissionList struct {
	AdmissionStore models.AdmissionStore
	BasePath       string
	*web.Table
}

func (al *AdmissionList) Get(ctx context.Context) error {
	admissions, err := al.AdmissionStore.ListAll(ctx, al.Cursor, al.PageSize)
	if err != nil {
		return err
	}
	total, err := al.AdmissionStore.CountAll(ctx)
	if err != nil {
		return err
	}

	var lastID int64
	if len(admissions) > 0 {
		lastID = admissions[len(admissions)-1].ID
	}
	al.TotalCount = total
	al.SetPage(admissions, len(admissions), lastID)

	return nil
}

func GetAdmissionListHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		al := NewAdmissionList(appState.AdmissionStore, r)

		if err := al.Get(r.Context()); err != nil {
			handleError(w, err, "failed to get admission list")
			return
		}

		page := web.NewPage(
			"Admissions",
			"Submitted applications, oldest first",
			admissionsPath,
			[]string{
				"templates/pages/admissions.html",
			},
			[]web.BreadCrumb{
				{
					Title: "Admissions",
					Path:  admissionsPath,
				},
			},
			al,
		)

		page.Render(w, r)
	}
}
