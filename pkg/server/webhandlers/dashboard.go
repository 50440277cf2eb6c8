package webhandlers

import (
	"context"
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/web"
)

type Dashboard struct {
	AdmissionCount int
	UnlockedCount  int
	StatusCounts   map[models.AdmissionStatus]int
	CategoryCount  int
	ResponseCount  int
}

func (d *Dashboard) Get(ctx context.Context, appState *models.AppState) error {
	count, err := appState.AdmissionStore.CountAll(ctx)
	if err != nil {
		return err
	}
	d.AdmissionCount = count

	// a limit of 0 returns every admission
	admissions, err := appState.AdmissionStore.ListAll(ctx, 0, 0)
	if err != nil {
		return err
	}
	d.StatusCounts = map[models.AdmissionStatus]int{
		models.AdmissionStatusPending:   0,
		models.AdmissionStatusReviewing: 0,
		models.AdmissionStatusAccepted:  0,
		models.AdmissionStatusRejected:  0,
	}
	for _, a := range admissions {
		d.StatusCounts[a.Status]++
		if a.EntryTestUnlocked {
			d.UnlockedCount++
		}
	}

	categories, err := appState.KnowledgeStore.ListCategories(ctx)
	if err != nil {
		return err
	}
	d.CategoryCount = len(categories)
	for _, c := range categories {
		d.ResponseCount += c.ResponseCount
	}

	return nil
}

func DashboardHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const path = "/admin"

		dashboard := &Dashboard{}
		if err := dashboard.Get(r.Context(), appState); err != nil {
			handleError(w, err, "failed to load dashboard")
			return
		}

		page := web.NewPage(
			"Dashboard",
			"Applications and knowledge base at a glance",
			path,
			[]string{
				"templates/pages/dashboard.html",
			},
			[]web.BreadCrumb{
				{
					Title: "Dashboard",
					Path:  path,
				},
			},
			dashboard,
		)

		page.Render(w, r)
	}
}
