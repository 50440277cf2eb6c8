package webhandlers

import (
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/web"
)

type KnowledgeBase struct {
	Categories []*models.IntentCategory
}

func GetKnowledgeBaseHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const path = "/admin/knowledge"

		categories, err := appState.KnowledgeStore.ListCategories(r.Context())
		if err != nil {
			handleError(w, err, "failed to get intent categories")
			return
		}

		page := web.NewPage(
			"Knowledge Base",
			"Intent categories and their trigger keywords",
			path,
			[]string{
				"templates/pages/knowledge.html",
			},
			[]web.BreadCrumb{
				{
					Title: "Knowledge Base",
					Path:  path,
				},
			},
			&KnowledgeBase{Categories: categories},
		)

		page.Render(w, r)
	}
}
