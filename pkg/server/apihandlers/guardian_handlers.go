package apihandlers

import (
	"context"

	"github.com/admitdesk/admitdesk/pkg/models"
)

// GuardianHandlers serves the CRUD routes under /api/guardians.
// List accepts ?admission_id= in place of cursor pagination.
func GuardianHandlers(appState *models.AppState) CRUD {
	res := &resource[models.Guardian, models.CreateGuardianRequest, models.UpdateGuardianRequest]{
		store:       appState.GuardianStore,
		id:          func(g *models.Guardian) int64 { return g.ID },
		byAdmission: func(ctx context.Context, admissionID int64) ([]*models.Guardian, error) {
			return appState.GuardianStore.ListByAdmission(ctx, admissionID)
		},
	}
	return res.handlers()
}
