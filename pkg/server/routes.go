package server

import (
	"fmt"
	"net/http"
	"time"

	httpLogger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/riandyrn/otelchi"

	"github.com/admitdesk/admitdesk/internal"
	"github.com/admitdesk/admitdesk/pkg/auth"
	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/apihandlers"
	"github.com/admitdesk/admitdesk/pkg/server/webhandlers"
)

const (
	ReadHeaderTimeout = 5 * time.Second
	RouterName        = "admitdesk"
)

var log = internal.GetLogger()

// Create creates a new HTTP server with the given app state
func Create(appState *models.AppState) *http.Server {
	cfg := appState.Config.Server
	router := setupRouter(appState)
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
}

func setupRouter(appState *models.AppState) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		httpLogger.Logger("router", log),
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
		middleware.CleanPath,
		SendVersion,
		middleware.Heartbeat("/healthz"),
		otelchi.Middleware(
			RouterName,
			otelchi.WithChiRoutes(router),
			otelchi.WithRequestMethodInSpanName(true),
		),
	)

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.StripSlashes)

		// multipart uploads are capped by uploads.max_size inside the handler
		r.Post("/documents/upload_document", apihandlers.UploadDocumentHandler(appState))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequestSize(appState.Config.Server.MaxRequestSize))

			setupPublicRoutes(r, appState)

			r.Group(func(r chi.Router) {
				if appState.Config.Auth.Required {
					r.Use(adminAuth(appState)...)
				}
				setupAdminRoutes(r, appState)
			})
		})
	})

	if appState.Config.Server.WebEnabled {
		router.Route("/admin", func(r chi.Router) {
			if appState.Config.Auth.Required {
				r.Use(adminAuth(appState)...)
			}
			setupWebRoutes(r, appState)
		})
	}

	return router
}

// adminAuth verifies the JWT from the Authorization header or jwt cookie and
// rejects requests without a valid one.
func adminAuth(appState *models.AppState) []func(http.Handler) http.Handler {
	log.Info("JWT authentication required")
	return []func(http.Handler) http.Handler{
		auth.JWTVerifier(appState.Config),
		jwtauth.Authenticator,
	}
}

func setupPublicRoutes(r chi.Router, appState *models.AppState) {
	r.Get("/", apihandlers.APIRootHandler)
	r.Post("/query", apihandlers.QueryHandler(appState))
	r.Post("/admissions/submit_application", apihandlers.SubmitApplicationHandler(appState))
	r.Get("/admissions/{id}/check_status", apihandlers.CheckStatusHandler(appState))
	r.Post("/payments/process_payment", apihandlers.ProcessPaymentHandler(appState))
	r.Get("/entry-tests/{id}/check_access", apihandlers.CheckAccessHandler(appState))
}

func setupAdminRoutes(r chi.Router, appState *models.AppState) {
	mountCRUD(r, "/admissions", apihandlers.AdmissionHandlers(appState), func(r chi.Router) {
		r.Get("/details", apihandlers.AdmissionDetailsHandler(appState))
		r.Patch("/status", apihandlers.SetAdmissionStatusHandler(appState))
		r.Post("/toggle_entry_test", apihandlers.ToggleEntryTestHandler(appState))
	})
	mountCRUD(r, "/documents", apihandlers.DocumentHandlers(appState), func(r chi.Router) {
		r.Patch("/verify", apihandlers.VerifyDocumentHandler(appState))
		r.Get("/file", apihandlers.DownloadDocumentHandler(appState))
	})
	mountCRUD(r, "/payments", apihandlers.PaymentHandlers(appState), func(r chi.Router) {
		r.Patch("/status", apihandlers.SetPaymentStatusHandler(appState))
	})
	mountCRUD(r, "/guardians", apihandlers.GuardianHandlers(appState), nil)
	mountCRUD(r, "/entry-tests", apihandlers.EntryTestHandlers(appState), func(r chi.Router) {
		r.Post("/toggle_access", apihandlers.ToggleAccessHandler(appState))
	})

	r.Get("/categories", apihandlers.ListCategoriesHandler(appState))
	r.Post("/categories", apihandlers.CreateCategoryHandler(appState))
	r.Route("/categories/{id}", func(r chi.Router) {
		r.Get("/", apihandlers.GetCategoryHandler(appState))
		r.Patch("/", apihandlers.UpdateCategoryHandler(appState))
		r.Delete("/", apihandlers.DeleteCategoryHandler(appState))
		r.Get("/responses", apihandlers.ListResponsesHandler(appState))
		r.Post("/responses", apihandlers.CreateResponseHandler(appState))
	})
	r.Route("/responses/{id}", func(r chi.Router) {
		r.Get("/", apihandlers.GetResponseHandler(appState))
		r.Patch("/", apihandlers.UpdateResponseHandler(appState))
		r.Delete("/", apihandlers.DeleteResponseHandler(appState))
	})
}

// mountCRUD registers list and create on pattern and get, update and delete on
// pattern/{id}. extra adds routes beneath pattern/{id}.
func mountCRUD(r chi.Router, pattern string, crud apihandlers.CRUD, extra func(chi.Router)) {
	r.Get(pattern, crud.List)
	r.Post(pattern, crud.Create)
	r.Route(pattern+"/{id}", func(r chi.Router) {
		r.Get("/", crud.Get)
		r.Patch("/", crud.Update)
		r.Delete("/", crud.Delete)
		if extra != nil {
			extra(r)
		}
	})
}

func setupWebRoutes(r chi.Router, appState *models.AppState) {
	r.NotFound(webhandlers.NotFoundHandler())
	r.Get("/", webhandlers.DashboardHandler(appState))
	r.Get("/admissions", webhandlers.GetAdmissionListHandler(appState))
	r.Route("/admissions/{id}", func(r chi.Router) {
		r.Get("/", webhandlers.GetAdmissionDetailsHandler(appState))
		r.Post("/toggle-entry-test", webhandlers.PostToggleEntryTestHandler(appState))
		r.Post("/status", webhandlers.PostAdmissionStatusHandler(appState))
	})
	r.Get("/knowledge", webhandlers.GetKnowledgeBaseHandler(appState))
}
