package apihandlers

import (
	"net/http"

	"github.com/admitdesk/admitdesk/config"
)

// RootResponse describes the API to clients hitting /api/.
type RootResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
	Status    string            `json:"status"`
	Build     config.BuildInfo  `json:"build"`
}

// APIRootHandler godoc
//
//	@Summary		Describe the API
//	@Description	list the public endpoints and the build
//	@Tags			meta
//	@Produce		json
//	@Success		200		{object}	RootResponse
//	@Router			/api [get]
func APIRootHandler(w http.ResponseWriter, r *http.Request) {
	base := absoluteURL(r, "/api")
	encode(w, http.StatusOK, &RootResponse{
		Message: "Welcome to University Admission Assistant API",
		Endpoints: map[string]string{
			"query":      base + "/query/",
			"admissions": base + "/admissions/",
		},
		Status: "API is running",
		Build:  config.GetBuildInfo(),
	})
}

func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + path
}
