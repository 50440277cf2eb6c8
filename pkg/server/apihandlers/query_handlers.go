package apihandlers

import (
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/chatbot"
	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

const (
	QueryStatusSuccess = "success"
	QueryStatusNoMatch = "no_match"
	QueryStatusError   = "error"

	queryErrorResponse = "Sorry, there was an error processing your request."
)

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse struct {
	Response string  `json:"response"`
	Category *string `json:"category"`
	Status   string  `json:"status"`
}

type QueryErrorResponse struct {
	Response string `json:"response"`
	Status   string `json:"status"`
	Error    string `json:"error"`
}

// QueryHandler godoc
//
//	@Summary		Answer a question
//	@Description	match a free-text question against the knowledge base keywords. A miss is a 200 with status no_match
//	@Tags			query
//	@Accept			json
//	@Produce		json
//	@Param			body	body		QueryRequest	true	"Question"
//	@Success		200		{object}	QueryResponse
//	@Failure		500		{object}	QueryErrorResponse	"Internal Server Error"
//	@Router			/api/query [post]
func QueryHandler(appState *models.AppState) http.HandlerFunc {
	matcher := chatbot.NewMatcher(
		appState.KnowledgeStore,
		chatbot.WithFormatting(appState.Config.Chatbot.FormatResponses),
	)

	return func(w http.ResponseWriter, r *http.Request) {
		var body QueryRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		log.Infof("received query: %q", body.Query)

		answer, err := matcher.Answer(r.Context(), body.Query)
		if err != nil {
			log.Errorf("error processing query: %s", err)
			encode(w, http.StatusInternalServerError, &QueryErrorResponse{
				Response: queryErrorResponse,
				Status:   QueryStatusError,
				Error:    err.Error(),
			})
			return
		}

		status := QueryStatusNoMatch
		if answer.Matched {
			status = QueryStatusSuccess
		}
		encode(w, http.StatusOK, &QueryResponse{
			Response: answer.Response,
			Category: answer.Category,
			Status:   status,
		})
	}
}
