package apihandlers

import (
	"net/http"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

// ListCategoriesHandler godoc
//
//	@Summary		Returns all intent categories
//	@Description	list every category. Not paginated
//	@Tags			knowledge
//	@Produce		json
//	@Success		200		{array}		models.IntentCategory
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/categories [get]
func ListCategoriesHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := appState.KnowledgeStore.ListCategories(r.Context())
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, &Page[models.IntentCategory]{Results: categories})
	}
}

// CreateCategoryHandler godoc
//
//	@Summary		Add an intent category
//	@Description	add a category with its keywords
//	@Tags			knowledge
//	@Accept			json
//	@Produce		json
//	@Param			body	body		models.CreateIntentCategoryRequest	true	"Category"
//	@Success		201		{object}	models.IntentCategory
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/categories [post]
func CreateCategoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.CreateIntentCategoryRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		category, err := appState.KnowledgeStore.CreateCategory(r.Context(), &body)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusCreated, category)
	}
}

// GetCategoryHandler godoc
//
//	@Summary		Returns an intent category by ID
//	@Description	get category by id
//	@Tags			knowledge
//	@Produce		json
//	@Param			id	path		int	true	"Category ID"
//	@Success		200		{object}	models.IntentCategory
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/categories/{id} [get]
func GetCategoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		category, err := appState.KnowledgeStore.GetCategory(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, category)
	}
}

// UpdateCategoryHandler godoc
//
//	@Summary		Update an intent category
//	@Description	update category name or keywords
//	@Tags			knowledge
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Category ID"
//	@Param			body	body		models.UpdateIntentCategoryRequest	true	"Category"
//	@Success		200		{object}	models.IntentCategory
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/categories/{id} [patch]
func UpdateCategoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		var body models.UpdateIntentCategoryRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		category, err := appState.KnowledgeStore.UpdateCategory(r.Context(), id, &body)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, category)
	}
}

// DeleteCategoryHandler godoc
//
//	@Summary		Delete an intent category
//	@Description	delete a category and its responses
//	@Tags			knowledge
//	@Produce		json
//	@Param			id	path		int	true	"Category ID"
//	@Success		204		"No Content"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/categories/{id} [delete]
func DeleteCategoryHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		if err := appState.KnowledgeStore.DeleteCategory(r.Context(), id); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListResponsesHandler godoc
//
//	@Summary		Returns the responses of a category
//	@Description	list responses in the order the matcher considers them
//	@Tags			knowledge
//	@Produce		json
//	@Param			id	path		int	true	"Category ID"
//	@Success		200		{array}		models.Response
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/categories/{id}/responses [get]
func ListResponsesHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		responses, err := appState.KnowledgeStore.ListResponses(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, &Page[models.Response]{Results: responses})
	}
}

// CreateResponseHandler godoc
//
//	@Summary		Add a response to a category
//	@Description	add a response to the category in the URL. A category_id in the body is ignored
//	@Tags			knowledge
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Category ID"
//	@Param			body	body		models.CreateResponseRequest	true	"Response"
//	@Success		201		{object}	models.Response
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/categories/{id}/responses [post]
func CreateResponseHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		var body models.CreateResponseRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		body.CategoryID = id

		if _, err := appState.KnowledgeStore.GetCategory(r.Context(), id); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		response, err := appState.KnowledgeStore.CreateResponse(r.Context(), &body)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusCreated, response)
	}
}

// GetResponseHandler godoc
//
//	@Summary		Returns a response by ID
//	@Description	get response by id
//	@Tags			knowledge
//	@Produce		json
//	@Param			id	path		int	true	"Response ID"
//	@Success		200		{object}	models.Response
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/responses/{id} [get]
func GetResponseHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		response, err := appState.KnowledgeStore.GetResponse(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, response)
	}
}

// UpdateResponseHandler godoc
//
//	@Summary		Update a response
//	@Description	update response text
//	@Tags			knowledge
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Response ID"
//	@Param			body	body		models.UpdateResponseRequest	true	"Response"
//	@Success		200		{object}	models.Response
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/responses/{id} [patch]
func UpdateResponseHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		var body models.UpdateResponseRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		response, err := appState.KnowledgeStore.UpdateResponse(r.Context(), id, &body)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, response)
	}
}

// DeleteResponseHandler godoc
//
//	@Summary		Delete a response
//	@Description	delete response by id
//	@Tags			knowledge
//	@Produce		json
//	@Param			id	path		int	true	"Response ID"
//	@Success		204		"No Content"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/responses/{id} [delete]
func DeleteResponseHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		if err := appState.KnowledgeStore.DeleteResponse(r.Context(), id); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
