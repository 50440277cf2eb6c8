package apihandlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/admitdesk/admitdesk/pkg/models"
	"github.com/admitdesk/admitdesk/pkg/server/handlertools"
)

// multipart parts beyond this are spooled to temporary files
const multipartMemory = 1 << 20

type UploadDocumentResponse struct {
	Message    string `json:"message"`
	DocumentID int64  `json:"document_id"`
}

// DocumentHandlers serves the CRUD routes under /api/documents.
// List accepts ?admission_id= in place of cursor pagination.
func DocumentHandlers(appState *models.AppState) CRUD {
	res := &resource[models.Document, models.CreateDocumentRequest, models.UpdateDocumentRequest]{
		store:       appState.DocumentStore,
		id:          func(d *models.Document) int64 { return d.ID },
		byAdmission: func(ctx context.Context, admissionID int64) ([]*models.Document, error) {
			return appState.DocumentStore.ListByAdmission(ctx, admissionID)
		},
	}
	crud := res.handlers()
	crud.Delete = deleteDocumentHandler(appState)
	return crud
}

// UploadDocumentHandler godoc
//
//	@Summary		Upload a document
//	@Description	upload a file for the admission identified by admission_code
//	@Tags			documents
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			admission_code	formData	string	true	"Admission code"
//	@Param			document_type	formData	string	true	"Document type"
//	@Param			file		formData	file	true	"File"
//	@Success		201		{object}	UploadDocumentResponse
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		413		{object}	APIError	"Request Entity Too Large"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Router			/api/documents/upload_document [post]
func UploadDocumentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, appState.Config.Uploads.MaxSize)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			handlertools.RenderError(w, multipartError(err, appState.Config.Uploads.MaxSize), http.StatusBadRequest)
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Warnf("failed to remove multipart temp files: %s", err)
			}
		}()

		code, documentType, err := uploadFields(r)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			handlertools.RenderError(
				w,
				models.NewValidationError("file", "No file was submitted."),
				http.StatusBadRequest,
			)
			return
		}
		defer file.Close()

		admission, err := appState.AdmissionStore.GetByCode(r.Context(), code)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		document, err := storeUpload(r, appState, admission, documentType, file, header)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}

		log.Infof("document %d uploaded for admission %d", document.ID, admission.ID)
		encode(w, http.StatusCreated, &UploadDocumentResponse{
			Message:    "Document uploaded successfully",
			DocumentID: document.ID,
		})
	}
}

func multipartError(err error, limit int64) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	// the multipart reader does not always wrap the limit error
	if strings.Contains(err.Error(), "request body too large") {
		return &http.MaxBytesError{Limit: limit}
	}
	return models.NewBadRequestError(fmt.Sprintf("malformed multipart form: %s", err))
}

func uploadFields(r *http.Request) (uuid.UUID, string, error) {
	ve := &models.ValidationError{}

	rawCode := r.FormValue("admission_code")
	code, err := uuid.Parse(rawCode)
	switch {
	case rawCode == "":
		ve.Add("admission_code", "This field is required.")
	case err != nil:
		ve.Add("admission_code", "Must be a valid UUID.")
	}

	documentType := strings.TrimSpace(r.FormValue("document_type"))
	switch {
	case documentType == "":
		ve.Add("document_type", "This field is required.")
	case len(documentType) > 50:
		ve.Add("document_type", "Ensure this field has no more than 50 characters.")
	}

	if len(ve.Fields) > 0 {
		return uuid.Nil, "", ve
	}
	return code, documentType, nil
}

// storeUpload writes the file and then its row. The file is removed again if the
// row cannot be created.
func storeUpload(
	r *http.Request,
	appState *models.AppState,
	admission *models.Admission,
	documentType string,
	file multipart.File,
	header *multipart.FileHeader,
) (*models.Document, error) {
	key, err := appState.FileStore.Save(admission.AdmissionCode.String(), header.Filename, file)
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	document, err := appState.DocumentStore.Create(r.Context(), &models.CreateDocumentRequest{
		AdmissionID:  admission.ID,
		DocumentType: documentType,
		File:         key,
		FileName:     header.Filename,
		ContentType:  contentType,
	})
	if err != nil {
		if removeErr := appState.FileStore.Remove(key); removeErr != nil {
			log.Warnf("failed to remove orphaned upload %s: %s", key, removeErr)
		}
		return nil, err
	}
	return document, nil
}

// VerifyDocumentHandler godoc
//
//	@Summary		Verify a document
//	@Description	mark a document verified or unverified
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Param			id	path		int	true	"Document ID"
//	@Param			body	body		models.SetDocumentVerifiedRequest	true	"Verified"
//	@Success		200		{object}	models.Document
//	@Failure		400		{object}	APIError	"Bad Request"
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/documents/{id}/verify [patch]
func VerifyDocumentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}
		var body models.SetDocumentVerifiedRequest
		if err := handlertools.DecodeJSON(r, &body); err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		document, err := appState.DocumentStore.SetVerified(r.Context(), id, body.Verified)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		encode(w, http.StatusOK, document)
	}
}

// DownloadDocumentHandler godoc
//
//	@Summary		Download a document
//	@Description	stream the stored file of a document
//	@Tags			documents
//	@Produce		octet-stream
//	@Param			id	path		int	true	"Document ID"
//	@Success		200		{file}	file
//	@Failure		404		{object}	APIError	"Not Found"
//	@Failure		500		{object}	APIError	"Internal Server Error"
//	@Security		Bearer
//	@Router			/api/documents/{id}/file [get]
func DownloadDocumentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		document, err := appState.DocumentStore.Get(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		rc, err := appState.FileStore.Open(document.File)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		contentType := document.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set(
			"Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", document.FileName),
		)
		if _, err := io.Copy(w, rc); err != nil {
			log.Errorf("failed to stream document %d: %s", id, err)
		}
	}
}

// deleteDocumentHandler deletes the row and then its file.
func deleteDocumentHandler(appState *models.AppState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlertools.Int64FromURL(r, "id")
		if err != nil {
			handlertools.RenderError(w, err, http.StatusBadRequest)
			return
		}

		document, err := appState.DocumentStore.Get(r.Context(), id)
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := appState.DocumentStore.Delete(r.Context(), id); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := appState.FileStore.Remove(document.File); err != nil {
			log.Warnf("failed to remove file for document %d: %s", id, err)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
