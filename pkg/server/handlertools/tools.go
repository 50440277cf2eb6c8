package handlertools

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/admitdesk/admitdesk/internal"
	"github.com/admitdesk/admitdesk/pkg/models"
)

var log = internal.GetLogger()

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// validatable is implemented by requests that check more than their struct tags.
type validatable interface {
	Validate() error
}

// IntFromQuery extracts a query string value and converts it to an int
// if it is not empty. If the value is empty, it returns 0.
func IntFromQuery[T ~int | int32 | int64](
	r *http.Request,
	param string,
) (T, error) {
	bitsize := 0

	p := r.URL.Query().Get(param)
	var pInt T
	if p != "" {
		switch any(pInt).(type) {
		case int:
		case int32:
			bitsize = 32
		case int64:
			bitsize = 64
		default:
			return 0, errors.New("unsupported type")
		}

		pInt, err := strconv.ParseInt(p, 10, bitsize)
		if err != nil {
			return 0, models.NewValidationError(param, "A valid integer is required.")
		}
		return T(pInt), nil
	}
	return 0, nil
}

// Int64FromURL parses an integer id from a path parameter.
func Int64FromURL(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewBadRequestError(fmt.Sprintf("invalid %s: %q", param, raw))
	}
	return id, nil
}

// EncodeJSON writes data as JSON with the given status code.
func EncodeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// DecodeJSON decodes a JSON request body into data and validates it. Requests with
// a Validate method use it, everything else is checked against its struct tags.
func DecodeJSON(r *http.Request, data interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return models.NewBadRequestError(fmt.Sprintf("malformed request body: %s", err))
	}
	return Validate(data)
}

func Validate(data interface{}) error {
	if v, ok := data.(validatable); ok {
		return v.Validate()
	}
	return models.ValidateStruct(data)
}

// RenderError classifies err and writes the matching JSON error response. status is
// used for errors that are neither validation, bad request nor not found.
func RenderError(w http.ResponseWriter, err error, status int) {
	var (
		validationErr *models.ValidationError
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Message: "validation failed",
			Errors:  validationErr.Fields,
		})
	case errors.Is(err, models.ErrNotFound):
		// Don't log not found errors
		writeError(w, http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, models.ErrBadRequest):
		writeError(w, http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.As(err, &maxBytesErr):
		writeError(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: fmt.Sprintf("request body too large, the limit is %d bytes", maxBytesErr.Limit),
		})
	default:
		log.Error(err)
		writeError(w, status, ErrorResponse{
			Message: http.StatusText(status),
			Error:   err.Error(),
		})
	}
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	if err := EncodeJSON(w, status, body); err != nil {
		log.Errorf("failed to write error response: %s", err)
	}
}
