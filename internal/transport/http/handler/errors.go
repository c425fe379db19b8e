package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-api-employees/internal/application/employee"
	"github.com/go-api-employees/internal/domain"
)

// httpError maps a service error onto a status code and JSON body.
// Anything unrecognised is logged and reported as a generic 500.
func httpError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	var se *domain.StorageError
	var mf *employee.MissingFileError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationEnvelope{Message: firstMessage(ve), Errors: ve.Fields})
	case errors.As(err, &mf):
		writeJSON(w, http.StatusNotFound, UploadErrorEnvelope{Message: "File not found after upload.", Path: mf.Path})
	case errors.As(err, &se):
		slog.Error("object store failure", "op", se.Op, "err", se.Err)
		writeJSON(w, http.StatusInternalServerError, UploadErrorEnvelope{Message: "File upload failed.", Error: se.Err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "Conflict.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden.")
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "Bad request.")
	default:
		slog.Error("unhandled error", "err", err)
		writeJSON(w, http.StatusInternalServerError, MessageEnvelope{Error: "internal server error"})
	}
}

// firstMessage mirrors the top-level message of a 422: the first error of the
// alphabetically first field.
func firstMessage(ve *domain.ValidationError) string {
	first := ""
	for field := range ve.Fields {
		if first == "" || field < first {
			first = field
		}
	}
	if first == "" || len(ve.Fields[first]) == 0 {
		return "The given data was invalid."
	}
	return ve.Fields[first][0]
}
