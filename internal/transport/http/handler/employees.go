package handler

import (
	"net/http"

	"github.com/go-api-employees/internal/application/employee"
	"github.com/go-api-employees/internal/transport/http/middleware"
)

var spreadsheetExts = []string{"csv", "txt", "xlsx"}

// EmployeeHandler handles spreadsheet upload and the cached row listing.
type EmployeeHandler struct {
	svc employee.Service
}

func NewEmployeeHandler(svc employee.Service) *EmployeeHandler { return &EmployeeHandler{svc: svc} }

func (h *EmployeeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	f, header, err := formFile(w, r, "file", spreadsheetExts)
	if err != nil {
		httpError(w, err)
		return
	}
	defer f.Close()
	if err := sniffSpreadsheet(f, header.Filename, "file", spreadsheetExts); err != nil {
		httpError(w, err)
		return
	}

	rows, err := h.svc.Upload(r.Context(), employee.UploadInput{
		UserID:      claims.UserID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RowsEnvelope{Message: "File uploaded and processed successfully!", Data: rows})
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	rows, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RowsEnvelope{Data: rows})
}
