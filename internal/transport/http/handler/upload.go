package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-api-employees/internal/domain"
)

const (
	maxUploadKB    = 2048
	maxUploadBytes = maxUploadKB * 1024
	// extra room for multipart framing and other form fields
	maxRequestBytes = maxUploadBytes + 64*1024
)

// formFile pulls field out of a multipart request and checks its extension
// and size. The caller must close the returned file.
func formFile(w http.ResponseWriter, r *http.Request, field string, exts []string) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := r.ParseMultipartForm(maxRequestBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
			return nil, nil, tooLarge(field)
		}
		return nil, nil, domain.NewFieldError(field, fmt.Sprintf("The %s field is required.", field))
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, domain.NewFieldError(field, fmt.Sprintf("The %s field is required.", field))
	}
	if !hasExt(header.Filename, exts) {
		f.Close()
		return nil, nil, domain.NewFieldError(field,
			fmt.Sprintf("The %s field must be a file of type: %s.", field, strings.Join(exts, ", ")))
	}
	if header.Size > maxUploadBytes {
		f.Close()
		return nil, nil, tooLarge(field)
	}
	return f, header, nil
}

// sniffImage rejects files whose content is not an image and rewinds f.
func sniffImage(f multipart.File, field string) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	ct := http.DetectContentType(buf[:n])
	if !strings.HasPrefix(ct, "image/") {
		return "", domain.NewFieldError(field, fmt.Sprintf("The %s field must be an image.", field))
	}
	return ct, nil
}

func hasExt(filename string, exts []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func tooLarge(field string) error {
	return domain.NewFieldError(field, fmt.Sprintf("The %s field must not be greater than %d kilobytes.", field, maxUploadKB))
}

// sniffSpreadsheet checks that the content of f matches its extension: text
// for csv/txt, a zip container for xlsx. f is rewound afterwards.
func sniffSpreadsheet(f multipart.File, filename, field string, exts []string) error {
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	want := "text/plain"
	if hasExt(filename, []string{"xlsx"}) {
		want = "application/zip"
	}
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(want) {
			return nil
		}
	}
	return domain.NewFieldError(field,
		fmt.Sprintf("The %s field must be a file of type: %s.", field, strings.Join(exts, ", ")))
}
