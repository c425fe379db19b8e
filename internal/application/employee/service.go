package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/go-api-employees/internal/domain"
	"github.com/go-api-employees/internal/pkg/id"
)

const (
	uploadPrefix   = "uploads"
	cacheKeyPrefix = "employees"
	defaultTTL     = 10 * time.Minute
)

// UploadInput is an already validated spreadsheet upload.
type UploadInput struct {
	UserID      string
	Filename    string
	ContentType string
	Body        io.Reader
}

// MissingFileError reports that a freshly stored upload could not be read back.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string { return "file not found after upload: " + e.Path }

func (e *MissingFileError) Unwrap() error { return domain.ErrNotFound }

type Service interface {
	// Upload stores, parses and caches a spreadsheet, returning the parsed rows.
	Upload(ctx context.Context, in UploadInput) ([]domain.EmployeeRow, error)
	// List returns the user's cached rows, or an empty list once they expire.
	List(ctx context.Context, userID string) ([]domain.EmployeeRow, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

type parser interface {
	Parse(r io.Reader, filename string) ([]domain.EmployeeRow, error)
}

type rowCache interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
}

type service struct {
	objects objectStore
	parser  parser
	cache   rowCache
	ttl     time.Duration
}

type ServiceDeps struct {
	ObjectStore objectStore
	Parser      parser
	Cache       rowCache
	// TTL defaults to ten minutes.
	TTL time.Duration
}

func NewService(deps ServiceDeps) Service {
	ttl := deps.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &service{
		objects: deps.ObjectStore,
		parser:  deps.Parser,
		cache:   deps.Cache,
		ttl:     ttl,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) ([]domain.EmployeeRow, error) {
	key := fmt.Sprintf("%s/%s/%s-%s", uploadPrefix, in.UserID, id.New(), sanitizeFilename(in.Filename))
	if _, err := s.objects.Upload(ctx, key, in.Body, in.ContentType); err != nil {
		return nil, &domain.StorageError{Op: "upload file", Err: err}
	}

	rc, err := s.objects.Download(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &MissingFileError{Path: key}
		}
		return nil, &domain.StorageError{Op: "read uploaded file", Err: err}
	}
	defer rc.Close()

	rows, err := s.parser.Parse(rc, in.Filename)
	if err != nil {
		slog.Warn("failed to parse uploaded spreadsheet", "user_id", in.UserID, "key", key, "err", err)
		return nil, domain.NewFieldError("file", "The file could not be read as a spreadsheet.")
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := s.cache.SetJSON(ctx, cacheKey(in.UserID), rows, s.ttl); err != nil {
		return nil, fmt.Errorf("cache employee rows: %w", err)
	}
	return rows, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.EmployeeRow, error) {
	var rows []domain.EmployeeRow
	found, err := s.cache.GetJSON(ctx, cacheKey(userID), &rows)
	if err != nil {
		return nil, err
	}
	if !found || rows == nil {
		return []domain.EmployeeRow{}, nil
	}
	return rows, nil
}

func cacheKey(userID string) string {
	return cacheKeyPrefix + ":" + userID
}

// sanitizeFilename keeps the base name's letters, digits, dot, dash and
// underscore; anything else becomes an underscore.
func sanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 || base == "." || base == "/" {
		return "upload"
	}
	return b.String()
}
