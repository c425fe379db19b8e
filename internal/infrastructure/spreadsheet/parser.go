// Package spreadsheet turns uploaded CSV, TXT and XLSX files into header-keyed
// rows. Only the first sheet of a workbook is read; its first row is the header.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-api-employees/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for extensions other than csv, txt and xlsx.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// Parser implements the employee service's row parser.
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// Parse reads all data rows from r, choosing the decoder by filename extension.
// Rows whose cells are all blank are skipped.
func (p *Parser) Parse(r io.Reader, filename string) ([]domain.EmployeeRow, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv", "txt":
		records, err = readCSV(r)
	case "xlsx":
		records, err = readXLSX(r)
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}
	return toRows(records), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func toRows(records [][]string) []domain.EmployeeRow {
	if len(records) == 0 {
		return []domain.EmployeeRow{}
	}
	header := make([]string, len(records[0]))
	seen := make(map[string]bool, len(header))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = uniqueKey(headingKey(h, i), seen)
	}

	rows := make([]domain.EmployeeRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row := make(domain.EmployeeRow, len(header))
		for i, key := range header {
			if i < len(rec) {
				row[key] = strings.TrimSpace(rec[i])
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// headingKey slugs a header cell ("First Name" -> "first_name"). Blank
// headers are named after their 1-based column position.
func headingKey(h string, idx int) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	key := strings.TrimSuffix(b.String(), "_")
	if key == "" {
		return "column_" + strconv.Itoa(idx+1)
	}
	return key
}

// uniqueKey suffixes key with _2, _3, ... until it is unused, so repeated
// headers keep every column.
func uniqueKey(key string, seen map[string]bool) string {
	out := key
	for n := 2; seen[out]; n++ {
		out = key + "_" + strconv.Itoa(n)
	}
	seen[out] = true
	return out
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
