// Package corpus reads and writes the job advertisement table.
package corpus

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/giomambre/cv-job-matching/config"
	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
	"github.com/giomambre/cv-job-matching/internal/typoutil"
	"github.com/giomambre/cv-job-matching/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoHeader is returned when a corpus file has no header row.
var ErrNoHeader = errors.New("corpus has no header row")

// Table is a job ad corpus: a header plus rows in file order. Row i of the
// table is document i of the model. Short rows are padded with empty cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable builds a table, padding rows that are shorter than the header.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: make([][]string, len(rows))}
	for i, row := range rows {
		t.Rows[i] = pad(row, len(header))
	}
	return t
}

// Read parses CSV with a header row. Rows with a different number of fields
// than the header are kept; missing cells read as empty strings.
func Read(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(lead, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("failed to read corpus header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read corpus row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return NewTable(header, rows), nil
}

// ReadFile reads a CSV corpus from disk.
func ReadFile(path string) (*Table, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return Read(file)
}

// Write encodes the table as CSV, header first. A record holding a single
// empty field is written as a quoted empty string, since csv.Reader skips
// blank lines and the row would otherwise vanish on read.
func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "" {
			writer.Flush()
			if err := writer.Error(); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\"\"\n"); err != nil {
				return err
			}
			continue
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to path, creating parent directories.
func (t *Table) WriteFile(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	file, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	if err := t.Write(file); err != nil {
		return fmt.Errorf("failed to write corpus %s: %w", path, err)
	}
	return nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column finds a column by exact name, then case-insensitively.
func (t *Table) Column(name string) (int, bool) {
	if name == "" {
		return -1, false
	}
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i, true
		}
	}
	return -1, false
}

// RequireColumn is Column with a ColumnNotFoundError for absent columns.
func (t *Table) RequireColumn(name string) (int, error) {
	idx, ok := t.Column(name)
	if !ok {
		err := apperrors.NewColumnNotFoundError(name, t.Header)
		err.Suggestion, _ = typoutil.Closest(name, t.Header, typoutil.DefaultMaxDistance)
		return -1, err
	}
	return idx, nil
}

// Cell returns a cell, or "" when the row or column does not exist.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Values returns one column for every row, in row order.
func (t *Table) Values(col int) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Cell(i, col)
	}
	return out
}

// JobAds maps every row onto display fields. Columns the header lacks yield empty fields.
func (t *Table) JobAds(columns config.Columns) []model.JobAd {
	lookup := func(name string) int {
		idx, ok := t.Column(name)
		if !ok {
			return -1
		}
		return idx
	}
	company := lookup(columns.Company)
	role := lookup(columns.Role)
	description := lookup(columns.Description)
	link := lookup(columns.Link)
	source := lookup(columns.Source)

	ads := make([]model.JobAd, len(t.Rows))
	for i := range t.Rows {
		ads[i] = model.JobAd{
			Row:         i,
			Company:     t.Cell(i, company),
			Role:        t.Cell(i, role),
			Description: t.Cell(i, description),
			Link:        t.Cell(i, link),
			Source:      t.Cell(i, source),
		}
	}
	return ads
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
