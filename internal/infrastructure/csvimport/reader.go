package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Row is one data record with header-based field access
type Row struct {
	headers []string
	index   map[string]int // lowercased header -> column
	values  []string
}

// Reader reads a legacy CSV export. The delimiter is detected from the
// header line and the bytes are decoded as UTF-8 with a Windows-1252
// fallback for the older exports.
type Reader struct {
	csv     *csv.Reader
	headers []string
	index   map[string]int
}

// NewReader opens a CSV file
func NewReader(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv %s: %w", path, err)
	}
	return NewReaderFromBytes(data)
}

// NewReaderFromBytes builds a reader over in-memory CSV content
func NewReaderFromBytes(data []byte) (*Reader, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("decoding csv content: %w", err)
		}
		data = decoded
	}

	content := string(data)
	firstLine := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}
	delimiter := ','
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		delimiter = ';'
	}

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return &Reader{csv: r, index: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	headers := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		headers[i] = h
		key := strings.ToLower(h)
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	return &Reader{csv: r, headers: headers, index: index}, nil
}

// Headers returns the trimmed header names in file order
func (r *Reader) Headers() []string {
	return r.headers
}

// Read returns the next row, io.EOF at end of file
func (r *Reader) Read() (Row, error) {
	record, err := r.csv.Read()
	if err != nil {
		return Row{}, err
	}
	return Row{headers: r.headers, index: r.index, values: record}, nil
}

// ReadAll drains the remaining rows
func (r *Reader) ReadAll() ([]Row, error) {
	var rows []Row
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// Resolve tries each alias in order, matching headers
// case-insensitively, and returns the first non-empty trimmed value.
// Missing headers are not an error, just an empty result.
func (row Row) Resolve(aliases ...string) string {
	for _, alias := range aliases {
		if v := row.get(alias); v != "" {
			return v
		}
	}
	return ""
}

func (row Row) get(header string) string {
	i, ok := row.index[strings.ToLower(header)]
	if !ok || i >= len(row.values) {
		return ""
	}
	return strings.TrimSpace(row.values[i])
}
