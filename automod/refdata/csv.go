package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row of a two-column mapping file, in file order.
type Pair struct {
	Key   string
	Value string
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

func readHeader(cr *csv.Reader) ([]string, error) {
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file, expected a header row")
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("missing column %q (have %s)", name, strings.Join(header, ", "))
}

func cell(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// Reads one named column from a CSV with a header row. Blank cells are dropped; duplicates are kept (callers dedupe).
func ReadColumn(r io.Reader, column string) ([]string, error) {
	cr := newReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	idx, err := columnIndex(header, column)
	if err != nil {
		return nil, err
	}

	var out []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if v := cell(rec, idx); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// Reads a key/value pair of columns. Rows with a blank key or value are dropped. Duplicate keys (case-insensitive)
// keep the first row.
func ReadMapping(r io.Reader, keyColumn, valueColumn string) ([]Pair, error) {
	cr := newReader(r)
	header, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	kidx, err := columnIndex(header, keyColumn)
	if err != nil {
		return nil, err
	}
	vidx, err := columnIndex(header, valueColumn)
	if err != nil {
		return nil, err
	}

	var out []Pair
	seen := make(map[string]bool)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		k, v := cell(rec, kidx), cell(rec, vidx)
		if k == "" || v == "" {
			continue
		}
		folded := strings.ToLower(k)
		if seen[folded] {
			continue
		}
		seen[folded] = true
		out = append(out, Pair{Key: k, Value: v})
	}
	return out, nil
}

// File variant of [ReadColumn]; all failures are a [*ConfigError].
func LoadColumn(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()
	vals, err := ReadColumn(f, column)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return vals, nil
}

// File variant of [ReadMapping]; all failures are a [*ConfigError].
func LoadMapping(path, keyColumn, valueColumn string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()
	pairs, err := ReadMapping(f, keyColumn, valueColumn)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return pairs, nil
}
