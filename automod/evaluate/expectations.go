package evaluate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
)

// A post URL and the labels a correct run should produce for it.
type Expectation struct {
	URL    string
	Labels engine.LabelSet
}

// Reads expectations from CSV, in file order. Rows with a blank URL are skipped.
func ReadExpectations(r io.Reader) ([]Expectation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty expectations file")
	}
	urlCol, labelCol := -1, -1
	for i, h := range rows[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		switch {
		case strings.EqualFold(h, "url"):
			urlCol = i
		case strings.EqualFold(h, "labels"):
			labelCol = i
		}
	}
	if urlCol < 0 || labelCol < 0 {
		return nil, errors.New("expectations CSV must have 'URL' and 'Labels' header columns")
	}

	var out []Expectation
	for n, row := range rows[1:] {
		if urlCol >= len(row) || strings.TrimSpace(row[urlCol]) == "" {
			continue
		}
		raw := ""
		if labelCol < len(row) {
			raw = row[labelCol]
		}
		labels, err := ParseLabelList(raw)
		if err != nil {
			// header is line 1
			return nil, fmt.Errorf("line %d: %w", n+2, err)
		}
		out = append(out, Expectation{
			URL:    strings.TrimSpace(row[urlCol]),
			Labels: engine.NewLabelSet(labels...),
		})
	}
	return out, nil
}

func LoadExpectations(path string) ([]Expectation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := ReadExpectations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Parses a list literal of quoted strings: `[]`, `['a']`, `["a", 'b c']`. A blank cell is an empty list.
func ParseLabelList(raw string) ([]string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("label list must be bracketed: %q", raw)
	}
	s = s[1 : len(s)-1]

	var out []string
	i := 0
	for {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i >= len(s) {
			return out, nil
		}
		quote := s[i]
		if quote != '\'' && quote != '"' {
			return nil, fmt.Errorf("label must be quoted at offset %d: %q", i+1, raw)
		}
		i++
		var sb strings.Builder
		closed := false
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				sb.WriteByte(s[i+1])
				i += 2
				continue
			}
			i++
			if c == quote {
				closed = true
				break
			}
			sb.WriteByte(c)
		}
		if !closed {
			return nil, fmt.Errorf("unterminated label: %q", raw)
		}
		out = append(out, sb.String())
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i >= len(s) {
			return out, nil
		}
		if s[i] != ',' {
			return nil, fmt.Errorf("expected ',' at offset %d: %q", i+1, raw)
		}
		i++
	}
}

// Formats labels in the same list-literal syntax ParseLabelList reads.
func FormatLabelList(labels []string) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = "'" + strings.ReplaceAll(strings.ReplaceAll(l, `\`, `\\`), "'", `\'`) + "'"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
