package evaluate

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
)

// One line of analytics output.
type ResultRecord struct {
	engine.Result
	// Present whenever the URL has an expectation, including an expected empty set
	Expected *engine.LabelSet `json:"expected,omitempty"`
	Correct  *bool           `json:"correct,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Engine observer which writes each result as a line of JSON.
type NDJSONWriter struct {
	mu  sync.Mutex
	enc *json.Encoder
	// Optional expected labels by URL; when present, each line carries the expectation and whether it was met
	Expected map[string]engine.LabelSet
	Logger   *slog.Logger
}

var _ engine.Observer = (*NDJSONWriter)(nil)

func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{
		enc:    json.NewEncoder(w),
		Logger: slog.Default(),
	}
}

func (n *NDJSONWriter) Observe(res engine.Result) {
	rec := ResultRecord{Result: res}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	if exp, ok := n.Expected[res.URL]; ok {
		rec.Expected = &exp
		correct := res.Labeled() && res.Labels.Equal(exp)
		rec.Correct = &correct
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.enc.Encode(rec); err != nil {
		n.Logger.Error("failed to write result record", "url", res.URL, "err", err)
	}
}

// Index of expectations by URL, for NDJSONWriter.Expected.
func ExpectationIndex(exps []Expectation) map[string]engine.LabelSet {
	out := make(map[string]engine.LabelSet, len(exps))
	for _, e := range exps {
		out[e.URL] = e.Labels
	}
	return out
}
