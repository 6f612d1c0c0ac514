package evaluate

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/RachMink/cs5342-spring2025-team7/automod/engine"
)

// Accumulates batch results against expectations. Safe for concurrent use.
type Tally struct {
	mu sync.Mutex

	total   int
	correct int
	skipped int
	// labels produced on posts whose label set did not match
	mismatched map[string]int
	// labels expected but not produced
	missed      map[string]int
	skipReasons map[string]int
}

func NewTally() *Tally {
	return &Tally{
		mismatched:  make(map[string]int),
		missed:      make(map[string]int),
		skipReasons: make(map[string]int),
	}
}

// Records one result. A post is correct when its label set equals the expected set exactly; skipped posts are never correct.
func (t *Tally) Add(res engine.Result, expected engine.LabelSet) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	if !res.Labeled() {
		t.skipped++
		t.skipReasons[res.SkipReason]++
		return false
	}
	if res.Labels.Equal(expected) {
		t.correct++
		return true
	}
	for v := range res.Labels {
		t.mismatched[v]++
	}
	for v := range expected {
		if !res.Labels.Has(v) {
			t.missed[v]++
		}
	}
	return false
}

type Summary struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Labeled int `json:"labeled"`
	Skipped int `json:"skipped"`
	// correct over total
	Ratio float64 `json:"ratio"`
	// correct over labeled (skipped posts excluded)
	Precision   float64        `json:"precision"`
	Mismatched  map[string]int `json:"mismatched"`
	Missed      map[string]int `json:"missed"`
	SkipReasons map[string]int `json:"skip_reasons"`
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t *Tally) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{
		Total:       t.total,
		Correct:     t.correct,
		Labeled:     t.total - t.skipped,
		Skipped:     t.skipped,
		Mismatched:  copyCounts(t.mismatched),
		Missed:      copyCounts(t.missed),
		SkipReasons: copyCounts(t.skipReasons),
	}
	if s.Total > 0 {
		s.Ratio = float64(s.Correct) / float64(s.Total)
	}
	if s.Labeled > 0 {
		s.Precision = float64(s.Correct) / float64(s.Labeled)
	}
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Human-readable report, one fact per line.
func (s Summary) WriteText(w io.Writer) error {
	lines := []string{
		fmt.Sprintf("The labeler produced %d correct label assignments out of %d", s.Correct, s.Total),
		fmt.Sprintf("Overall ratio of correct label assignments %.4f", s.Ratio),
		fmt.Sprintf("Precision over labeled posts %.4f (%d labeled, %d skipped)", s.Precision, s.Labeled, s.Skipped),
	}
	for _, k := range sortedKeys(s.SkipReasons) {
		lines = append(lines, fmt.Sprintf("skipped %q: %d", k, s.SkipReasons[k]))
	}
	for _, k := range sortedKeys(s.Mismatched) {
		lines = append(lines, fmt.Sprintf("produced on mismatch %q: %d", k, s.Mismatched[k]))
	}
	for _, k := range sortedKeys(s.Missed) {
		lines = append(lines, fmt.Sprintf("missed %q: %d", k, s.Missed[k]))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func (s Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
