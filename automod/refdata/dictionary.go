package refdata

import (
	"strings"
)

// Ordered set of case-folded strings.
type Dictionary struct {
	entries []string
	set     map[string]struct{}
}

// Lower-cases and trims values, dropping blanks and later duplicates.
func NewDictionary(vals []string) *Dictionary {
	d := &Dictionary{set: make(map[string]struct{}, len(vals))}
	for _, v := range vals {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := d.set[v]; ok {
			continue
		}
		d.set[v] = struct{}{}
		d.entries = append(d.entries, v)
	}
	return d
}

func (d *Dictionary) Has(v string) bool {
	if d == nil {
		return false
	}
	_, ok := d.set[strings.ToLower(v)]
	return ok
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

func (d *Dictionary) Entries() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.entries))
	copy(out, d.entries)
	return out
}

// First entry (in load order) that occurs anywhere in the text, compared case-insensitively as plain substrings.
func (d *Dictionary) FirstSubstring(text string) (string, bool) {
	if d == nil {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, e := range d.entries {
		if strings.Contains(lower, e) {
			return e, true
		}
	}
	return "", false
}

// A news domain and the label naming its outlet.
type NewsSource struct {
	Domain string
	Source string
}

// Domain to source-name map which remembers load order; attribution picks the earliest-loaded domain found in the
// text, not the earliest occurrence in the text.
type NewsDomainMap struct {
	entries []NewsSource
	index   map[string]int
}

// Domains are case-folded. A repeated domain keeps its first source.
func NewNewsDomainMap(pairs []Pair) *NewsDomainMap {
	m := &NewsDomainMap{index: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		domain := strings.ToLower(strings.TrimSpace(p.Key))
		source := strings.TrimSpace(p.Value)
		if domain == "" || source == "" {
			continue
		}
		if _, ok := m.index[domain]; ok {
			continue
		}
		m.index[domain] = len(m.entries)
		m.entries = append(m.entries, NewsSource{Domain: domain, Source: source})
	}
	return m
}

func (m *NewsDomainMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

func (m *NewsDomainMap) Entries() []NewsSource {
	if m == nil {
		return nil
	}
	out := make([]NewsSource, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *NewsDomainMap) Lookup(domain string) (string, bool) {
	if m == nil {
		return "", false
	}
	idx, ok := m.index[strings.ToLower(domain)]
	if !ok {
		return "", false
	}
	return m.entries[idx].Source, true
}

// First configured domain contained in the text.
func (m *NewsDomainMap) Attribute(text string) (NewsSource, bool) {
	if m == nil {
		return NewsSource{}, false
	}
	lower := strings.ToLower(text)
	for _, e := range m.entries {
		if strings.Contains(lower, e.Domain) {
			return e, true
		}
	}
	return NewsSource{}, false
}
