package voiceprint

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Entry pairs a speaker name with their reference embedding.
type Entry struct {
	Name      string    `json:"name"`
	Embedding []float64 `json:"embedding"`
}

// Library is an immutable, ordered collection of reference voiceprints.
// Entry order is fixed at construction and defines iteration order for
// similarity scans, which keeps identification deterministic.
type Library struct {
	entries []Entry
	index   map[string]int
}

// New builds a library from entries, preserving their order. Entries with an
// empty name or embedding are dropped.
func New(entries []Entry) *Library {
	lib := &Library{index: make(map[string]int, len(entries))}
	for _, entry := range entries {
		if entry.Name == "" || len(entry.Embedding) == 0 {
			continue
		}
		if _, exists := lib.index[entry.Name]; exists {
			continue
		}
		lib.index[entry.Name] = len(lib.entries)
		lib.entries = append(lib.entries, entry)
	}
	return lib
}

// LoadFile reads a voiceprint library from a JSON file mapping speaker names
// to embedding vectors. Names are ordered alphabetically so the library is
// identical across runs regardless of file key order. An unreadable or
// empty library is fatal to the run.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read voiceprint library: %w", err)
	}

	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse voiceprint library: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Name: name, Embedding: raw[name]})
	}

	lib := New(entries)
	if lib.Len() == 0 {
		return nil, fmt.Errorf("voiceprint library %s contains no usable entries", path)
	}
	return lib, nil
}

// Entries returns the library contents in construction order. Callers must
// not mutate the returned slice.
func (l *Library) Entries() []Entry {
	return l.entries
}

// Len returns the number of voiceprints.
func (l *Library) Len() int {
	return len(l.entries)
}

// Names returns the speaker names in construction order.
func (l *Library) Names() []string {
	names := make([]string, len(l.entries))
	for i, entry := range l.entries {
		names[i] = entry.Name
	}
	return names
}

// Get returns the embedding for one speaker.
func (l *Library) Get(name string) ([]float64, bool) {
	i, ok := l.index[name]
	if !ok {
		return nil, false
	}
	return l.entries[i].Embedding, true
}

// FilterByRoster narrows the library to the given roster names, always
// retaining the judge when present. If no roster name has a voiceprint the
// full library is returned instead with fellBack set, so a roster mismatch
// degrades rather than failing the run.
func (l *Library) FilterByRoster(names []string, judge string) (filtered *Library, fellBack bool) {
	wanted := make(map[string]bool, len(names)+1)
	for _, name := range names {
		wanted[name] = true
	}
	wanted[judge] = true

	kept := make([]Entry, 0, len(names)+1)
	for _, entry := range l.entries {
		if wanted[entry.Name] {
			kept = append(kept, entry)
		}
	}

	if len(kept) == 0 {
		return l, true
	}
	return New(kept), false
}

// Missing returns the roster names that have no voiceprint, sorted.
func (l *Library) Missing(names []string) []string {
	var missing []string
	for _, name := range names {
		if _, ok := l.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
