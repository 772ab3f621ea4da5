package keys

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyKey     = errors.New("keys: empty key label")
	ErrDuplicateKey = errors.New("keys: duplicate key label")
	ErrUnknownKey   = errors.New("keys: no key code for label")
)

// DefaultLabels is the two-row layout: fourteen letters for the white keys, then the number row
// for the black keys.
var DefaultLabels = []string{
	"q", "w", "e", "r", "t", "y", "u", "i", "o", "p", "l", "k", "j", "h",
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "0",
}

// Registry is the fixed, ordered list of physical keys. A key's position in the list is its
// registry index, shared by the key node, its audio clip and the input lookup.
// A Registry is never mutated after New returns, so it can be read from any goroutine.
type Registry struct {
	labels []string
	codes  []int32
	index  map[string]int
	byCode map[int32]int
}

// New builds a registry from labels. Labels are case-insensitive and stored lower-case.
func New(labels []string) (*Registry, error) {
	r := &Registry{
		labels: make([]string, 0, len(labels)),
		codes:  make([]int32, 0, len(labels)),
		index:  make(map[string]int, len(labels)),
		byCode: make(map[int32]int, len(labels)),
	}
	for i, raw := range labels {
		label := strings.ToLower(strings.TrimSpace(raw))
		if label == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyKey, i)
		}
		if prev, ok := r.index[label]; ok {
			return nil, fmt.Errorf("%w %q at positions %d and %d", ErrDuplicateKey, label, prev, i)
		}
		code, ok := CodeFor(label)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownKey, label)
		}
		r.index[label] = i
		r.byCode[code] = i
		r.labels = append(r.labels, label)
		r.codes = append(r.codes, code)
	}
	return r, nil
}

// Default returns the registry for DefaultLabels.
func Default() *Registry {
	r, err := New(DefaultLabels)
	if err != nil {
		panic(err)
	}
	return r
}

// IndexOf returns the registry index of label, or false when the key is not registered.
func (r *Registry) IndexOf(label string) (int, bool) {
	i, ok := r.index[strings.ToLower(label)]
	return i, ok
}

// Lookup returns the registry index bound to a raylib key code.
func (r *Registry) Lookup(code int32) (int, bool) {
	i, ok := r.byCode[code]
	return i, ok
}

// Label returns the label at index i.
func (r *Registry) Label(i int) string {
	return r.labels[i]
}

// Code returns the raylib key code at index i.
func (r *Registry) Code(i int) int32 {
	return r.codes[i]
}

func (r *Registry) Len() int {
	return len(r.labels)
}

// Labels returns a copy of the ordered labels.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}
