package asset

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrBadKeyName         = errors.New("asset: key node name does not follow the naming convention")
	ErrDuplicateKeyNumber = errors.New("asset: two key nodes share a number")
	ErrKeyCountMismatch   = errors.New("asset: key node count does not match the key registry")
)

// Kind is the classification of a top-level node, decided once at load time.
type Kind int

const (
	Structural Kind = iota
	WhiteKey
	BlackKey
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case WhiteKey:
		return "white"
	case BlackKey:
		return "black"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Options control how node names are read.
// Prefix is the key naming convention ("pianoNote" matches pianoNote7, pianoNote12_black).
// WhiteKeys is the positional split used when a name carries no _white/_black tag.
// Expected, when non-zero, is the registry size the key count must match.
type Options struct {
	Prefix    string
	WhiteKeys int
	Expected  int
	AudioDir  string
	AudioExt  string
}

// Key is one classified key node. Index is its registry index; Ordinal is its position among
// keys of the same color.
type Key struct {
	Index   int
	Number  int
	Ordinal int
	Kind    Kind
	Node    Node
	Clip    string
}

// Layout is the tagged result of Classify.
type Layout struct {
	Structural []Node
	Keys       []Key
}

// Owner says who draws a mesh: a structural node (Key == -1) or the key at index Key.
type Owner struct {
	Kind Kind
	Key  int
}

// Classify splits nodes into structural pieces and keys, orders the keys by the number in their
// name and assigns each a color class and clip path.
func Classify(nodes []Node, opts Options) (*Layout, error) {
	if opts.Prefix == "" {
		opts.Prefix = "pianoNote"
	}
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(opts.Prefix) + `(\d+)(?:_(white|black))?$`)

	type tagged struct {
		key Key
		tag string
	}
	l := &Layout{}
	var found []tagged
	numbers := make(map[int]string)
	for _, n := range nodes {
		if !strings.HasPrefix(n.Name, opts.Prefix) {
			l.Structural = append(l.Structural, n)
			continue
		}
		sub := pattern.FindStringSubmatch(n.Name)
		if sub == nil {
			return nil, fmt.Errorf("%w: %q (want %s<number>[_white|_black])", ErrBadKeyName, n.Name, opts.Prefix)
		}
		num, err := strconv.Atoi(sub[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadKeyName, n.Name, err)
		}
		if other, dup := numbers[num]; dup {
			return nil, fmt.Errorf("%w: %q and %q", ErrDuplicateKeyNumber, other, n.Name)
		}
		numbers[num] = n.Name
		found = append(found, tagged{key: Key{Number: num, Node: n}, tag: sub[2]})
	}

	if opts.Expected > 0 && len(found) != opts.Expected {
		return nil, fmt.Errorf("%w: asset has %d, registry has %d", ErrKeyCountMismatch, len(found), opts.Expected)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].key.Number < found[j].key.Number })

	var white, black int
	for i, f := range found {
		k := f.key
		k.Index = i
		switch {
		case f.tag == "white":
			k.Kind = WhiteKey
		case f.tag == "black":
			k.Kind = BlackKey
		case i < opts.WhiteKeys:
			k.Kind = WhiteKey
		default:
			k.Kind = BlackKey
		}
		if k.Kind == WhiteKey {
			k.Ordinal = white
			white++
		} else {
			k.Ordinal = black
			black++
		}
		k.Clip = ClipPath(opts.AudioDir, k.Node.Name, opts.AudioExt)
		l.Keys = append(l.Keys, k)
	}
	return l, nil
}

// ClipPath derives a key's audio file: <dir>/<nodeName>.<ext>.
func ClipPath(dir, nodeName, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp3"
	}
	return filepath.Join(dir, nodeName+"."+ext)
}

// Owners maps every mesh index in [0, meshCount) to the node that draws it. Meshes that belong
// to no top-level node stay structural with Key -1.
func (l *Layout) Owners(meshCount int) []Owner {
	out := make([]Owner, meshCount)
	for i := range out {
		out[i] = Owner{Kind: Structural, Key: -1}
	}
	for _, k := range l.Keys {
		for _, m := range k.Node.Meshes {
			if m >= 0 && m < meshCount {
				out[m] = Owner{Kind: k.Kind, Key: k.Index}
			}
		}
	}
	return out
}

// Counts returns the number of white and black keys.
func (l *Layout) Counts() (white, black int) {
	for _, k := range l.Keys {
		if k.Kind == WhiteKey {
			white++
		} else {
			black++
		}
	}
	return white, black
}

var (
	naturalSteps = [7]int{0, 2, 4, 5, 7, 9, 11}
	sharpSteps   = [5]int{1, 3, 6, 8, 10}
)

// Note returns the MIDI note a key plays when white keys are the naturals upward from base (a C)
// and black keys are the sharps of the same octaves, in order.
func (k Key) Note(base int) int {
	if k.Kind == BlackKey {
		return base + 12*(k.Ordinal/5) + sharpSteps[k.Ordinal%5]
	}
	return base + 12*(k.Ordinal/7) + naturalSteps[k.Ordinal%7]
}

// KeyForNote is the inverse of Key.Note over the layout's keys.
func (l *Layout) KeyForNote(note, base int) (int, bool) {
	for _, k := range l.Keys {
		if k.Kind != Structural && k.Note(base) == note {
			return k.Index, true
		}
	}
	return -1, false
}
