package keys

import (
	"errors"
	"testing"
)

func TestDefaultRegistryIndicesUniqueAndStable(t *testing.T) {
	r := Default()
	if r.Len() != 24 {
		t.Fatalf("len mismatch: got=%d want=24", r.Len())
	}
	seen := make(map[int]string)
	for _, label := range DefaultLabels {
		i, ok := r.IndexOf(label)
		if !ok {
			t.Fatalf("label %q not found", label)
		}
		if i < 0 || i >= 24 {
			t.Fatalf("index out of range for %q: %d", label, i)
		}
		if prev, dup := seen[i]; dup {
			t.Fatalf("index %d shared by %q and %q", i, prev, label)
		}
		seen[i] = label
		for n := 0; n < 3; n++ {
			again, _ := r.IndexOf(label)
			if again != i {
				t.Fatalf("unstable index for %q: got=%d want=%d", label, again, i)
			}
		}
	}
}

func TestIndexOfUnknownKey(t *testing.T) {
	r := Default()
	for _, label := range []string{"z", "x", "", "F1"} {
		if i, ok := r.IndexOf(label); ok {
			t.Fatalf("expected %q to be unregistered, got index %d", label, i)
		}
	}
}

func TestIndexOfIsCaseInsensitive(t *testing.T) {
	r := Default()
	lower, _ := r.IndexOf("q")
	upper, ok := r.IndexOf("Q")
	if !ok || upper != lower {
		t.Fatalf("case mismatch: got=%d,%v want=%d", upper, ok, lower)
	}
}

func TestLookupByCode(t *testing.T) {
	r := Default()
	cases := []struct {
		code int32
		want int
	}{
		{81, 0},  // Q
		{72, 13}, // H
		{49, 14}, // 1
		{48, 23}, // 0
	}
	for _, tc := range cases {
		got, ok := r.Lookup(tc.code)
		if !ok || got != tc.want {
			t.Fatalf("code %d: got=%d,%v want=%d", tc.code, got, ok, tc.want)
		}
		if r.Code(got) != tc.code {
			t.Fatalf("code round trip mismatch: got=%d want=%d", r.Code(got), tc.code)
		}
	}
	if _, ok := r.Lookup(90); ok {
		t.Fatalf("expected Z to be unbound")
	}
}

func TestNewRejectsBadLabels(t *testing.T) {
	cases := []struct {
		name   string
		labels []string
		want   error
	}{
		{"empty", []string{"a", " "}, ErrEmptyKey},
		{"duplicate", []string{"a", "b", "A"}, ErrDuplicateKey},
		{"unknown", []string{"a", "f13"}, ErrUnknownKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.labels); !errors.Is(err, tc.want) {
				t.Fatalf("error mismatch: got=%v want=%v", err, tc.want)
			}
		})
	}
}

func TestLabelsReturnsCopy(t *testing.T) {
	r := Default()
	labels := r.Labels()
	labels[0] = "changed"
	if r.Label(0) != "q" {
		t.Fatalf("registry mutated through Labels: %q", r.Label(0))
	}
}
