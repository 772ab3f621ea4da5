package env

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `# piano overrides
PIANO_MODEL=models/upright.glb
export PIANO_AUDIO_DIR="assets/my notes"
PIANO_AUDIO_EXT=wav # trailing comment
PIANO_LOG='logs/x.txt'
not a pair
=missing
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("PIANO_LOG", "from-shell")
	t.Setenv("PIANO_MODEL", "")
	os.Unsetenv("PIANO_MODEL")
	t.Setenv("PIANO_AUDIO_DIR", "")
	os.Unsetenv("PIANO_AUDIO_DIR")
	t.Setenv("PIANO_AUDIO_EXT", "")
	os.Unsetenv("PIANO_AUDIO_EXT")

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"PIANO_MODEL", "PIANO_AUDIO_DIR", "PIANO_AUDIO_EXT"}
	if !slices.Equal(set, want) {
		t.Fatalf("set mismatch: got=%v want=%v", set, want)
	}
	checks := map[string]string{
		"PIANO_MODEL":     "models/upright.glb",
		"PIANO_AUDIO_DIR": "assets/my notes",
		"PIANO_AUDIO_EXT": "wav",
		"PIANO_LOG":       "from-shell",
	}
	for k, v := range checks {
		if got := os.Getenv(k); got != v {
			t.Fatalf("%s mismatch: got=%q want=%q", k, got, v)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	set, err := Load(filepath.Join(t.TempDir(), ".env"))
	if err != nil || set != nil {
		t.Fatalf("missing file should be ignored: %v %v", set, err)
	}
}
