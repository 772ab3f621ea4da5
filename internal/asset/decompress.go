package asset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Decompressor runs an external tool that rewrites a Draco-compressed glTF file as plain
// geometry, since raylib's loader cannot decode Draco itself. Command is an argv template;
// "{in}" and "{out}" are replaced with the source and destination paths, for example
// ["node", "tools/undraco.js", "{in}", "{out}"]. It is configured once at startup.
type Decompressor struct {
	Command  []string
	CacheDir string
}

// Enabled reports whether a decompression command is configured.
func (d Decompressor) Enabled() bool {
	return len(d.Command) > 0
}

// Load opens path and, when the document is compressed and a command is configured, writes a
// decompressed copy to CacheDir and returns the manifest of that copy. Manifest.Path always
// names the file raylib should load.
func (d Decompressor) Load(ctx context.Context, path string) (*Manifest, error) {
	m, err := Open(path)
	if err == nil || !errors.Is(err, ErrCompressedGeometry) || !d.Enabled() {
		return m, err
	}
	out, err := d.run(ctx, path)
	if err != nil {
		return nil, err
	}
	m, err = Open(out)
	if errors.Is(err, ErrCompressedGeometry) {
		return nil, fmt.Errorf("asset: %s is still compressed after running %s", out, d.Command[0])
	}
	return m, err
}

func (d Decompressor) run(ctx context.Context, in string) (string, error) {
	dir := d.CacheDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("asset: decompress: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	out := filepath.Join(dir, base+".plain"+filepath.Ext(in))

	args := make([]string, len(d.Command))
	for i, a := range d.Command {
		a = strings.ReplaceAll(a, "{in}", in)
		args[i] = strings.ReplaceAll(a, "{out}", out)
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("asset: decompress %s: %w: %s", in, err, strings.TrimSpace(string(output)))
	}
	return out, nil
}
