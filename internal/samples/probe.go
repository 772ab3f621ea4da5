package samples

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/wav"
)

var ErrInvalidWAV = errors.New("samples: not a valid wav file")

// Info describes a sample file.
type Info struct {
	Path       string
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Probe checks that path exists and, for .wav files, that the header is valid and the data is
// not empty. Other formats are only checked for existence and non-zero size; raylib decodes them.
func Probe(path string) (Info, error) {
	info := Info{Path: path}
	st, err := os.Stat(path)
	if err != nil {
		return info, err
	}
	if st.IsDir() || st.Size() == 0 {
		return info, fmt.Errorf("samples: %s is empty", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return info, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return info, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	info.SampleRate = int(dec.SampleRate)
	info.Channels = int(dec.NumChans)
	info.BitDepth = int(dec.BitDepth)
	d, err := dec.Duration()
	if err != nil {
		return info, fmt.Errorf("samples: %s: %w", path, err)
	}
	if d <= 0 {
		return info, fmt.Errorf("samples: %s has no audio data", path)
	}
	info.Duration = d
	return info, nil
}
