package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"piano3d/internal/asset"
	"piano3d/internal/samples"
)

func newSamplesCmd() *cobra.Command {
	var (
		force   bool
		seconds float64
		rate    int
	)
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Write a placeholder .wav clip for every key of the model",
		Long: `Synthesize one decaying tone per key node, at the pitch the key plays over MIDI, into
<audio-dir>/<nodeName>.wav. Existing files are kept unless --force is given.
Set audio_ext: wav in the config (or PIANO_AUDIO_EXT=wav) to play them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, layout, _, err := classify(cmd.Context(), cfg, cfg.Model)
			if err != nil {
				return err
			}
			var written, kept int
			for _, k := range layout.Keys {
				path := asset.ClipPath(cfg.AudioDir, k.Node.Name, "wav")
				if !force {
					if _, err := os.Stat(path); err == nil {
						kept++
						continue
					} else if !errors.Is(err, os.ErrNotExist) {
						return err
					}
				}
				freq := samples.NoteFrequency(k.Note(cfg.MIDI.BaseNote))
				if err := samples.WriteWAV(path, samples.Render(freq, seconds, rate), rate); err != nil {
					return err
				}
				written++
			}
			fmt.Printf("%d written, %d kept in %s\n", written, kept, cfg.AudioDir)
			if !strings.EqualFold(strings.TrimPrefix(cfg.AudioExt, "."), "wav") {
				fmt.Printf("note: audio_ext is %q; set it to wav to use these clips\n", cfg.AudioExt)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing clips")
	cmd.Flags().Float64Var(&seconds, "seconds", 2, "Clip length in seconds")
	cmd.Flags().IntVar(&rate, "rate", samples.DefaultSampleRate, "Sample rate in Hz")
	return cmd
}
