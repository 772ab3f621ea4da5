package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"piano3d/internal/asset"
	"piano3d/internal/config"
	"piano3d/internal/keys"
	"piano3d/internal/samples"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [model.glb]",
		Short: "Display how a model's nodes map to keys",
		Long:  "Classify the model's top-level nodes the way the viewer does and print each key's label, color, MIDI note and clip status. Defaults to the configured model.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := cfg.Model
			if len(args) == 1 {
				path = args[0]
			}
			return runInfo(cmd.Context(), cfg, path)
		},
	}
}

// classify loads and classifies path with the config's key settings.
func classify(ctx context.Context, cfg config.Config, path string) (*asset.Manifest, *asset.Layout, *keys.Registry, error) {
	reg, err := keys.New(cfg.Keys)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("keys: %w", err)
	}
	dec := asset.Decompressor{Command: cfg.Decoder.Command, CacheDir: cfg.Decoder.CacheDir}
	m, err := dec.Load(ctx, path)
	if err != nil {
		return nil, nil, nil, err
	}
	layout, err := asset.Classify(m.Nodes, asset.Options{
		Prefix:    cfg.KeyPrefix,
		WhiteKeys: cfg.WhiteKeys,
		Expected:  reg.Len(),
		AudioDir:  cfg.AudioDir,
		AudioExt:  cfg.AudioExt,
	})
	if err != nil {
		return m, nil, reg, fmt.Errorf("%s: %w", path, err)
	}
	return m, layout, reg, nil
}

func runInfo(ctx context.Context, cfg config.Config, path string) error {
	m, layout, reg, err := classify(ctx, cfg, path)
	if err != nil {
		return err
	}
	white, black := layout.Counts()
	fmt.Printf("File:        %s\n", m.Path)
	fmt.Printf("Meshes:      %d\n", m.MeshCount)
	fmt.Printf("Structural:  %d\n", len(layout.Structural))
	fmt.Printf("Keys:        %d (%d white, %d black)\n", len(layout.Keys), white, black)
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tLABEL\tNODE\tKIND\tNOTE\tMESHES\tCLIP")
	for _, k := range layout.Keys {
		clip := "ok"
		if _, err := samples.Probe(k.Clip); err != nil {
			clip = "missing"
		}
		note := k.Note(cfg.MIDI.BaseNote)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s (%d)\t%d\t%s %s\n",
			k.Index, reg.Label(k.Index), k.Node.Name, k.Kind, samples.NoteName(note), note,
			len(k.Node.Meshes), k.Clip, clip)
	}
	return tw.Flush()
}
