package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"piano3d/internal/app"
	"piano3d/internal/config"
	"piano3d/internal/env"
	"piano3d/internal/logger"
	"piano3d/internal/prefs"
)

var (
	configPath string
	prefsPath  string
	envPath    string
	overrides  config.Overrides
)

func main() {
	cmd := &cobra.Command{
		Use:   "piano",
		Short: "3D piano viewer",
		Long: `piano - 3D piano viewer

Loads a glTF/GLB piano model and plays it from the computer keyboard (or a MIDI keyboard).

Controls:
  q w e r t y u i o p l k j h   white keys
  1 2 3 4 5 6 7 8 9 0           black keys
  Left drag                     Orbit
  Right drag                    Pan
  Scroll                        Zoom
  F1 / Esc                      Toggle / close the log overlay
  F2 F3 F4                      FPS, memory, pressed keys
  G                             Floor grid`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config")
	cmd.PersistentFlags().StringVar(&envPath, "env", ".env", "Path to a dotenv file (missing is fine)")
	cmd.PersistentFlags().StringVar(&overrides.Model, "model", "", "Piano model (.glb/.gltf), overrides config")
	cmd.PersistentFlags().StringVar(&overrides.AudioDir, "audio-dir", "", "Directory holding one clip per key node")
	cmd.Flags().StringVar(&prefsPath, "prefs", prefs.DefaultPath, "Path to the viewer prefs (JSON)")
	cmd.Flags().IntVar(&overrides.FPS, "fps", 0, "Target FPS, overrides config")

	cmd.AddCommand(newInfoCmd(), newSamplesCmd())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies, in order: config file over defaults, .env + PIANO_* environment, flags.
func loadConfig() (config.Config, error) {
	if _, err := env.Load(envPath); err != nil {
		return config.Config{}, fmt.Errorf("env: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Apply(config.FromEnv()); err != nil {
		return cfg, fmt.Errorf("config: env overrides: %w", err)
	}
	if err := cfg.Apply(overrides); err != nil {
		return cfg, fmt.Errorf("config: flag overrides: %w", err)
	}
	return cfg, cfg.Validate()
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogFile)
	a, err := app.New(cfg, log, prefsPath)
	if err != nil {
		log.Error("startup failed", "err", err)
		return err
	}
	return a.Run()
}
