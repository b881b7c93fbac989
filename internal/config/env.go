package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Paths holds the file locations used by the CLI.
type Paths struct {
	ConfigPath string `env:"PHRASEBOOK_CONFIG"`
	DBPath     string `env:"PHRASEBOOK_DB"`
	AudioDir   string `env:"PHRASEBOOK_AUDIO_DIR"`
}

// LoadPaths returns XDG defaults overridden by environment variables.
func LoadPaths() (Paths, error) {
	var env Paths
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Paths{}, fmt.Errorf("config: read env: %w", err)
	}
	paths := Paths{
		ConfigPath: DefaultConfigPath(),
		DBPath:     DefaultDBPath(),
		AudioDir:   DefaultAudioDir(),
	}
	if env.ConfigPath != "" {
		paths.ConfigPath = env.ConfigPath
	}
	if env.DBPath != "" {
		paths.DBPath = env.DBPath
	}
	if env.AudioDir != "" {
		paths.AudioDir = env.AudioDir
	}
	return paths, nil
}
