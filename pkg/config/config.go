package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
)

// Config is operator supplied deployment configuration. The avatar
// catalog maps avatar IDs to the base video each was trained on; the
// filler clip is cut from that base video.
type Config struct {
	// Avatars maps avatar ID to the path (or URL) of its base video.
	Avatars map[string]string `yaml:"avatars"`

	// DefaultBaseVideo is used for avatars missing from the catalog.
	DefaultBaseVideo string `yaml:"default_base_video"`

	// ScratchDir is where pipeline runs keep their working files.
	ScratchDir string `yaml:"scratch_dir"`

	// PollIntervalSeconds is the wait between render status polls.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`

	// MaxPollAttempts caps render polling before the run fails.
	MaxPollAttempts int `yaml:"max_poll_attempts"`

	// FillerSegmentSeconds is the length of the cut taken from the
	// avatar's base video; FillerLoopCount is how many times it's looped.
	FillerSegmentSeconds int `yaml:"filler_segment_seconds"`
	FillerLoopCount      int `yaml:"filler_loop_count"`
}

// Load reads config from a yaml file. An empty path yields defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Avatars == nil {
		c.Avatars = map[string]string{}
	}
	if c.ScratchDir == "" {
		c.ScratchDir = os.TempDir()
	}
}

// BaseVideo resolves the base video for an avatar, falling back to the
// default. An unresolvable avatar is an argument error.
func (c *Config) BaseVideo(avatarID string) (string, error) {
	if path, ok := c.Avatars[avatarID]; ok && path != "" {
		return path, nil
	}
	if c.DefaultBaseVideo != "" {
		return c.DefaultBaseVideo, nil
	}
	return "", fmt.Errorf("%w: no base video for avatar %s", errors.ErrInvalidArg, avatarID)
}
