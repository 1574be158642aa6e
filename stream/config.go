package stream

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-g-everett/ledreel/playback"
	"gopkg.in/yaml.v2"
)

// Config is the top level YAML configuration.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		Topics   struct {
			Stream  string `yaml:"stream"`
			Control string `yaml:"control"`
			Status  string `yaml:"status"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Stream struct {
		FrameRate      float64 `yaml:"frameRate"`
		Pixels         int     `yaml:"pixels"`
		CycleSecs      float64 `yaml:"cycleSecs"`
		TransitionSecs float64 `yaml:"transitionSecs"`
	} `yaml:"stream"`
	Animations []AnimationConfig `yaml:"animations"`
	API        struct {
		Addr      string `yaml:"addr"`
		StaticDir string `yaml:"staticDir"`
	} `yaml:"api"`
}

// AnimationConfig describes one generated frame sequence.
type AnimationConfig struct {
	Name            string        `yaml:"name"`
	Pattern         string        `yaml:"pattern"`
	Frames          int           `yaml:"frames"`
	FrameDurationMs float64       `yaml:"frameDurationMs"`
	Repeat          bool          `yaml:"repeat"`
	Fore            string        `yaml:"fore"`
	Back            string        `yaml:"back"`
	Gradient        GradientTable `yaml:"gradient"`
	TrailLength     int           `yaml:"trailLength"`
	Particles       int           `yaml:"particles"`
	Seed            int64         `yaml:"seed"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return DecodeConfig(f)
}

// DecodeConfig decodes YAML from r, fills defaults and validates the result.
func DecodeConfig(r io.Reader) (Config, error) {
	var c Config
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "ledreel"
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = "home/xmastree/stream"
	}
	if c.Stream.FrameRate == 0 {
		c.Stream.FrameRate = 30
	}
	if c.Stream.Pixels == 0 {
		c.Stream.Pixels = DefaultPixels
	}
	if c.Stream.TransitionSecs == 0 {
		c.Stream.TransitionSecs = 5
	}
	if c.API.StaticDir == "" {
		c.API.StaticDir = "client/dist"
	}
	for i := range c.Animations {
		a := &c.Animations[i]
		if a.Name == "" {
			a.Name = fmt.Sprintf("%s-%d", a.Pattern, i)
		}
		if a.Back == "" {
			a.Back = "#000005"
		}
		if a.Fore == "" {
			a.Fore = "#808080"
		}
		if a.Pattern == PatternTwinkle && a.Particles == 0 {
			a.Particles = 60
		}
	}
}

// Validate reports the first problem found in the config.
func (c *Config) Validate() error {
	if c.Mqtt.URL == "" {
		return errors.New("config: mqtt.url is required")
	}
	if c.Stream.FrameRate <= 0 {
		return fmt.Errorf("config: stream.frameRate must be positive, got %v", c.Stream.FrameRate)
	}
	if c.Stream.Pixels < 1 || c.Stream.Pixels > 0xffff {
		return fmt.Errorf("config: stream.pixels must be in [1, 65535], got %d", c.Stream.Pixels)
	}
	if c.Stream.CycleSecs < 0 || c.Stream.TransitionSecs < 0 {
		return errors.New("config: stream.cycleSecs and stream.transitionSecs must not be negative")
	}
	if len(c.Animations) == 0 {
		return errors.New("config: at least one animation is required")
	}
	for _, a := range c.Animations {
		if a.Frames <= 0 {
			return fmt.Errorf("config: animation %q: frames must be positive, got %d", a.Name, a.Frames)
		}
		if a.FrameDurationMs <= 0 {
			return fmt.Errorf("config: animation %q: %w: frameDurationMs %v", a.Name, playback.ErrInvalidConfiguration, a.FrameDurationMs)
		}
		switch a.Pattern {
		case PatternSweep, PatternPulse, PatternBar, PatternTwinkle, PatternStreak:
		default:
			return fmt.Errorf("config: animation %q: %w: %q", a.Name, ErrUnknownPattern, a.Pattern)
		}
	}
	return nil
}
