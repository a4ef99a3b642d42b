package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/poikkeusinfo/pkg/poikkeusinfo"
	"gopkg.in/yaml.v3"
)

const (
	PublisherBackendRedis = "redis"
	PublisherBackendNATS  = "nats"
	PublisherBackendNone  = "none"
)

type FeedConfig struct {
	URL  string `yaml:"url" validate:"required_without=File,omitempty,url"`
	File string `yaml:"file"`

	Interval       time.Duration `yaml:"interval" validate:"gt=0"`
	Timeout        time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxElapsedTime time.Duration `yaml:"max_elapsed_time" validate:"gte=0"`
}

type ParserConfig struct {
	Language         string `yaml:"language" validate:"required"`
	Timezone         string `yaml:"timezone" validate:"required,timezone"`
	SkipInvalidItems bool   `yaml:"skip_invalid_items"`
}

type PublisherConfig struct {
	Backend string `yaml:"backend" validate:"oneof=redis nats none"`

	SnapshotKey      string        `yaml:"snapshot_key" validate:"required_if=Backend redis"`
	SnapshotTTL      time.Duration `yaml:"snapshot_ttl" validate:"gte=0"`
	BroadcastChannel string        `yaml:"broadcast_channel" validate:"required_if=Backend redis"`
	BroadcastKey     string        `yaml:"broadcast_key" validate:"required"`
	EventsQueue      string        `yaml:"events_queue"`

	NATSURL     string `yaml:"nats_url" validate:"required_if=Backend nats"`
	NATSSubject string `yaml:"nats_subject" validate:"required_if=Backend nats"`
}

type Config struct {
	Feed      FeedConfig      `yaml:"feed" validate:"required"`
	Parser    ParserConfig    `yaml:"parser" validate:"required"`
	Publisher PublisherConfig `yaml:"publisher" validate:"required"`
	Lines     LineRules       `yaml:"lines" validate:"dive"`
}

func DefaultConfig() Config {
	return Config{
		Feed: FeedConfig{
			URL:            "http://www.poikkeusinfo.fi/xml/v2/fi",
			Interval:       180 * time.Second,
			Timeout:        30 * time.Second,
			MaxElapsedTime: time.Minute,
		},
		Parser: ParserConfig{
			Language: poikkeusinfo.DefaultLanguage,
			Timezone: poikkeusinfo.DefaultTimezone,
		},
		Publisher: PublisherConfig{
			Backend:          PublisherBackendRedis,
			SnapshotKey:      "hsl-poikkeusinfo",
			SnapshotTTL:      time.Hour,
			BroadcastChannel: "home:broadcast:generic",
			BroadcastKey:     "poikkeusinfo",
			NATSSubject:      "home.broadcast.generic",
		},
		Lines: DefaultLineRules(),
	}
}

// Load reads a YAML file over the defaults. An empty path gives the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := registerValidations(v, poikkeusinfo.DefaultCodeTables()); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return err
	}

	// compile now so a broken expression fails at startup
	if _, err := c.Lines.Rules(); err != nil {
		return err
	}

	return nil
}

func (c *Config) ParserOptions() (poikkeusinfo.ParserOptions, error) {
	location, err := time.LoadLocation(c.Parser.Timezone)
	if err != nil {
		return poikkeusinfo.ParserOptions{}, fmt.Errorf("loading timezone: %w", err)
	}

	return poikkeusinfo.ParserOptions{
		Codes:            poikkeusinfo.DefaultCodeTables(),
		Reasons:          poikkeusinfo.DefaultReasonTable(),
		Durations:        poikkeusinfo.NewDurationParser(location),
		Language:         c.Parser.Language,
		Location:         location,
		SkipInvalidItems: c.Parser.SkipInvalidItems,
	}, nil
}

func registerValidations(v *validator.Validate, codes poikkeusinfo.CodeTables) error {
	err := v.RegisterValidation("line_type", func(fl validator.FieldLevel) bool {
		return codes.HasLineType(poikkeusinfo.LineType(fl.Field().String()))
	})
	if err != nil {
		return err
	}

	return v.RegisterValidation("direction", func(fl validator.FieldLevel) bool {
		return codes.HasDirection(poikkeusinfo.Direction(fl.Field().String()))
	})
}
