package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRotationPoll   = 60 * time.Second
	DefaultPlayerPoll     = 12 * time.Hour
	DefaultAvatarInterval = 12 * time.Hour
	DefaultBrightness     = 2.5
	DefaultPlatform       = "PC"
)

var platforms = []string{"PC", "PS4", "X1", "SWITCH"}

type Config struct {
	DiscordToken string
	ApexAPIKey   string
	ApexBaseURL  string // opcional, vacío = api.mozambiquehe.re
	Platform     string

	// sólo player
	PlayerUID      string
	AvatarInterval time.Duration

	PollInterval time.Duration
	TickTimeout  time.Duration // 0 = igual al intervalo
	Brightness   float64

	MetricsAddr  string // vacío = sin server http
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
}

// File es el yaml opcional de CONFIG_FILE. Sólo tuning, nada de secretos.
type File struct {
	PollInterval   time.Duration `yaml:"poll_interval"`
	AvatarInterval time.Duration `yaml:"avatar_interval"`
	TickTimeout    time.Duration `yaml:"tick_timeout"`
	BaseURL        string        `yaml:"base_url"`
	Platform       string        `yaml:"platform"`
	Brightness     float64       `yaml:"brightness"`
	MetricsAddr    string        `yaml:"metrics_addr"`
}

func LoadRotation() (Config, error) {
	return load(false, DefaultRotationPoll)
}

func LoadPlayer() (Config, error) {
	return load(true, DefaultPlayerPoll)
}

// ReadFile parsea el yaml de tuning. Campos desconocidos son error.
func ReadFile(path string) (File, error) {
	var f File
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return f, fmt.Errorf("config file %s: %w", path, err)
	}
	return f, nil
}

func load(player bool, defaultPoll time.Duration) (Config, error) {
	cfg := Config{
		Platform:       DefaultPlatform,
		PollInterval:   defaultPoll,
		AvatarInterval: DefaultAvatarInterval,
		Brightness:     DefaultBrightness,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		f, err := ReadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.applyFile(f)
	}

	var missing []string
	get := func(k string, req bool) string {
		v := strings.TrimSpace(os.Getenv(k))
		if v == "" && req {
			missing = append(missing, k)
		}
		return v
	}

	cfg.DiscordToken = get("DISCORD_BOT_TOKEN", true)
	cfg.ApexAPIKey = get("APEX_API_KEY", true)
	if player {
		cfg.PlayerUID = get("PLAYER_UID", true)
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing env: %s", strings.Join(missing, ", "))
	}

	var errs []error
	str := func(k string, dst *string) {
		if v := get(k, false); v != "" {
			*dst = v
		}
	}
	dur := func(k string, dst *time.Duration) {
		v := get(k, false)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			return
		}
		*dst = d
	}

	str("APEX_BASE_URL", &cfg.ApexBaseURL)
	str("APEX_PLATFORM", &cfg.Platform)
	str("METRICS_ADDR", &cfg.MetricsAddr)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.OTLPEndpoint)
	dur("POLL_INTERVAL", &cfg.PollInterval)
	dur("TICK_TIMEOUT", &cfg.TickTimeout)
	if player {
		dur("AVATAR_INTERVAL", &cfg.AvatarInterval)
	}
	if v := get("BRIGHTNESS_FACTOR", false); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("BRIGHTNESS_FACTOR: %w", err))
		} else {
			cfg.Brightness = f
		}
	}

	if err := errors.Join(errs...); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyFile(f File) {
	if f.PollInterval != 0 {
		c.PollInterval = f.PollInterval
	}
	if f.AvatarInterval != 0 {
		c.AvatarInterval = f.AvatarInterval
	}
	if f.TickTimeout != 0 {
		c.TickTimeout = f.TickTimeout
	}
	if f.BaseURL != "" {
		c.ApexBaseURL = f.BaseURL
	}
	if f.Platform != "" {
		c.Platform = f.Platform
	}
	if f.Brightness != 0 {
		c.Brightness = f.Brightness
	}
	if f.MetricsAddr != "" {
		c.MetricsAddr = f.MetricsAddr
	}
}

// Validate revisa rangos. No toca la config salvo normalizar la plataforma.
func (c *Config) Validate() error {
	c.Platform = strings.ToUpper(c.Platform)
	switch {
	case c.PollInterval <= 0:
		return fmt.Errorf("poll interval must be > 0 (got %s)", c.PollInterval)
	case c.TickTimeout < 0:
		return fmt.Errorf("tick timeout must be >= 0 (got %s)", c.TickTimeout)
	case c.AvatarInterval <= 0:
		return fmt.Errorf("avatar interval must be > 0 (got %s)", c.AvatarInterval)
	case c.Brightness <= 0:
		return fmt.Errorf("brightness must be > 0 (got %g)", c.Brightness)
	case !slices.Contains(platforms, c.Platform):
		return fmt.Errorf("platform %q not supported (use %s)", c.Platform, strings.Join(platforms, ", "))
	}
	return nil
}
