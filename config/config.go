// Package config loads the settings of countersim from defaults, a YAML file,
// a .env file and COUNTERSIM_* environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/sim"
)

// ErrNoConfigFile is returned when an explicitly requested config file does
// not exist.
var ErrNoConfigFile = errors.New("config file not found")

// EnvPrefix prefixes the environment variables that override settings.
const EnvPrefix = "COUNTERSIM"

// Defaults.
const (
	DefaultFrequency   = 1.0
	DefaultPulseWidth  = float64(counter.DefaultPulseWidth)
	DefaultMonitorPort = 0
)

// DefaultFrequencies are the choices offered by the frequency selector.
var DefaultFrequencies = []float64{0.5, 1, 2, 5, 10}

// Config holds all the settings.
type Config struct {
	// Frequency is the initial clock frequency in Hz.
	Frequency float64 `mapstructure:"frequency" yaml:"frequency"`

	// Frequencies are the frequencies a user can step through, in Hz.
	Frequencies []float64 `mapstructure:"frequencies" yaml:"frequencies"`

	// PulseWidth is how long a single pulse stays high, in seconds.
	PulseWidth float64 `mapstructure:"pulse-width" yaml:"pulse-width"`

	// MonitorPort is the HTTP port of the monitor. 0 picks a free port.
	MonitorPort int `mapstructure:"monitor-port" yaml:"monitor-port"`

	// TraceDB is the database the trace is recorded into. Empty disables
	// recording.
	TraceDB string `mapstructure:"trace-db" yaml:"trace-db"`

	OpenBrowser bool `mapstructure:"open-browser" yaml:"open-browser"`
	LogEvents   bool `mapstructure:"log-events" yaml:"log-events"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Frequency:   DefaultFrequency,
		Frequencies: append([]float64(nil), DefaultFrequencies...),
		PulseWidth:  DefaultPulseWidth,
		MonitorPort: DefaultMonitorPort,
	}
}

// DefaultPath returns ~/.config/countersim/config.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".config", "countersim", "config.yml"), nil
}

// Load reads the configuration. An empty configPath reads the default path
// if it exists. An empty envFile reads .env from the working directory if it
// exists. Variables already in the environment win over the .env file.
func Load(configPath, envFile string) (Config, error) {
	var cfg Config

	if err := loadEnvFile(envFile); err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	def := Default()
	v.SetDefault("frequency", def.Frequency)
	v.SetDefault("frequencies", def.Frequencies)
	v.SetDefault("pulse-width", def.PulseWidth)
	v.SetDefault("monitor-port", def.MonitorPort)
	v.SetDefault("trace-db", def.TraceDB)
	v.SetDefault("open-browser", def.OpenBrowser)
	v.SetDefault("log-events", def.LogEvents)

	explicit := configPath != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}

		configPath = p
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		notFound := errors.As(err, &configFileNotFound) || os.IsNotExist(err)

		switch {
		case notFound && explicit:
			return cfg, fmt.Errorf("%w: %s", ErrNoConfigFile, configPath)
		case !notFound:
			return cfg, fmt.Errorf("reading %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func loadEnvFile(envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}

	err := godotenv.Load(envFile)
	if err == nil || (!explicit && os.IsNotExist(err)) {
		return nil
	}

	return fmt.Errorf("loading %s: %w", envFile, err)
}

// Validate checks that the settings can drive a simulator.
func (c Config) Validate() error {
	if err := counter.ValidateFrequency(sim.Freq(c.Frequency)); err != nil {
		return fmt.Errorf("frequency: %w", err)
	}

	if len(c.Frequencies) == 0 {
		return errors.New("frequencies: at least one is needed")
	}

	for _, f := range c.Frequencies {
		if err := counter.ValidateFrequency(sim.Freq(f)); err != nil {
			return fmt.Errorf("frequencies: %w", err)
		}
	}

	if c.PulseWidth <= 0 {
		return fmt.Errorf("pulse-width must be positive, got %v", c.PulseWidth)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("monitor-port %d is out of range", c.MonitorPort)
	}

	return nil
}

// ClockFrequency returns the initial frequency as a sim.Freq.
func (c Config) ClockFrequency() sim.Freq {
	return sim.Freq(c.Frequency) * sim.Hz
}

// FrequencyChoices returns the selectable frequencies as sim.Freq values.
func (c Config) FrequencyChoices() []sim.Freq {
	fs := make([]sim.Freq, len(c.Frequencies))
	for i, f := range c.Frequencies {
		fs[i] = sim.Freq(f) * sim.Hz
	}

	return fs
}

// Save writes the configuration as YAML, creating the directory if needed.
func Save(c Config, path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
