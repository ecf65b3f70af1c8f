package autopart

import (
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages algorithm configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults. Every key can be
// overridden from the environment as AUTOPART_<SECTION>_<KEY>.
func NewConfig() *Config {
	v := viper.New()

	// Algorithm parameters
	v.SetDefault("algorithm.epsilon", 0.0001)
	v.SetDefault("algorithm.max_inner_iterations", 100)
	v.SetDefault("algorithm.max_groups", 0)

	// Performance parameters
	v.SetDefault("performance.parallel", false)
	v.SetDefault("performance.num_workers", runtime.NumCPU())

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)

	v.SetDefault("output.snapshot_dir", "")
	v.SetDefault("output.snapshot_density", false)
	v.SetDefault("output.track_file", "")

	v.SetEnvPrefix("autopart")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for algorithm parameters
func (c *Config) Epsilon() float64 { return c.v.GetFloat64("algorithm.epsilon") }
func (c *Config) MaxInnerIterations() int { return c.v.GetInt("algorithm.max_inner_iterations") }
func (c *Config) MaxGroups() int { return c.v.GetInt("algorithm.max_groups") }

func (c *Config) Parallel() bool { return c.v.GetBool("performance.parallel") }
func (c *Config) NumWorkers() int { return c.v.GetInt("performance.num_workers") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }
func (c *Config) LogConsole() bool { return c.v.GetBool("logging.console") }

func (c *Config) SnapshotDir() string { return c.v.GetString("output.snapshot_dir") }
func (c *Config) SnapshotDensity() bool { return c.v.GetBool("output.snapshot_density") }
func (c *Config) TrackFile() string { return c.v.GetString("output.track_file") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	if !c.LogConsole() {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Str("service", "autopart").Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "autopart").Logger()
}
