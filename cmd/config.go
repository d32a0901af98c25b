package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bmatsuo/phoebe/pkg/eval"
	"github.com/bmatsuo/phoebe/pkg/heap"
	"github.com/bmatsuo/phoebe/pkg/lisplib"
	"gopkg.in/yaml.v2"
)

// Config is the contents of a phoebe configuration file.
//
//	heap:
//	  threshold: 4096
//	  growth: 2
//	  limit: 16777216
//	  stress: false
//	max_height: 10000
//	log_level: warn
type Config struct {
	Heap      HeapConfig `yaml:"heap"`
	MaxHeight int        `yaml:"max_height"`
	LogLevel  string     `yaml:"log_level"`
}

// HeapConfig configures the garbage collected heap.
type HeapConfig struct {
	Threshold int     `yaml:"threshold"`
	Growth    float64 `yaml:"growth"`
	Limit     int     `yaml:"limit"`
	Stress    bool    `yaml:"stress"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides it.
func DefaultConfig() *Config {
	return &Config{
		Heap: HeapConfig{
			Threshold: heap.DefaultThreshold,
			Growth:    heap.DefaultGrowth,
			Limit:     heap.DefaultLimit,
		},
		MaxHeight: eval.DefaultMaxHeight,
		LogLevel:  "warn",
	}
}

// ParseConfig parses yaml data over the default configuration.  Unknown
// keys are an error.
func ParseConfig(data []byte) (*Config, error) {
	c := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// ReadConfig parses the configuration file at path.
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// Level returns the minimum level of logged messages.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// Options returns the interpreter options described by c.
func (c *Config) Options() []eval.Option {
	return []eval.Option{
		eval.WithMaxHeight(c.MaxHeight),
		eval.WithHeapOptions(
			heap.WithThreshold(c.Heap.Threshold),
			heap.WithGrowth(c.Heap.Growth),
			heap.WithLimit(c.Heap.Limit),
			heap.WithStress(c.Heap.Stress),
		),
	}
}

// NewInterp returns an interpreter with the standard library loaded.
// Diagnostics and logs are written to stderr.
func (c *Config) NewInterp(stderr io.Writer) (*eval.Interp, error) {
	logger, err := c.Logger(stderr)
	if err != nil {
		return nil, err
	}
	opts := append(c.Options(), eval.WithStderr(stderr), eval.WithLogger(logger))
	interp, err := eval.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := lisplib.LoadLibrary(interp); err != nil {
		return nil, err
	}
	return interp, nil
}
