// Package config loads pdf2md settings from flags, the environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tsawler/pdf2md/format"
	"github.com/tsawler/pdf2md/layout"
)

// Keys understood by Load.
const (
	KeyInput             = "input"
	KeyOutput            = "output"
	KeyVerbose           = "verbose"
	KeyDryRun            = "dry_run"
	KeyWorkers           = "workers"
	KeyFormat            = "format"
	KeyFrontMatter       = "front_matter"
	KeyTimeout           = "timeout"
	KeySizeRatio         = "heading.size_ratio"
	KeyShortLine         = "heading.short_line"
	KeyBaselineTolerance = "heading.baseline_tolerance"
)

// EnvPrefix prefixes every environment variable, e.g. PDF2MD_WORKERS.
const EnvPrefix = "PDF2MD"

// heading.size_ratio is read from PDF2MD_HEADING_SIZE_RATIO.
var envReplacer = strings.NewReplacer(".", "_")

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Heading holds the structure inference thresholds.
type Heading struct {
	SizeRatio         float64 `mapstructure:"size_ratio"`
	ShortLine         int     `mapstructure:"short_line"`
	BaselineTolerance float64 `mapstructure:"baseline_tolerance"`
}

// Config is the resolved CLI configuration.
type Config struct {
	Input       string        `mapstructure:"input"`
	Output      string        `mapstructure:"output"`
	Verbose     bool          `mapstructure:"verbose"`
	DryRun      bool          `mapstructure:"dry_run"`
	Workers     int           `mapstructure:"workers"`
	Format      string        `mapstructure:"format"`
	FrontMatter bool          `mapstructure:"front_matter"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Heading     Heading       `mapstructure:"heading"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// SetDefaults registers the default for every key on v.
func SetDefaults(v *viper.Viper) {
	d := layout.DefaultConfig()
	v.SetDefault(KeyInput, "")
	v.SetDefault(KeyOutput, "")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyFormat, "")
	v.SetDefault(KeyFrontMatter, false)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeySizeRatio, d.HeadingSizeRatio)
	v.SetDefault(KeyShortLine, d.ShortLineLimit)
	v.SetDefault(KeyBaselineTolerance, d.BaselineTolerance)
}

// Load resolves a Config. Precedence is flags, then PDF2MD_* variables,
// then the config file, then defaults. When file is empty pdf2md.yaml is
// searched in the working directory and $HOME/.config/pdf2md; a missing
// file is not an error.
func Load(v *viper.Viper, flags *pflag.FlagSet, file string) (*Config, error) {
	SetDefaults(v)
	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("pdf2md")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pdf2md"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: reading config file: %v", ErrInvalid, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

// Validate checks the settings that must hold before any PDF is read.
func (c *Config) Validate() error {
	if c.Input == "" {
		return invalid("input file is required")
	}
	info, err := os.Stat(c.Input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return invalid("input file does not exist: %s", c.Input)
		}
		return invalid("cannot access input file: %v", err)
	}
	if !info.Mode().IsRegular() {
		return invalid("input is not a regular file: %s", c.Input)
	}
	if format.Detect(c.Input) != format.PDF {
		return invalid("input file must have a .pdf extension: %s", c.Input)
	}
	if !c.DryRun && c.Output == "" {
		return invalid("output file is required")
	}
	if _, err := c.OutputFormat(); err != nil {
		return invalid("%v", err)
	}
	if c.Workers < 0 {
		return invalid("workers must not be negative")
	}
	if c.Timeout < 0 {
		return invalid("timeout must not be negative")
	}
	return nil
}

// OutputFormat resolves the output format. An unset format is taken from
// the output file extension and falls back to Markdown.
func (c *Config) OutputFormat() (format.Format, error) {
	if c.Format != "" {
		return format.ParseOutput(c.Format)
	}
	if f := format.Detect(c.Output); f.IsOutput() {
		return f, nil
	}
	return format.Markdown, nil
}

// Layout converts the heading thresholds to a layout.Config.
func (c *Config) Layout() layout.Config {
	lc := layout.DefaultConfig()
	if c.Heading.SizeRatio > 0 {
		lc.HeadingSizeRatio = c.Heading.SizeRatio
	}
	if c.Heading.ShortLine > 0 {
		lc.ShortLineLimit = c.Heading.ShortLine
	}
	if c.Heading.BaselineTolerance > 0 {
		lc.BaselineTolerance = c.Heading.BaselineTolerance
	}
	return lc
}

// bindFlags binds every flag under its key name, so --dry-run sets
// dry_run. The --config flag is not a setting.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" {
			return
		}
		if bindErr := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); bindErr != nil {
			err = fmt.Errorf("binding flag --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
