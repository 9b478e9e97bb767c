// Package config loads the settings used by the ambient command from a
// YAML file, the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kovidgoyal/ambient"
	"github.com/kovidgoyal/ambient/types"
)

// EnvPrefix is prepended to the upper-cased YAML key to get the name of
// the environment variable that overrides it.
const EnvPrefix = "AMBIENT_"

type Config struct {
	// Parameter is the ambient-light parameter. When unset it is derived
	// from Lux.
	Parameter *float32 `yaml:"parameter,omitempty"`
	Lux       *int     `yaml:"lux,omitempty"` // sensor reading

	// PixelOrder is the layout of the packed buffer the algorithm sees.
	// Images are packed and unpacked with the same order so it does not
	// change output files.
	PixelOrder    ambient.PixelOrder `yaml:"pixel_order"`
	PreserveAlpha bool               `yaml:"preserve_alpha"`

	AutoOrient bool `yaml:"auto_orient"`
	MaxSize    int  `yaml:"max_size"` // 0 means no limit

	JPEGQuality  int          `yaml:"jpeg_quality"`
	OutputDir    string       `yaml:"output_dir"`    // empty means next to the input
	OutputFormat types.Format `yaml:"output_format"` // empty means same as the input
	Suffix       string       `yaml:"suffix"`
	Workers      int          `yaml:"workers"` // 0 means one per CPU
}

func Default() *Config {
	return &Config{
		PixelOrder:  ambient.ARGB,
		AutoOrient:  true,
		JPEGQuality: 95,
		Suffix:      "-ambient",
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// LoadEnv loads variables from the given .env files, or from .env in the
// working directory when none are given. Variables already set in the
// environment win. A missing default .env file is not an error.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if len(files) == 0 && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides fields with AMBIENT_* variables as reported by lookup,
// typically os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	get := func(key string, set func(string) error) {
		name := EnvPrefix + strings.ToUpper(key)
		if val, ok := lookup(name); ok {
			if err := set(strings.TrimSpace(val)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	get("parameter", func(s string) error {
		v, err := strconv.ParseFloat(s, 32)
		if err == nil {
			p := float32(v)
			c.Parameter = &p
		}
		return err
	})
	get("lux", func(s string) error {
		v, err := strconv.Atoi(s)
		if err == nil {
			c.Lux = &v
		}
		return err
	})
	get("pixel_order", func(s string) error { return c.PixelOrder.UnmarshalText([]byte(s)) })
	get("preserve_alpha", boolSetter(&c.PreserveAlpha))
	get("auto_orient", boolSetter(&c.AutoOrient))
	get("max_size", intSetter(&c.MaxSize))
	get("jpeg_quality", intSetter(&c.JPEGQuality))
	get("output_dir", func(s string) error { c.OutputDir = s; return nil })
	get("output_format", func(s string) error { return c.OutputFormat.UnmarshalText([]byte(s)) })
	get("suffix", func(s string) error { c.Suffix = s; return nil })
	get("workers", intSetter(&c.Workers))
	return errors.Join(errs...)
}

func boolSetter(dest *bool) func(string) error {
	return func(s string) (err error) {
		*dest, err = strconv.ParseBool(s)
		return
	}
}

func intSetter(dest *int) func(string) error {
	return func(s string) (err error) {
		*dest, err = strconv.Atoi(s)
		return
	}
}

var ErrOverwritesInput = errors.New("config: an empty suffix with no output directory would overwrite the inputs")

// Validate reports every out of range setting.
func (c *Config) Validate() error {
	var errs []error
	m := ambient.DefaultMeta
	if c.Parameter != nil {
		if p := *c.Parameter; p != p || p < float32(m.ParameterMin()) || p > float32(m.ParameterMax()) {
			errs = append(errs, fmt.Errorf("config: parameter %v is outside [%d, %d]", p, m.ParameterMin(), m.ParameterMax()))
		}
	}
	if c.Lux != nil && *c.Lux < 0 {
		errs = append(errs, fmt.Errorf("config: lux %d is negative", *c.Lux))
	}
	if _, err := c.PixelOrder.MarshalText(); err != nil {
		errs = append(errs, err)
	}
	if c.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("config: max_size %d is negative", c.MaxSize))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("config: jpeg_quality %d is outside [1, 100]", c.JPEGQuality))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("config: workers %d is negative", c.Workers))
	}
	if c.Suffix == "" && c.OutputDir == "" {
		errs = append(errs, ErrOverwritesInput)
	}
	return errors.Join(errs...)
}

// EffectiveParameter resolves the ambient-light parameter: an explicit
// parameter wins, then the lux reading, then the default for a dark room.
func (c *Config) EffectiveParameter(m ambient.Meta) float32 {
	switch {
	case c.Parameter != nil:
		return *c.Parameter
	case c.Lux != nil:
		return m.DefaultParameter(*c.Lux)
	}
	return m.DefaultParameter(0)
}

func (c *Config) CompensatorOptions() []ambient.Option {
	return []ambient.Option{ambient.WithPixelOrder(c.PixelOrder), ambient.PreserveAlpha(c.PreserveAlpha)}
}

func (c *Config) DecodeOptions() []ambient.DecodeOption {
	return []ambient.DecodeOption{ambient.AutoOrientation(c.AutoOrient), ambient.MaxSize(c.MaxSize)}
}

func (c *Config) EncodeOptions() []ambient.EncodeOption {
	return []ambient.EncodeOption{ambient.JPEGQuality(c.JPEGQuality)}
}
