// Package oh wires the parser, layout engine, cache store, and renderer into
// the single-pass pipeline behind the oh command.
package oh

import (
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/pkg/errors"

	"github.com/oh-sh/oh/pkg/cache"
	"github.com/oh-sh/oh/pkg/grid"
	"github.com/oh-sh/oh/pkg/svg"
)

const (
	DefaultFontFamily = "Consolas"
	DefaultFontSize   = 14
	DefaultFontWeight = 400
	DefaultWidth      = 80
	DefaultTabSize    = 8
	DefaultPadding    = 20
	DefaultBackground = "#1e1e1e"
	DefaultTextColor  = "#ffffff"
)

// Config is the immutable per-run configuration. FontWidth and FontHeight
// are pixel sizes scaled by grid.Scale; zero means derive them from the font
// size (family width ratio, 1.20 line-height factor).
type Config struct {
	FontFamily   string
	FontSize     int
	FontWidth    int64
	FontHeight   int64
	FontWeight   int
	Width        int
	Height       int  // 0 derives the grid height from the line count
	HeightSet    bool // Height was given explicitly, so 0 is an error, not "derive"
	Wrap         bool
	TabSize      int
	Padding      int
	Background   string
	TextColor    string
	AutoWidthCap int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FontFamily:   DefaultFontFamily,
		FontSize:     DefaultFontSize,
		FontWeight:   DefaultFontWeight,
		Width:        DefaultWidth,
		TabSize:      DefaultTabSize,
		Padding:      DefaultPadding,
		Background:   DefaultBackground,
		TextColor:    DefaultTextColor,
		AutoWidthCap: grid.DefaultAutoWidthCap,
	}
}

// fileDefaults is the shape of the optional defaults file at
// $XDG_CONFIG_HOME/oh/config.toml. Flags always win over file values.
type fileDefaults struct {
	Font         string `toml:"font"`
	FontSize     int    `toml:"font-size"`
	FontWeight   int    `toml:"font-weight"`
	Width        int    `toml:"width"`
	TabSize      int    `toml:"tab-size"`
	Wrap         bool   `toml:"wrap"`
	Background   string `toml:"background"`
	TextColor    string `toml:"text-color"`
	AutoWidthCap int    `toml:"auto-width-cap"`
}

// DefaultsFile returns the path of the optional per-user defaults file.
func DefaultsFile() string {
	return filepath.Join(xdg.ConfigHome, "oh", "config.toml")
}

// LoadDefaults returns the built-in defaults overlaid with any values from
// the per-user defaults file. A missing file is not an error; an unreadable
// one is, since silently ignoring a broken config surprises harder than
// failing does.
func LoadDefaults() (Config, error) {
	cfg := Default()

	var fd fileDefaults
	if _, err := toml.DecodeFile(DefaultsFile(), &fd); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "read defaults file %s", DefaultsFile())
	}

	if fd.Font != "" {
		cfg.FontFamily = fd.Font
	}
	if fd.FontSize != 0 {
		cfg.FontSize = fd.FontSize
	}
	if fd.FontWeight != 0 {
		cfg.FontWeight = fd.FontWeight
	}
	if fd.Width != 0 {
		cfg.Width = fd.Width
	}
	if fd.TabSize != 0 {
		cfg.TabSize = fd.TabSize
	}
	if fd.Wrap {
		cfg.Wrap = true
	}
	if fd.Background != "" {
		cfg.Background = fd.Background
	}
	if fd.TextColor != "" {
		cfg.TextColor = fd.TextColor
	}
	if fd.AutoWidthCap != 0 {
		cfg.AutoWidthCap = fd.AutoWidthCap
	}
	return cfg, nil
}

// Validate enforces the configuration ranges. Violations are fatal input
// errors.
func (c *Config) Validate() error {
	switch {
	case c.FontSize < 8 || c.FontSize > 72:
		return errors.Errorf("font-size must be between 8 and 72, got %d", c.FontSize)
	case c.FontWidth != 0 && c.FontWidth < grid.Scale:
		return errors.New("font-width must be >= 1")
	case c.FontHeight != 0 && c.FontHeight < grid.Scale:
		return errors.New("font-height must be >= 1")
	case c.FontWeight < 100 || c.FontWeight > 900:
		return errors.Errorf("font-weight must be between 100 and 900, got %d", c.FontWeight)
	case c.Width < 1:
		return errors.Errorf("width must be >= 1, got %d", c.Width)
	case c.Height < 0 || (c.HeightSet && c.Height < 1):
		return errors.Errorf("height must be >= 1, got %d", c.Height)
	case c.TabSize < 1 || c.TabSize > 16:
		return errors.Errorf("tab-size must be between 1 and 16, got %d", c.TabSize)
	case c.Padding < 0:
		return errors.Errorf("padding must be >= 0, got %d", c.Padding)
	case c.AutoWidthCap < 1:
		return errors.Errorf("auto-width-cap must be >= 1, got %d", c.AutoWidthCap)
	}
	return nil
}

// resolveFontMetrics fills in derived character width and line height.
func (c *Config) resolveFontMetrics() {
	if c.FontWidth == 0 {
		c.FontWidth = int64(c.FontSize) * svg.Ratio(c.FontFamily)
	}
	if c.FontHeight == 0 {
		c.FontHeight = int64(c.FontSize) * 120 // 1.20 line-height factor
	}
}

// canonical serializes every field that affects rendering, in a fixed order,
// for configuration hashing. Fields must never be reordered or dropped:
// existing cache entries are keyed on this exact string.
func (c Config) canonical() string {
	wrap := "false"
	if c.Wrap {
		wrap = "true"
	}
	return c.FontFamily + "|" +
		strconv.Itoa(c.FontSize) + "|" +
		grid.FormatScaled(c.FontWidth) + "|" +
		grid.FormatScaled(c.FontHeight) + "|" +
		strconv.Itoa(c.FontWeight) + "|" +
		strconv.Itoa(c.Width) + "|" +
		strconv.Itoa(c.Height) + "|" +
		wrap + "|" +
		strconv.Itoa(c.TabSize) + "|" +
		c.Background + "|" +
		c.TextColor + "|" +
		strconv.Itoa(c.Padding) + "|" +
		strconv.Itoa(c.AutoWidthCap)
}

// Hash returns the configuration checksum used in every cache key.
func (c Config) Hash() string {
	return cache.Sum([]byte(c.canonical()))
}
