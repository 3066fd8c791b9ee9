package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"weaktrace/internal/trace"
)

// Viper keys. Environment variables use the WEAKTRACE_ prefix.
const (
	KeyOutputDir = "output_dir"
	KeyDuration  = "duration"
	KeyMinKbps   = "min_kbps"
	KeyMaxKbps   = "max_kbps"
	KeyVariation = "variation"
	KeyUpSeed    = "up_seed"
	KeyDownSeed  = "down_seed"
	KeyPrefix    = "prefix"
	KeyQuiet     = "quiet"

	EnvPrefix = "WEAKTRACE"
)

const (
	DefaultDuration  = 300
	DefaultMinKbps   = 500
	DefaultMaxKbps   = 2000
	DefaultVariation = 0.2
	DefaultUpSeed    = 42
	DefaultDownSeed  = 123
	DefaultPrefix    = "weak-network"
)

var ErrBadArgument = xerrors.New("bad argument")

type Config struct {
	OutputDir   string
	DurationSec float64
	MinKbps     float64
	MaxKbps     float64
	Variation   float64
	UpSeed      uint64
	DownSeed    uint64
	Prefix      string
	Quiet       bool
}

// DefaultOutputDir is ~/mahimahi/traces, or empty if home is unknown.
func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "mahimahi", "traces")
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutputDir, DefaultOutputDir())
	v.SetDefault(KeyDuration, DefaultDuration)
	v.SetDefault(KeyMinKbps, DefaultMinKbps)
	v.SetDefault(KeyMaxKbps, DefaultMaxKbps)
	v.SetDefault(KeyVariation, DefaultVariation)
	v.SetDefault(KeyUpSeed, DefaultUpSeed)
	v.SetDefault(KeyDownSeed, DefaultDownSeed)
	v.SetDefault(KeyPrefix, DefaultPrefix)
	v.SetDefault(KeyQuiet, false)
}

func FromViper(v *viper.Viper) Config {
	return Config{
		OutputDir:   expandHome(v.GetString(KeyOutputDir)),
		DurationSec: v.GetFloat64(KeyDuration),
		MinKbps:     v.GetFloat64(KeyMinKbps),
		MaxKbps:     v.GetFloat64(KeyMaxKbps),
		Variation:   v.GetFloat64(KeyVariation),
		UpSeed:      v.GetUint64(KeyUpSeed),
		DownSeed:    v.GetUint64(KeyDownSeed),
		Prefix:      v.GetString(KeyPrefix),
		Quiet:       v.GetBool(KeyQuiet),
	}
}

// ApplyArgs overrides the config with positional arguments in the order
// output_dir, duration_seconds, min_kbps, max_kbps.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) > 4 {
		return xerrors.Errorf("expected at most 4 arguments, got %d: %w", len(args), ErrBadArgument)
	}
	if len(args) > 0 {
		c.OutputDir = expandHome(args[0])
	}
	targets := []struct {
		name string
		dst  *float64
	}{
		{"duration_seconds", &c.DurationSec},
		{"min_kbps", &c.MinKbps},
		{"max_kbps", &c.MaxKbps},
	}
	for i, arg := range args[min(len(args), 1):] {
		if strings.TrimSpace(arg) == "" {
			return xerrors.Errorf("%s is empty: %w", targets[i].name, ErrBadArgument)
		}
		v, err := cast.ToFloat64E(strings.TrimSpace(arg))
		if err != nil {
			return xerrors.Errorf("%s %q is not a number: %w", targets[i].name, arg, ErrBadArgument)
		}
		*targets[i].dst = v
	}
	return nil
}

// Validate rejects the config before any directory or file is touched.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return xerrors.Errorf("output directory is not set: %w", ErrBadArgument)
	}
	if c.Prefix == "" || strings.ContainsRune(c.Prefix, filepath.Separator) {
		return xerrors.Errorf("prefix %q is not a valid file name: %w", c.Prefix, ErrBadArgument)
	}
	if c.UpSeed == c.DownSeed {
		return xerrors.Errorf("uplink and downlink seeds must differ, both are %d: %w", c.UpSeed, ErrBadArgument)
	}
	return c.UplinkParams().Validate()
}

func (c Config) params(seed uint64) trace.Params {
	return trace.Params{
		DurationSec: c.DurationSec,
		MinKbps:     c.MinKbps,
		MaxKbps:     c.MaxKbps,
		Variation:   c.Variation,
		Seed:        seed,
	}
}

func (c Config) UplinkParams() trace.Params   { return c.params(c.UpSeed) }
func (c Config) DownlinkParams() trace.Params { return c.params(c.DownSeed) }

// BaseName is e.g. weak-network-500-2000kbps.
func (c Config) BaseName() string {
	return c.Prefix + "-" + formatKbps(c.MinKbps) + "-" + formatKbps(c.MaxKbps) + "kbps"
}

func (c Config) UplinkPath() string {
	return filepath.Join(c.OutputDir, c.BaseName()+".up")
}

func (c Config) DownlinkPath() string {
	return filepath.Join(c.OutputDir, c.BaseName()+".down")
}

func formatKbps(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
