package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"valpipe/internal/conversions"
	"valpipe/internal/logging"
)

const settingsEnvPrefix = "VALPIPE__"

type Settings struct {
	Log struct {
		Level string `koanf:"level"`
		JSON  bool   `koanf:"json"`
	} `koanf:"log"`
	Convert struct {
		ByteOrder  string `koanf:"byte_order"` // native|little|big
		DateLayout string `koanf:"date_layout"`
	} `koanf:"convert"`
	Metrics struct {
		Addr string `koanf:"addr"`
	} `koanf:"metrics"`
	Transport struct {
		Addr string `koanf:"addr"`
	} `koanf:"transport"`
}

// LoadSettings merges env-vars (prefix `VALPIPE__`, delimiter `__`) with
// the YAML file at path. File values win. A missing file is not an error.
func LoadSettings(path string) (Settings, error) {
	k := koanf.New(".")
	_ = k.Load(env.Provider(settingsEnvPrefix, "__", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, settingsEnvPrefix))
	}), nil)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("settings %s: %w", path, err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return s, err
	}
	if s.Transport.Addr == "" {
		s.Transport.Addr = ":7070"
	}
	if _, err := conversions.ParseByteOrder(s.Convert.ByteOrder); err != nil {
		return s, err
	}
	return s, nil
}

// Encoder builds the binary encoder the convert section describes.
func (s Settings) Encoder() (conversions.Encoder, error) {
	order, err := conversions.ParseByteOrder(s.Convert.ByteOrder)
	if err != nil {
		return conversions.Encoder{}, err
	}
	return conversions.Encoder{Order: order, DateLayout: s.Convert.DateLayout}, nil
}

// LogOptions overlays the log section on top of the environment defaults.
func (s Settings) LogOptions() logging.Options {
	opts := logging.OptionsFromEnv()
	if s.Log.Level != "" {
		opts.Level = s.Log.Level
	}
	if s.Log.JSON {
		opts.JSON = true
	}
	return opts
}
