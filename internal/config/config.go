/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"grapher/internal/engine"
	"grapher/internal/export"
	"grapher/internal/graph"
	"grapher/internal/mesh"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are read-only overrides applied at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type ViewConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Scale      float64 `yaml:"scale"`
	MinScale   float64 `yaml:"min_scale"`
	MaxScale   float64 `yaml:"max_scale"`
	ZoomFactor float64 `yaml:"zoom_factor"`
}

type PlotConfig struct {
	Resolution  int     `yaml:"resolution"`
	HalfWidth   float64 `yaml:"half_width"`
	WidthMode   string  `yaml:"width_mode"` // "screen" | "world"
	Pregenerate float64 `yaml:"pregenerate_factor"`
	IndexWidth  int     `yaml:"index_width"` // 16 | 32
	Style       string  `yaml:"style"`       // "ribbon" | "polyline"
}

type ExportConfig struct {
	OutDir     string `yaml:"out_dir"`
	Format     string `yaml:"format"`
	Background string `yaml:"background"`
	Curve      string `yaml:"curve"`
	HideLabels bool   `yaml:"hide_labels"`
}

type StorageConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // empty means the default location
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	View          ViewConfig    `yaml:"view"`
	Plot          PlotConfig    `yaml:"plot"`
	Export        ExportConfig  `yaml:"export"`
	Storage       StorageConfig `yaml:"storage"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		View: ViewConfig{
			Width:      graph.DefaultWindowWidth,
			Height:     graph.DefaultWindowHeight,
			Scale:      graph.DefaultScale,
			MinScale:   graph.DefaultMinScale,
			MaxScale:   graph.DefaultMaxScale,
			ZoomFactor: graph.ZoomFactor,
		},
		Plot: PlotConfig{
			Resolution:  mesh.DefaultResolution,
			HalfWidth:   mesh.DefaultHalfWidth,
			WidthMode:   "screen",
			Pregenerate: graph.PregenerateDistanceFactor,
			IndexWidth:  32,
			Style:       "ribbon",
		},
		Export:  ExportConfig{OutDir: ".", Format: "png", Background: "#ffffff", Curve: "#1e5ac8"},
		Storage: StorageConfig{Enabled: true},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath = "GRAPHER_CONFIG"

	EnvWidth      = "GRAPHER_WIDTH"
	EnvHeight     = "GRAPHER_HEIGHT"
	EnvScale      = "GRAPHER_SCALE"
	EnvResolution = "GRAPHER_RESOLUTION"
	EnvHalfWidth  = "GRAPHER_HALF_WIDTH"
	EnvWidthMode  = "GRAPHER_WIDTH_MODE"
	EnvIndexWidth = "GRAPHER_INDEX_WIDTH"
	EnvStyle      = "GRAPHER_STYLE"
	EnvOutDir     = "GRAPHER_OUT_DIR"
	EnvStorage    = "GRAPHER_STORAGE"
	EnvDBPath     = "GRAPHER_DB"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GRAPHER_LOG_LEVEL"
	EnvLogFormat = "GRAPHER_LOG_FORMAT"
	EnvLogSource = "GRAPHER_LOG_SOURCE"
	EnvLogFile   = "GRAPHER_LOG_FILE"
)

// ConfigPath returns the per-user config file path. GRAPHER_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "Grapher")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "Grapher")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "grapher")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults and merges
// environment overrides. A malformed file is reported, defaults still apply.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit path.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	var perr error
	if data, err := os.ReadFile(path); err == nil {
		// Fields absent from the file keep their defaults.
		fileCfg := Defaults()
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		} else {
			perr = fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, perr
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

func SaveTo(path string, cfg AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// view
	setF := func(d *float64, s float64) {
		if s != 0 {
			*d = s
		}
	}
	setS := func(d *string, s string) {
		if v := strings.TrimSpace(s); v != "" {
			*d = v
		}
	}
	setF(&dst.View.Width, src.View.Width)
	setF(&dst.View.Height, src.View.Height)
	setF(&dst.View.Scale, src.View.Scale)
	setF(&dst.View.MinScale, src.View.MinScale)
	setF(&dst.View.MaxScale, src.View.MaxScale)
	setF(&dst.View.ZoomFactor, src.View.ZoomFactor)
	// plot
	if src.Plot.Resolution != 0 {
		dst.Plot.Resolution = src.Plot.Resolution
	}
	setF(&dst.Plot.HalfWidth, src.Plot.HalfWidth)
	setF(&dst.Plot.Pregenerate, src.Plot.Pregenerate)
	if src.Plot.IndexWidth != 0 {
		dst.Plot.IndexWidth = src.Plot.IndexWidth
	}
	setS(&dst.Plot.WidthMode, strings.ToLower(src.Plot.WidthMode))
	setS(&dst.Plot.Style, strings.ToLower(src.Plot.Style))
	// export
	setS(&dst.Export.OutDir, src.Export.OutDir)
	setS(&dst.Export.Format, strings.ToLower(src.Export.Format))
	setS(&dst.Export.Background, src.Export.Background)
	setS(&dst.Export.Curve, src.Export.Curve)
	dst.Export.HideLabels = src.Export.HideLabels
	// storage
	dst.Storage.Enabled = src.Storage.Enabled
	setS(&dst.Storage.Path, src.Storage.Path)
	// logging
	setS(&dst.Logging.Level, strings.ToLower(src.Logging.Level))
	setS(&dst.Logging.Format, strings.ToLower(src.Logging.Format))
	dst.Logging.Source = src.Logging.Source
	setS(&dst.Logging.File, src.Logging.File)
}

// applyEnvOverrides parses GRAPHER_* variables. Values that do not parse are ignored.
func applyEnvOverrides(cfg *AppConfig) {
	env := func(name string) (string, bool) {
		v := strings.TrimSpace(os.Getenv(name))
		return v, v != ""
	}
	float := func(name string, dst *float64) {
		if v, ok := env(name); ok {
			if f, err := cast.ToFloat64E(v); err == nil {
				*dst = f
			}
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := env(name); ok {
			if n, err := cast.ToIntE(v); err == nil {
				*dst = n
			}
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := env(name); ok {
			lv := strings.ToLower(v)
			switch lv {
			case "on", "yes":
				*dst = true
			case "off", "no":
				*dst = false
			default:
				if b, err := cast.ToBoolE(lv); err == nil {
					*dst = b
				}
			}
		}
	}
	str := func(name string, dst *string, lower bool) {
		if v, ok := env(name); ok {
			if lower {
				v = strings.ToLower(v)
			}
			*dst = v
		}
	}

	float(EnvWidth, &cfg.View.Width)
	float(EnvHeight, &cfg.View.Height)
	float(EnvScale, &cfg.View.Scale)
	integer(EnvResolution, &cfg.Plot.Resolution)
	float(EnvHalfWidth, &cfg.Plot.HalfWidth)
	str(EnvWidthMode, &cfg.Plot.WidthMode, true)
	integer(EnvIndexWidth, &cfg.Plot.IndexWidth)
	str(EnvStyle, &cfg.Plot.Style, true)
	str(EnvOutDir, &cfg.Export.OutDir, false)
	boolean(EnvStorage, &cfg.Storage.Enabled)
	str(EnvDBPath, &cfg.Storage.Path, false)
	// logging overrides
	str(EnvLogLevel, &cfg.Logging.Level, true)
	str(EnvLogFormat, &cfg.Logging.Format, true)
	boolean(EnvLogSource, &cfg.Logging.Source)
	str(EnvLogFile, &cfg.Logging.File, false)
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"view.width":       EnvWidth,
		"view.height":      EnvHeight,
		"view.scale":       EnvScale,
		"plot.resolution":  EnvResolution,
		"plot.half_width":  EnvHalfWidth,
		"plot.width_mode":  EnvWidthMode,
		"plot.index_width": EnvIndexWidth,
		"plot.style":       EnvStyle,
		"export.out_dir":   EnvOutDir,
		"storage.enabled":  EnvStorage,
		"storage.path":     EnvDBPath,
		"logging.level":    EnvLogLevel,
		"logging.format":   EnvLogFormat,
		"logging.source":   EnvLogSource,
		"logging.file":     EnvLogFile,
	}
	if name, ok := names[key]; ok && os.Getenv(name) != "" {
		return name, true
	}
	return "", false
}

// Validate rejects settings the engine cannot run with.
func (c AppConfig) Validate() error {
	if !(c.View.Width > 0) || !(c.View.Height > 0) {
		return fmt.Errorf("%w: %gx%g", graph.ErrInvalidWindow, c.View.Width, c.View.Height)
	}
	if !(c.View.Scale > 0) {
		return fmt.Errorf("%w: %g", graph.ErrInvalidScale, c.View.Scale)
	}
	if !(c.View.MinScale > 0) || c.View.MinScale >= c.View.MaxScale {
		return fmt.Errorf("view: min_scale %g must be positive and below max_scale %g", c.View.MinScale, c.View.MaxScale)
	}
	if !(c.View.ZoomFactor > 1) {
		return fmt.Errorf("%w: zoom_factor %g must exceed 1", graph.ErrInvalidFactor, c.View.ZoomFactor)
	}
	if c.Plot.Resolution < 2 {
		return fmt.Errorf("%w: resolution %d", mesh.ErrInvalidSampleCount, c.Plot.Resolution)
	}
	if !(c.Plot.HalfWidth > 0) {
		return fmt.Errorf("plot: half_width %g must be positive", c.Plot.HalfWidth)
	}
	if !(c.Plot.Pregenerate >= 1) {
		return fmt.Errorf("%w: pregenerate_factor %g must be at least 1", graph.ErrInvalidFactor, c.Plot.Pregenerate)
	}
	if err := mesh.IndexWidth(c.Plot.IndexWidth).Validate(); err != nil {
		return err
	}
	if _, err := mesh.ParseWidthMode(c.Plot.WidthMode); err != nil {
		return err
	}
	if _, err := mesh.ParseStyle(c.Plot.Style); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return err
	}
	if _, err := export.ParseHexColor(c.Export.Background); err != nil {
		return fmt.Errorf("export.background: %w", err)
	}
	if _, err := export.ParseHexColor(c.Export.Curve); err != nil {
		return fmt.Errorf("export.curve: %w", err)
	}
	return nil
}

// Window is the configured startup window size.
func (c AppConfig) Window() graph.WindowSize {
	return graph.WindowSize{Width: c.View.Width, Height: c.View.Height}
}

// EngineOptions maps the view and plot sections onto engine options.
func (c AppConfig) EngineOptions() (engine.Options, error) {
	if err := c.Validate(); err != nil {
		return engine.Options{}, err
	}
	mode, _ := mesh.ParseWidthMode(c.Plot.WidthMode)
	style, _ := mesh.ParseStyle(c.Plot.Style)
	opts := engine.DefaultOptions()
	opts.View = graph.View{Scale: c.View.Scale}
	opts.Window = c.Window()
	opts.Factor = c.Plot.Pregenerate
	opts.Controller = graph.ControllerConfig{
		ZoomFactor: c.View.ZoomFactor,
		MinScale:   c.View.MinScale,
		MaxScale:   c.View.MaxScale,
	}
	opts.Tessellator = mesh.Tessellator{
		Resolution: c.Plot.Resolution,
		HalfWidth:  c.Plot.HalfWidth,
		Mode:       mode,
		Style:      style,
	}
	opts.IndexWidth = mesh.IndexWidth(c.Plot.IndexWidth)
	return opts, nil
}

// ExportStyle builds the export style from the export section.
func (c AppConfig) ExportStyle() (export.Style, error) {
	st := export.DefaultStyle()
	bg, err := export.ParseHexColor(c.Export.Background)
	if err != nil {
		return st, fmt.Errorf("export.background: %w", err)
	}
	curve, err := export.ParseHexColor(c.Export.Curve)
	if err != nil {
		return st, fmt.Errorf("export.curve: %w", err)
	}
	st.Background = bg
	st.Curve = curve
	st.HideLabels = c.Export.HideLabels
	return st, nil
}
