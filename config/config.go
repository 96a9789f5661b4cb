// Package config reads viewer configuration files. YAML and TOML are both accepted; fields left out of a file
// keep their defaults.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/viewer"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Grid overrides the grid options.
type Grid struct {
	Show        *bool       `yaml:"show" toml:"show"`
	Color       *[4]float32 `yaml:"color" toml:"color"`
	SubColor    *[4]float32 `yaml:"subColor" toml:"subColor"`
	FadeOut     *bool       `yaml:"fadeOut" toml:"fadeOut"`
	Transparent *bool       `yaml:"transparent" toml:"transparent"`
	Size        *[2]float32 `yaml:"size" toml:"size"`
	Ticks       *[2]float32 `yaml:"ticks" toml:"ticks"`
}

// Axis overrides the axis options.
type Axis struct {
	Show *bool `yaml:"show" toml:"show"`
}

// Camera overrides the initial camera position and pointer sensitivities.
type Camera struct {
	InitialPosition *[3]float32 `yaml:"initialPosition" toml:"initialPosition"`
	PanSpeed        *float32    `yaml:"panSpeed" toml:"panSpeed"`
	RotateSpeed     *float32    `yaml:"rotateSpeed" toml:"rotateSpeed"`
	ZoomSpeed       *float32    `yaml:"zoomSpeed" toml:"zoomSpeed"`
}

// File is the on-disk configuration. Every field is optional.
type File struct {
	Animate *bool `yaml:"animate" toml:"animate"`
	// AnimationRate is the delay between timer renders in milliseconds.
	AnimationRate *int    `yaml:"animationRate" toml:"animationRate"`
	Width         *int    `yaml:"width" toml:"width"`
	Height        *int    `yaml:"height" toml:"height"`
	Grid          *Grid   `yaml:"gridOptions" toml:"gridOptions"`
	Axis          *Axis   `yaml:"axisOptions" toml:"axisOptions"`
	Camera        *Camera `yaml:"viewerOptions" toml:"viewerOptions"`

	// Solids are glTF files to load, relative to the configuration file.
	Solids []string `yaml:"solids" toml:"solids"`
	// Watch reloads solids when their files change.
	Watch *bool `yaml:"watch" toml:"watch"`

	dir string
}

// FormatOf picks the format from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the format
//   - error: if the extension is not recognized
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", errors.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// Load reads a configuration file. A leading ~ is expanded to the home directory.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *File: the parsed configuration
//   - error: if the file cannot be read or parsed
func Load(path string) (*File, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to expand %s", path)
	}
	format, err := FormatOf(expanded)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read %s", expanded)
	}
	f, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse %s", expanded)
	}
	f.dir = filepath.Dir(expanded)
	return f, nil
}

// Decode parses a configuration from r.
//
// Parameters:
//   - r: the source
//   - format: the syntax of r
//
// Returns:
//   - *File: the parsed configuration
//   - error: if r cannot be parsed
func Decode(r io.Reader, format Format) (*File, error) {
	f := &File{}
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "Failed to unmarshal yaml")
		}
	case TOML:
		if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(f); err != nil {
			return nil, errors.Wrap(err, "Failed to unmarshal toml")
		}
	default:
		return nil, errors.Errorf("unsupported config format %q", format)
	}
	return f, nil
}

// Apply overlays the fields set in f onto o.
//
// Parameters:
//   - o: the options to override, usually viewer.DefaultOptions()
//
// Returns:
//   - viewer.Options: the merged options
func (f *File) Apply(o viewer.Options) viewer.Options {
	if f == nil {
		return o
	}
	setIf(&o.Animate, f.Animate)
	if f.AnimationRate != nil {
		o.AnimationRate = time.Duration(*f.AnimationRate) * time.Millisecond
	}
	setIf(&o.Width, f.Width)
	setIf(&o.Height, f.Height)
	if g := f.Grid; g != nil {
		setIf(&o.Grid.Show, g.Show)
		setIf(&o.Grid.Color, g.Color)
		setIf(&o.Grid.SubColor, g.SubColor)
		setIf(&o.Grid.FadeOut, g.FadeOut)
		setIf(&o.Grid.Transparent, g.Transparent)
		setIf(&o.Grid.Size, g.Size)
		setIf(&o.Grid.Ticks, g.Ticks)
	}
	if a := f.Axis; a != nil {
		setIf(&o.Axis.Show, a.Show)
	}
	if c := f.Camera; c != nil {
		if c.InitialPosition != nil {
			o.Camera.InitialPosition = *c.InitialPosition
		}
		setIf(&o.Camera.PanSpeed, c.PanSpeed)
		setIf(&o.Camera.RotateSpeed, c.RotateSpeed)
		setIf(&o.Camera.ZoomSpeed, c.ZoomSpeed)
	}
	return o
}

// SolidPaths returns the solids resolved against the configuration file's directory.
func (f *File) SolidPaths() []string {
	if f == nil {
		return nil
	}
	paths := make([]string, 0, len(f.Solids))
	for _, p := range f.Solids {
		if expanded, err := homedir.Expand(p); err == nil {
			p = expanded
		}
		if !filepath.IsAbs(p) && f.dir != "" {
			p = filepath.Join(f.dir, p)
		}
		paths = append(paths, p)
	}
	return paths
}

// WatchEnabled reports whether solids should be reloaded on change.
func (f *File) WatchEnabled() bool {
	return f != nil && f.Watch != nil && *f.Watch
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
