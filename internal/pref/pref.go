// Package pref holds the user preferences that the main window reads and
// writes, stored as YAML in the config directory.
package pref

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	FileName = "preferences.yaml"
	appDir   = "pxed"

	// DirEnv overrides the config directory.
	DirEnv = "PXED_CONFIG_DIR"

	MainWindow = "main_window"

	DefaultTimelineSplitter = 75
	maxUIScale              = 4
)

type TimelinePosition string

const (
	TimelineLeft   TimelinePosition = "left"
	TimelineRight  TimelinePosition = "right"
	TimelineBottom TimelinePosition = "bottom"
)

func (p TimelinePosition) Valid() bool {
	switch p {
	case TimelineLeft, TimelineRight, TimelineBottom:
		return true
	}
	return false
}

type General struct {
	UIScale     int    `yaml:"ui_scale"`
	ShowMenuBar bool   `yaml:"show_menu_bar"`
	Layout      string `yaml:"layout"`
}

type Timeline struct {
	Position TimelinePosition `yaml:"position"`
	Visible  bool             `yaml:"visible"`
}

// WindowLayout is the legacy per-window layout state. TimelineSplitter is
// the share of the workspace, in percent, left to the editor when the
// timeline is docked.
type WindowLayout struct {
	TimelineSplitter int `yaml:"timeline_splitter"`
}

type Preferences struct {
	General  General                 `yaml:"general"`
	Timeline Timeline                `yaml:"timeline"`
	Layout   map[string]WindowLayout `yaml:"layout"`
}

func Default() *Preferences {
	return &Preferences{
		General:  General{UIScale: 1, ShowMenuBar: true},
		Timeline: Timeline{Position: TimelineBottom, Visible: true},
		Layout: map[string]WindowLayout{
			MainWindow: {TimelineSplitter: DefaultTimelineSplitter},
		},
	}
}

// DefaultDir returns $PXED_CONFIG_DIR, or the pxed directory under the user
// config directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("pref: config dir: %w", err)
	}
	return filepath.Join(base, appDir), nil
}

func Path(dir string) string { return filepath.Join(dir, FileName) }

// Load reads the preferences at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Preferences, error) {
	p := Default()
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(b, p); err != nil {
		return Default(), fmt.Errorf("pref: parse %s: %w", path, err)
	}
	p.Normalize()
	return p, nil
}

func (p *Preferences) Save(path string) error {
	p.Normalize()
	b, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("pref: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && filepath.Dir(path) != "." {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Normalize clamps out of range values back into range.
func (p *Preferences) Normalize() {
	p.General.UIScale = min(max(p.General.UIScale, 1), maxUIScale)
	if !p.Timeline.Position.Valid() {
		p.Timeline.Position = TimelineBottom
	}
	if p.Layout == nil {
		p.Layout = map[string]WindowLayout{}
	}
	for k, v := range p.Layout {
		if v.TimelineSplitter != 0 {
			v.TimelineSplitter = clampSplitter(v.TimelineSplitter)
			p.Layout[k] = v
		}
	}
}

// TimelineSplitter returns the main window splitter ratio, or the default
// when it was never set.
func (p *Preferences) TimelineSplitter() int {
	if v := p.Layout[MainWindow].TimelineSplitter; v > 0 {
		return clampSplitter(v)
	}
	return DefaultTimelineSplitter
}

// SetTimelineSplitter stores the main window splitter ratio clamped to
// 1..99.
func (p *Preferences) SetTimelineSplitter(v int) {
	if p.Layout == nil {
		p.Layout = map[string]WindowLayout{}
	}
	l := p.Layout[MainWindow]
	l.TimelineSplitter = clampSplitter(v)
	p.Layout[MainWindow] = l
}

func clampSplitter(v int) int { return min(max(v, 1), 99) }
