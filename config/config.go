package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
)

type Config struct {
	TabSize      int    `json:"tab_size"`
	Theme        string `json:"theme"`
	KeymapPreset string `json:"keymap_preset"`

	// SkipUnmatchedOnDelete keeps the backward line-join heuristic after a
	// linewise delete that leaves an unmatched closer behind.
	SkipUnmatchedOnDelete bool `json:"skip_unmatched_on_delete"`

	// AfterMotion is "off", "insert" or "emacs": whether resolving a change
	// motion drops the editor into insert mode.
	AfterMotion string `json:"after_motion"`
}

func Default() *Config {
	return &Config{
		TabSize:               2,
		Theme:                 "dark",
		KeymapPreset:          "vim",
		SkipUnmatchedOnDelete: true,
		AfterMotion:           "insert",
	}
}

func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sexpedit", "config.json"), nil
}

func Load() (*Config, error) {
	cfg := Default()
	p, err := Path()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	cfg.validate()
	return cfg, nil
}

func (c *Config) Save() error {
	p, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

func (c *Config) validate() {
	if c.TabSize <= 0 {
		c.TabSize = 2
	}
	switch c.AfterMotion {
	case "off", "insert", "emacs":
	default:
		c.AfterMotion = "off"
	}
	if _, ok := Themes[c.Theme]; !ok {
		c.Theme = "dark"
	}
}

// Watch reloads the config whenever its file changes and hands the result
// to fn. Events are debounced; editors rewrite config files in bursts.
// Close the returned watcher to stop.
func Watch(fn func(*Config)) (*fsnotify.Watcher, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(p)); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var pending bool
		var timer <-chan time.Time
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != p {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					pending = true
					timer = time.After(100 * time.Millisecond)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case <-timer:
				if pending {
					pending = false
					if cfg, err := Load(); err == nil {
						fn(cfg)
					}
				}
			}
		}
	}()
	return watcher, nil
}

type ColorScheme struct {
	Name             string
	Background       tcell.Color
	Foreground       tcell.Color
	Selection        tcell.Color
	LineNumber       tcell.Color
	LineNumberActive tcell.Color
	StatusBarBg      tcell.Color
	StatusBarFg      tcell.Color
	StatusBarModeBg  tcell.Color
	MatchedParen     tcell.Color
	UnmatchedParen   tcell.Color
}

var Themes = map[string]*ColorScheme{
	"dark": {
		Name:             "Dark",
		Background:       tcell.ColorBlack,
		Foreground:       tcell.ColorWhite,
		Selection:        tcell.ColorDarkBlue,
		LineNumber:       tcell.ColorGray,
		LineNumberActive: tcell.ColorWhite,
		StatusBarBg:      tcell.ColorDarkBlue,
		StatusBarFg:      tcell.ColorWhite,
		StatusBarModeBg:  tcell.ColorBlue,
		MatchedParen:     tcell.ColorGreen,
		UnmatchedParen:   tcell.ColorRed,
	},
	"light": {
		Name:             "Light",
		Background:       tcell.ColorWhite,
		Foreground:       tcell.ColorBlack,
		Selection:        tcell.ColorLightBlue,
		LineNumber:       tcell.ColorDarkGray,
		LineNumberActive: tcell.ColorBlack,
		StatusBarBg:      tcell.ColorLightBlue,
		StatusBarFg:      tcell.ColorBlack,
		StatusBarModeBg:  tcell.ColorBlue,
		MatchedParen:     tcell.ColorDarkGreen,
		UnmatchedParen:   tcell.ColorRed,
	},
}
