package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.TabSize != 2 {
		t.Fatalf("expected tab size 2, got %d", cfg.TabSize)
	}
	if !cfg.SkipUnmatchedOnDelete {
		t.Fatalf("expected skip_unmatched_on_delete on by default")
	}
	if cfg.AfterMotion != "insert" {
		t.Fatalf("expected after_motion insert, got %q", cfg.AfterMotion)
	}
	if _, ok := Themes[cfg.Theme]; !ok {
		t.Fatalf("expected default theme to exist, got %q", cfg.Theme)
	}
}

func TestValidateFallbacks(t *testing.T) {
	cfg := &Config{TabSize: -1, Theme: "no-such-theme", AfterMotion: "bogus"}
	cfg.validate()

	if cfg.TabSize != 2 {
		t.Fatalf("expected tab size fallback 2, got %d", cfg.TabSize)
	}
	if cfg.Theme != "dark" {
		t.Fatalf("expected theme fallback dark, got %q", cfg.Theme)
	}
	if cfg.AfterMotion != "off" {
		t.Fatalf("expected after_motion fallback off, got %q", cfg.AfterMotion)
	}
}
