package stylestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inanna-press/inanna"
)

func TestLoadStylesMissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	got := store.LoadStyles()

	want := inanna.ResolveStyle(inanna.Style{}, inanna.DefaultStyle())
	if got != want {
		t.Errorf("LoadStyles() = %+v, want defaults", got)
	}
}

func TestSaveLoadStyles(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	saved := inanna.ResolveStyle(inanna.Style{FontTitle: "Lora", ColorH1: "#123456"}, inanna.DefaultStyle())

	if err := store.SaveStyles(saved); err != nil {
		t.Fatalf("SaveStyles() error: %v", err)
	}

	got := store.LoadStyles()
	if got.FontTitle != "Lora" || got.ColorH1 != "#123456" {
		t.Errorf("LoadStyles() = %+v, want saved values", got)
	}
	// Unsaved fields resolve to defaults.
	if got.FontText != inanna.DefaultStyle().FontText {
		t.Errorf("FontText = %q, want default", got.FontText)
	}
}

func TestLoadStylesCorruptFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "styles.json"), []byte("{roto"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := New(dir).LoadStyles()
	if got != inanna.ResolveStyle(inanna.Style{}, inanna.DefaultStyle()) {
		t.Errorf("corrupt styles should yield defaults, got %+v", got)
	}
}

func TestPresetLifecycle(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())

	if presets := store.LoadPresets(); len(presets) != 0 {
		t.Fatalf("fresh store has %d presets, want 0", len(presets))
	}

	for _, name := range []string{"noche", "aurora"} {
		if err := store.SavePreset(inanna.StylePreset{Name: name, Style: inanna.DefaultStyle()}); err != nil {
			t.Fatalf("SavePreset(%q) error: %v", name, err)
		}
	}

	presets := store.LoadPresets()
	if len(presets) != 2 || presets[0].Name != "aurora" || presets[1].Name != "noche" {
		t.Fatalf("LoadPresets() = %v, want sorted [aurora noche]", presetNames(presets))
	}

	// Saving an existing name replaces it instead of duplicating.
	updated := inanna.StylePreset{Name: "noche", Style: inanna.Style{ColorBg: "#000000"}}
	if err := store.SavePreset(updated); err != nil {
		t.Fatal(err)
	}
	presets = store.LoadPresets()
	if len(presets) != 2 {
		t.Fatalf("replacement produced %d presets, want 2", len(presets))
	}
	if presets[1].Style.ColorBg != "#000000" {
		t.Error("replacement did not update the preset style")
	}

	if err := store.DeletePreset("noche"); err != nil {
		t.Fatalf("DeletePreset() error: %v", err)
	}
	presets = store.LoadPresets()
	if len(presets) != 1 || presets[0].Name != "aurora" {
		t.Errorf("after delete, presets = %v", presetNames(presets))
	}

	// Deleting an absent preset is a no-op.
	if err := store.DeletePreset("no-existe"); err != nil {
		t.Errorf("deleting absent preset: %v", err)
	}
}

func TestSavePresetRequiresName(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())
	if err := store.SavePreset(inanna.StylePreset{}); err == nil {
		t.Error("expected error for unnamed preset")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()

	store := New(t.TempDir())

	if got := store.LoadConfig(); got != (Config{}) {
		t.Errorf("fresh config = %+v, want zero", got)
	}

	if err := store.SaveConfig(Config{GoogleFontsAPIKey: "clave-123"}); err != nil {
		t.Fatalf("SaveConfig() error: %v", err)
	}
	if got := store.LoadConfig(); got.GoogleFontsAPIKey != "clave-123" {
		t.Errorf("LoadConfig() = %+v", got)
	}
}

func presetNames(presets []inanna.StylePreset) []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}
