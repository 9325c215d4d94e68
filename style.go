package inanna

import (
	"sort"
	"strings"
)

// Style is a deck's font and color theme: two font families and seven named
// colors. All nine fields are guaranteed non-empty after ResolveStyle.
type Style struct {
	FontTitle      string `json:"font_title"`
	FontText       string `json:"font_text"`
	ColorH1        string `json:"color_h1"`
	ColorH2        string `json:"color_h2"`
	ColorH3        string `json:"color_h3"`
	ColorHighlight string `json:"color_highlight"`
	ColorText      string `json:"color_text"`
	ColorBg        string `json:"color_bg"`
	ColorBox       string `json:"color_box"`

	// ColorTitle is derived: it defaults to ColorH1 when absent and is
	// never required in persisted styles.
	ColorTitle string `json:"color_title,omitempty"`
}

// DefaultStyle returns the hardcoded default theme.
func DefaultStyle() Style {
	return Style{
		FontTitle:      "Gabarito",
		FontText:       "Noto Sans",
		ColorH1:        "#1b8eed",
		ColorH2:        "#1b8eed",
		ColorH3:        "#1b8eed",
		ColorHighlight: "#ea2f28",
		ColorText:      "#2f2f2f",
		ColorBg:        "#ffffff",
		ColorBox:       "#f4f6f8",
	}
}

// ResolveStyle merges partial onto fallback onto the hardcoded defaults,
// field by field: a non-empty value in partial wins, then fallback, then the
// default. The result always has all nine fields populated and ColorTitle
// derived. Neither input is mutated and resolution never fails.
func ResolveStyle(partial, fallback Style) Style {
	def := DefaultStyle()
	out := Style{
		FontTitle:      pick(partial.FontTitle, fallback.FontTitle, def.FontTitle),
		FontText:       pick(partial.FontText, fallback.FontText, def.FontText),
		ColorH1:        pick(partial.ColorH1, fallback.ColorH1, def.ColorH1),
		ColorH2:        pick(partial.ColorH2, fallback.ColorH2, def.ColorH2),
		ColorH3:        pick(partial.ColorH3, fallback.ColorH3, def.ColorH3),
		ColorHighlight: pick(partial.ColorHighlight, fallback.ColorHighlight, def.ColorHighlight),
		ColorText:      pick(partial.ColorText, fallback.ColorText, def.ColorText),
		ColorBg:        pick(partial.ColorBg, fallback.ColorBg, def.ColorBg),
		ColorBox:       pick(partial.ColorBox, fallback.ColorBox, def.ColorBox),
	}
	out.ColorTitle = pick(partial.ColorTitle, fallback.ColorTitle, out.ColorH1)
	return out
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsComplete reports whether all nine required fields are populated.
func (s Style) IsComplete() bool {
	return s.FontTitle != "" && s.FontText != "" &&
		s.ColorH1 != "" && s.ColorH2 != "" && s.ColorH3 != "" &&
		s.ColorHighlight != "" && s.ColorText != "" &&
		s.ColorBg != "" && s.ColorBox != ""
}

// PrimaryFont extracts the first family from a possibly comma-separated
// font stack, stripping quotes. Returns fallback when the value is empty.
func PrimaryFont(fontValue, fallback string) string {
	primary, _, _ := strings.Cut(fontValue, ",")
	primary = strings.Trim(strings.TrimSpace(primary), `"'`)
	if primary == "" {
		return fallback
	}
	return primary
}

// StylePreset is a named, reusable Style saved independently of any deck.
type StylePreset struct {
	Name  string `json:"name"`
	Style Style  `json:"style"`
}

// SortPresets orders presets by name for stable listings.
func SortPresets(presets []StylePreset) {
	sort.Slice(presets, func(i, j int) bool {
		return presets[i].Name < presets[j].Name
	})
}
