package inanna

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FontIndex maps lower-cased font family names to their catalog entries.
// It is built from the upstream webfonts catalog and is immutable per fetch.
type FontIndex map[string]FontFamily

// FontFamily is one catalog entry: the family's canonical name and its
// available files keyed by variant name ("regular", "700", "italic", ...).
type FontFamily struct {
	Family string            `json:"family"`
	Files  map[string]string `json:"files"`
}

// fontCatalog mirrors the upstream webfonts API response shape.
type fontCatalog struct {
	Items []FontFamily `json:"items"`
}

// ParseFontIndex builds a FontIndex from raw webfonts catalog JSON.
// Entries without a family name are skipped.
func ParseFontIndex(data []byte) (FontIndex, error) {
	var catalog fontCatalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing font catalog: %w", err)
	}

	index := make(FontIndex, len(catalog.Items))
	for _, item := range catalog.Items {
		if item.Family == "" {
			continue
		}
		index[strings.ToLower(item.Family)] = item
	}
	return index, nil
}

// Lookup returns the catalog entry for a family, matching case-insensitively.
func (idx FontIndex) Lookup(family string) (FontFamily, bool) {
	entry, ok := idx[strings.ToLower(family)]
	return entry, ok
}
