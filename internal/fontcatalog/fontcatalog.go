// Package fontcatalog fetches the Google webfonts catalog and caches it
// wholesale as a local JSON file. The cached file is the source the
// library's FontIndex is built from; refreshes replace it atomically from
// the caller's point of view (single write).
package fontcatalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/inanna-press/inanna"
)

// apiURL is the webfonts catalog endpoint.
const apiURL = "https://www.googleapis.com/webfonts/v1/webfonts"

// Sentinel errors for catalog operations.
var (
	ErrMissingAPIKey = errors.New("no Google Fonts API key configured")
	ErrFetchFailed   = errors.New("font catalog fetch failed")
)

// Fetch downloads the catalog (sorted by popularity) and writes it to
// cachePath. The previous cache survives any failure.
func Fetch(ctx context.Context, client *http.Client, apiKey, cachePath string) error {
	if apiKey == "" {
		return ErrMissingAPIKey
	}
	if client == nil {
		client = http.DefaultClient
	}

	query := url.Values{}
	query.Set("key", apiKey)
	query.Set("sort", "popularity")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrFetchFailed, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrFetchFailed, err)
	}

	// Validate before replacing the cache so a bad response never
	// clobbers a good catalog.
	if _, err := inanna.ParseFontIndex(data); err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog cache: %w", err)
	}
	return nil
}

// LoadIndex builds a FontIndex from the cached catalog file. A missing
// cache yields an empty index, never an error: font resolution degrades
// to system fonts.
func LoadIndex(cachePath string) (inanna.FontIndex, error) {
	data, err := os.ReadFile(cachePath) // #nosec G304 -- path configured by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return inanna.FontIndex{}, nil
		}
		return nil, fmt.Errorf("reading catalog cache: %w", err)
	}
	return inanna.ParseFontIndex(data)
}
