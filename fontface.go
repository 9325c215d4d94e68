package inanna

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/inanna-press/inanna/internal/fileutil"
)

// FontAssets is the result of resolving one family: the @font-face CSS for
// every weight that could be satisfied, and a map from requested weight to
// the weight actually registered (e.g. 700 -> 600 when only a semibold file
// exists). A weight with no usable variant appears in neither.
type FontAssets struct {
	CSS     string
	Weights map[int]int
}

// WeightOr returns the registered weight for a requested one, or fallback
// when the request could not be satisfied.
func (a FontAssets) WeightOr(requested, fallback int) int {
	if w, ok := a.Weights[requested]; ok {
		return w
	}
	return fallback
}

// fontFetcher abstracts font binary downloads so tests can count and fake them.
type fontFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// httpFontFetcher downloads font binaries over HTTP.
type httpFontFetcher struct {
	client *http.Client
}

func (f *httpFontFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// FontFaceResolver turns font family names into @font-face declarations
// backed by a local binary cache, so the PDF renderer never needs network
// access. Resolution degrades instead of failing: a weight or family that
// cannot be satisfied is silently skipped and CSS font stacks fall back to
// sans-serif.
type FontFaceResolver struct {
	index    FontIndex
	cacheDir string
	baseDir  string // url() paths are emitted relative to this directory
	fetcher  fontFetcher
}

// NewFontFaceResolver creates a resolver caching binaries under cacheDir.
// CSS url() paths are emitted relative to baseDir, which should be the
// directory the exported document's <base> href points at.
func NewFontFaceResolver(index FontIndex, cacheDir, baseDir string) *FontFaceResolver {
	return &FontFaceResolver{
		index:    index,
		cacheDir: cacheDir,
		baseDir:  baseDir,
		fetcher:  &httpFontFetcher{client: &http.Client{Timeout: 30 * time.Second}},
	}
}

// variantCandidates builds the ordered variant fallback list for a weight:
// 400 tries "regular" then "400"; 700 additionally softens to "600" and
// "500"; "regular" is always the last resort.
func variantCandidates(weight int) []string {
	var candidates []string
	if weight == 400 {
		candidates = append(candidates, "regular", "400")
	} else {
		candidates = append(candidates, strconv.Itoa(weight))
	}
	if weight == 700 {
		candidates = append(candidates, "600", "500")
	}
	return append(candidates, "regular")
}

// Resolve emits @font-face CSS for the requested weights of one family.
// Caching is idempotent: a variant already on disk is not fetched again.
func (r *FontFaceResolver) Resolve(ctx context.Context, family string, weights []int) FontAssets {
	assets := FontAssets{Weights: map[int]int{}}

	entry, ok := r.index.Lookup(family)
	if !ok || len(entry.Files) == 0 {
		return assets
	}

	var css strings.Builder
	for _, weight := range dedupeInts(weights) {
		variant := ""
		for _, candidate := range variantCandidates(weight) {
			if _, ok := entry.Files[candidate]; ok {
				variant = candidate
				break
			}
		}
		if variant == "" {
			continue
		}

		cachedPath, err := r.ensureCached(ctx, family, variant, entry.Files[variant])
		if err != nil {
			continue
		}

		actual := actualWeight(variant, weight)
		format := fontFormat(strings.TrimPrefix(filepath.Ext(cachedPath), "."))
		fmt.Fprintf(&css, "@font-face { font-family: '%s'; font-style: normal; font-weight: %d; src: url('%s') format('%s'); }\n",
			escapeCSSQuotes(family), actual, r.cssPath(cachedPath), format)
		assets.Weights[weight] = actual
	}

	assets.CSS = css.String()
	return assets
}

// ResolvePair resolves the title and text families for weights 400 and 700,
// collapsing to a single resolution when both name the same family.
func (r *FontFaceResolver) ResolvePair(ctx context.Context, titleFamily, textFamily string) (css string, title, text FontAssets) {
	weights := []int{400, 700}
	title = r.Resolve(ctx, titleFamily, weights)
	if strings.EqualFold(titleFamily, textFamily) {
		return title.CSS, title, title
	}
	text = r.Resolve(ctx, textFamily, weights)
	return title.CSS + text.CSS, title, text
}

// ensureCached downloads the variant binary unless it is already on disk,
// returning the cached file path.
func (r *FontFaceResolver) ensureCached(ctx context.Context, family, variant, rawURL string) (string, error) {
	if err := os.MkdirAll(r.cacheDir, 0o755); err != nil {
		return "", err
	}

	filename := sanitizeFamily(family) + "-" + strings.ToLower(variant) + "." + urlExtension(rawURL)
	target := filepath.Join(r.cacheDir, filename)

	if fileutil.FileExists(target) {
		return target, nil
	}

	data, err := r.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}

// cssPath converts a cached file path to the form used in url(): relative
// to baseDir when possible, forward slashes always.
func (r *FontFaceResolver) cssPath(cached string) string {
	if r.baseDir != "" {
		if rel, err := filepath.Rel(r.baseDir, cached); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(cached)
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

func sanitizeFamily(family string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(family), "-")
}

// urlExtension extracts the file extension from a download URL, defaulting
// to ttf when the path has none.
func urlExtension(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "ttf"
	}
	ext := strings.TrimPrefix(path.Ext(parsed.Path), ".")
	if ext == "" {
		return "ttf"
	}
	return strings.ToLower(ext)
}

// fontFormat maps a file extension to the CSS font format identifier.
func fontFormat(extension string) string {
	switch strings.ToLower(extension) {
	case "woff2":
		return "woff2"
	case "woff":
		return "woff"
	case "otf":
		return "opentype"
	default:
		return "truetype"
	}
}

// actualWeight derives the numeric weight a variant registers as: "regular"
// is 400, otherwise the digits of the variant name, else the requested weight.
func actualWeight(variant string, requested int) int {
	if variant == "regular" {
		return 400
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, variant)
	if n, err := strconv.Atoi(digits); err == nil && n != 0 {
		return n
	}
	return requested
}

func escapeCSSQuotes(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func dedupeInts(values []int) []int {
	seen := make(map[int]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
