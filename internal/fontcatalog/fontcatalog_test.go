package fontcatalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const catalogJSON = `{"items":[
  {"family":"Gabarito","files":{"regular":"https://fonts.example/g.ttf"}},
  {"family":"Noto Sans","files":{"regular":"https://fonts.example/n.ttf","700":"https://fonts.example/n700.ttf"}}
]}`

func TestFetchRequiresAPIKey(t *testing.T) {
	t.Parallel()

	err := Fetch(context.Background(), nil, "", filepath.Join(t.TempDir(), "cache.json"))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Fetch() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestFetchWritesCache(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(catalogJSON))
	}))
	defer server.Close()

	cachePath := filepath.Join(t.TempDir(), "data", "google_fonts.json")
	err := fetchFrom(t, server, "clave-123", cachePath)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if gotQuery == "" || !containsParam(gotQuery, "key=clave-123") || !containsParam(gotQuery, "sort=popularity") {
		t.Errorf("request query = %q, want key and popularity sort", gotQuery)
	}

	index, err := LoadIndex(cachePath)
	if err != nil {
		t.Fatalf("LoadIndex() error: %v", err)
	}
	if _, ok := index.Lookup("Noto Sans"); !ok {
		t.Error("cached catalog should index Noto Sans")
	}
}

func TestFetchKeepsCacheOnBadResponse(t *testing.T) {
	t.Parallel()

	cachePath := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(cachePath, []byte(catalogJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "denegado", http.StatusForbidden)
			},
		},
		{
			name: "invalid payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("no es json"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := fetchFrom(t, server, "clave", cachePath)
			if !errors.Is(err, ErrFetchFailed) {
				t.Errorf("Fetch() error = %v, want ErrFetchFailed", err)
			}

			// The previous catalog is still intact.
			index, err := LoadIndex(cachePath)
			if err != nil {
				t.Fatalf("LoadIndex() error: %v", err)
			}
			if _, ok := index.Lookup("Gabarito"); !ok {
				t.Error("failed fetch must not clobber the existing cache")
			}
		})
	}
}

func TestLoadIndexMissingCache(t *testing.T) {
	t.Parallel()

	index, err := LoadIndex(filepath.Join(t.TempDir(), "no-existe.json"))
	if err != nil {
		t.Fatalf("LoadIndex() error: %v", err)
	}
	if len(index) != 0 {
		t.Errorf("missing cache should yield an empty index, got %d entries", len(index))
	}
}

// fetchFrom points the catalog endpoint at a test server for one call.
func fetchFrom(t *testing.T, server *httptest.Server, apiKey, cachePath string) error {
	t.Helper()
	client := server.Client()
	client.Transport = &rewriteTransport{base: http.DefaultTransport, target: server.URL}
	return Fetch(context.Background(), client, apiKey, cachePath)
}

// rewriteTransport redirects all requests to the test server, keeping the
// original query string.
type rewriteTransport struct {
	base   http.RoundTripper
	target string
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method, t.target+"?"+req.URL.RawQuery, nil)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(redirected)
}

func containsParam(query, param string) bool {
	for _, part := range strings.Split(query, "&") {
		if part == param {
			return true
		}
	}
	return false
}
