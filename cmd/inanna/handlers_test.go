package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestServer wires a Server over a temp data directory with a discard
// logger.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Data.Dir = t.TempDir()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := NewServer(cfg, log)
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func postJSON(t *testing.T, handler http.Handler, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// login registers the admin account and returns the session cookie.
func login(t *testing.T, srv *Server, router http.Handler) []*http.Cookie {
	t.Helper()

	rec := postJSON(t, router, "/api/register", map[string]string{
		"username": "admin",
		"password": "secreta",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("registration should set a session cookie")
	}
	return cookies
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	router := srv.Router()

	// Unauthenticated API access is refused.
	rec := postJSON(t, router, "/api/markdown", map[string]string{"markdown": "x"}, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("unauthenticated status = %d, want 403", rec.Code)
	}

	cookies := login(t, srv, router)

	// The cookie opens the API.
	rec = postJSON(t, router, "/api/markdown", map[string]string{"markdown": "**hola**"}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d: %s", rec.Code, rec.Body)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp["html"], "<strong>hola</strong>") {
		t.Errorf("markdown response = %q", resp["html"])
	}

	// A second registration attempt is refused.
	rec = postJSON(t, router, "/api/register", map[string]string{"username": "otro", "password": "x"}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("second register status = %d, want 409", rec.Code)
	}

	// Wrong password is refused.
	rec = postJSON(t, router, "/api/login", map[string]string{"username": "admin", "password": "mala"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}

	// Logout revokes the session.
	rec = postJSON(t, router, "/api/logout", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec = postJSON(t, router, "/api/markdown", map[string]string{"markdown": "x"}, cookies)
	if rec.Code != http.StatusForbidden {
		t.Errorf("post-logout status = %d, want 403", rec.Code)
	}
}

func TestDeckEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	router := srv.Router()
	cookies := login(t, srv, router)

	deck := map[string]any{
		"slides": []map[string]string{
			{"template": "a", "markdown": "# Hola", "image": ""},
		},
		"styles": map[string]string{},
	}

	// Save.
	data, _ := json.Marshal(deck)
	req := httptest.NewRequest(http.MethodPut, "/api/decks/charla.xml", bytes.NewReader(data))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body)
	}

	// List includes it.
	req = httptest.NewRequest(http.MethodGet, "/api/decks", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "charla.xml") {
		t.Errorf("list status = %d body = %s", rec.Code, rec.Body)
	}

	// Load returns the slides.
	req = httptest.NewRequest(http.MethodGet, "/api/decks/charla.xml", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "# Hola") {
		t.Errorf("load status = %d body = %s", rec.Code, rec.Body)
	}

	// A missing deck degrades to an empty one instead of failing.
	req = httptest.NewRequest(http.MethodGet, "/api/decks/no-existe.xml", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("missing deck status = %d, want 200", rec.Code)
	}

	// Invalid names are rejected before touching the filesystem.
	req = httptest.NewRequest(http.MethodGet, "/api/decks/mala..extension", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid name status = %d, want 400", rec.Code)
	}

	// Delete.
	req = httptest.NewRequest(http.MethodDelete, "/api/decks/charla.xml", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	router := srv.Router()
	cookies := login(t, srv, router)

	rec := postJSON(t, router, "/api/preview", map[string]any{
		"deck": map[string]any{
			"slides": []map[string]string{{"template": "z", "markdown": "# Hola"}},
		},
		"slide_index":     0,
		"viewport_width":  1200,
		"viewport_height": 800,
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d: %s", rec.Code, rec.Body)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp["html"], "preview-stage") {
		t.Error("preview response missing stage markup")
	}
	if !strings.Contains(resp["html"], "width:52%") {
		t.Error("preview response missing template z split")
	}
}

func TestResourceUploadAndEdit(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	router := srv.Router()
	cookies := login(t, srv, router)

	// Upload a small PNG.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resource_file", "foto.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(testPNGBytes(t)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/resources", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body)
	}
	var uploaded map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &uploaded); err != nil {
		t.Fatal(err)
	}
	if uploaded["resource_path"] != "recursos/foto.png" {
		t.Errorf("resource_path = %q", uploaded["resource_path"])
	}

	// Edit it into a new resource.
	rec = postJSON(t, router, "/api/resources/edit", map[string]any{
		"resource_path": "recursos/foto.png",
		"new_filename":  "recorte",
		"brightness":    10,
		"contrast":      0,
		"crop":          map[string]int{"x": 0, "y": 0, "width": 2, "height": 2},
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d: %s", rec.Code, rec.Body)
	}
	var edited map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &edited); err != nil {
		t.Fatal(err)
	}
	if edited["resource_path"] != "recursos/recorte.png" {
		t.Errorf("edited resource_path = %q", edited["resource_path"])
	}

	// Editing a non-image is refused.
	rec = postJSON(t, router, "/api/resources/edit", map[string]any{
		"resource_path": "recursos/documento.pdf",
		"new_filename":  "x",
	}, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-image edit status = %d, want 400", rec.Code)
	}
}

func TestExportFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"charla.xml", "charla.pdf"},
		{"mi charla!", "mi-charla.pdf"},
		{"", "presentacion.pdf"},
		{"---", "presentacion.pdf"},
		{"ok_nombre-1", "ok_nombre-1.pdf"},
	}
	for _, tt := range tests {
		if got := exportFilename(tt.in); got != tt.want {
			t.Errorf("exportFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// testPNGBytes returns a tiny valid PNG.
func testPNGBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
