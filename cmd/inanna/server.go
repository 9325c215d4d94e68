package main

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/inanna-press/inanna"
	"github.com/inanna-press/inanna/internal/auth"
	"github.com/inanna-press/inanna/internal/deckstore"
	"github.com/inanna-press/inanna/internal/fontcatalog"
	"github.com/inanna-press/inanna/internal/resources"
	"github.com/inanna-press/inanna/internal/stylestore"
)

// fontCatalogFile is where the fetched webfonts catalog is cached.
const fontCatalogFile = "data/google_fonts.json"

// Server owns the application state and HTTP routing.
type Server struct {
	cfg       *Config
	log       *slog.Logger
	svc       *inanna.Service
	decks     *deckstore.Store
	styles    *stylestore.Store
	resources *resources.Store
	accounts  *auth.Store
	sessions  *sessionStore
}

// NewServer wires the application together from config.
func NewServer(cfg *Config, log *slog.Logger) (*Server, error) {
	dataDir := filepath.Join(cfg.Data.Dir, "data")

	index, err := fontcatalog.LoadIndex(filepath.Join(cfg.Data.Dir, fontCatalogFile))
	if err != nil {
		log.Warn("font catalog unreadable, exports fall back to system fonts", "error", err)
		index = inanna.FontIndex{}
	}

	svc := inanna.New(
		inanna.WithBaseDir(cfg.Data.Dir),
		inanna.WithFontIndex(index),
		inanna.WithPreviewBaseURL(cfg.Server.BaseURL),
	)

	return &Server{
		cfg:       cfg,
		log:       log,
		svc:       svc,
		decks:     deckstore.New(filepath.Join(dataDir, "archivo")),
		styles:    stylestore.New(dataDir),
		resources: resources.New(filepath.Join(cfg.Data.Dir, cfg.Data.ResourcesDir)),
		accounts:  auth.New(filepath.Join(dataDir, "users.json")),
		sessions:  newSessionStore(),
	}, nil
}

// Close releases service resources (the headless browser).
func (s *Server) Close() error {
	return s.svc.Close()
}

// Router builds the HTTP route table. Everything except login and
// first-user registration requires a live session.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.handleLogout).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.requireSession)

	api.HandleFunc("/markdown", s.handleMarkdown).Methods(http.MethodPost)
	api.HandleFunc("/preview", s.handlePreview).Methods(http.MethodPost)
	api.HandleFunc("/thumbnail", s.handleThumbnail).Methods(http.MethodPost)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodPost)

	api.HandleFunc("/decks", s.handleListDecks).Methods(http.MethodGet)
	api.HandleFunc("/decks/{name}", s.handleLoadDeck).Methods(http.MethodGet)
	api.HandleFunc("/decks/{name}", s.handleSaveDeck).Methods(http.MethodPut)
	api.HandleFunc("/decks/{name}", s.handleDeleteDeck).Methods(http.MethodDelete)
	api.HandleFunc("/decks/{name}/thumbnail", s.handleDeckThumbnail).Methods(http.MethodGet)

	api.HandleFunc("/resources", s.handleListResources).Methods(http.MethodGet)
	api.HandleFunc("/resources", s.handleUploadResource).Methods(http.MethodPost)
	api.HandleFunc("/resources", s.handleDeleteResource).Methods(http.MethodDelete)
	api.HandleFunc("/resources/edit", s.handleEditResource).Methods(http.MethodPost)

	api.HandleFunc("/styles", s.handleGetStyles).Methods(http.MethodGet)
	api.HandleFunc("/styles", s.handleSaveStyles).Methods(http.MethodPost)
	api.HandleFunc("/presets", s.handleListPresets).Methods(http.MethodGet)
	api.HandleFunc("/presets", s.handleSavePreset).Methods(http.MethodPost)
	api.HandleFunc("/presets/{name}", s.handleDeletePreset).Methods(http.MethodDelete)

	api.HandleFunc("/config", s.handleGetConfig).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handleSaveConfig).Methods(http.MethodPost)
	api.HandleFunc("/fonts/refresh", s.handleRefreshFonts).Methods(http.MethodPost)

	// Uploaded assets are served directly so previews can reference them.
	prefix := "/" + s.resources.Prefix() + "/"
	r.PathPrefix(prefix).Handler(http.StripPrefix(prefix,
		http.FileServer(http.Dir(filepath.Join(s.cfg.Data.Dir, s.cfg.Data.ResourcesDir)))))

	return s.logRequests(r)
}

// requireSession rejects requests without a valid session cookie.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || !s.sessions.Valid(cookie.Value) {
			writeJSONError(w, http.StatusForbidden, "acceso denegado")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path)
	})
}
