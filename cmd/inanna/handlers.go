package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/inanna-press/inanna"
	"github.com/inanna-press/inanna/internal/auth"
	"github.com/inanna-press/inanna/internal/deckstore"
	"github.com/inanna-press/inanna/internal/fontcatalog"
	"github.com/inanna-press/inanna/internal/resources"
	"github.com/inanna-press/inanna/internal/stylestore"
)

// maxJSONBody caps request bodies for the JSON endpoints. Uploads go
// through multipart with their own limit.
const maxJSONBody = 4 << 20

const maxUploadBytes = 20 << 20

// exportNameRe strips everything a Content-Disposition filename should
// not carry.
var exportNameRe = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, statusResponse{Status: "error", Message: message})
}

func writeJSONOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxJSONBody))
	return dec.Decode(v)
}

// --- auth ---

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if err := s.accounts.Register(req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			writeJSONError(w, http.StatusConflict, "ya existe una cuenta")
		case errors.Is(err, auth.ErrEmptyCredentials):
			writeJSONError(w, http.StatusBadRequest, "usuario y contraseña son obligatorios")
		default:
			s.log.Error("register failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "no se pudo crear la cuenta")
		}
		return
	}
	s.startSession(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if !s.accounts.Verify(req.Username, req.Password) {
		writeJSONError(w, http.StatusUnauthorized, "credenciales incorrectas")
		return
	}
	s.startSession(w, r)
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	token, err := s.sessions.Create()
	if err != nil {
		s.log.Error("session create failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo iniciar sesión")
		return
	}
	setSessionCookie(w, token)
	writeJSONOK(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Revoke(c.Value)
	}
	clearSessionCookie(w)
	writeJSONOK(w)
}

// --- rendering ---

type markdownRequest struct {
	Markdown string `json:"markdown"`
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	var req markdownRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	html, err := s.svc.MarkdownHTML(r.Context(), req.Markdown)
	if err != nil {
		s.log.Error("markdown conversion failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo convertir el texto")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

type renderRequest struct {
	Deck             inanna.Deck   `json:"deck"`
	StyleOverride    *inanna.Style `json:"style_override,omitempty"`
	SlideIndex       int           `json:"slide_index"`
	ViewportWidthPx  float64       `json:"viewport_width"`
	ViewportHeightPx float64       `json:"viewport_height"`
	ContainerWidthPx float64       `json:"container_width"`
}

func (r renderRequest) toService() inanna.RenderRequest {
	return inanna.RenderRequest{
		Deck:             r.Deck,
		StyleOverride:    r.StyleOverride,
		SlideIndex:       r.SlideIndex,
		ViewportWidthPx:  r.ViewportWidthPx,
		ViewportHeightPx: r.ViewportHeightPx,
		ContainerWidthPx: r.ContainerWidthPx,
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	html, err := s.svc.Preview(r.Context(), req.toService())
	if err != nil {
		s.log.Error("preview failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo generar la vista previa")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	html, err := s.svc.Thumbnail(r.Context(), req.toService())
	if err != nil {
		s.log.Error("thumbnail failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo generar la miniatura")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

type exportRequest struct {
	renderRequest
	Name string `json:"name"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	pdf, err := s.svc.ExportPDF(r.Context(), req.toService())
	if err != nil {
		s.log.Error("export failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo exportar el PDF")
		return
	}
	name := exportFilename(req.Name)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

func exportFilename(name string) string {
	name = strings.TrimSuffix(name, ".xml")
	name = exportNameRe.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		name = "presentacion"
	}
	return name + ".pdf"
}

// --- decks ---

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	names, err := s.decks.List()
	if err != nil {
		s.log.Error("deck list failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo listar el archivo")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"decks": names})
}

func (s *Server) handleLoadDeck(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !deckstore.ValidFilename(name) {
		writeJSONError(w, http.StatusBadRequest, "nombre de archivo inválido")
		return
	}
	// Missing or corrupt decks degrade to an empty, renderable deck.
	deck := s.decks.LoadOrEmpty(name)
	writeJSON(w, http.StatusOK, deck)
}

func (s *Server) handleSaveDeck(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var deck inanna.Deck
	if err := decodeJSON(r, &deck); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if err := s.decks.Save(name, deck); err != nil {
		if errors.Is(err, deckstore.ErrInvalidFilename) {
			writeJSONError(w, http.StatusBadRequest, "nombre de archivo inválido")
			return
		}
		s.log.Error("deck save failed", "name", name, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo guardar la presentación")
		return
	}
	writeJSONOK(w)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.decks.Delete(name); err != nil {
		switch {
		case errors.Is(err, deckstore.ErrInvalidFilename):
			writeJSONError(w, http.StatusBadRequest, "nombre de archivo inválido")
		case errors.Is(err, deckstore.ErrDeckNotFound):
			writeJSONError(w, http.StatusNotFound, "presentación no encontrada")
		default:
			s.log.Error("deck delete failed", "name", name, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "no se pudo borrar la presentación")
		}
		return
	}
	writeJSONOK(w)
}

func (s *Server) handleDeckThumbnail(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if !deckstore.ValidFilename(name) {
		writeJSONError(w, http.StatusBadRequest, "nombre de archivo inválido")
		return
	}
	container := 240.0
	if v := r.URL.Query().Get("container_width"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			container = f
		}
	}
	deck := s.decks.LoadOrEmpty(name)
	html, err := s.svc.Thumbnail(r.Context(), inanna.RenderRequest{
		Deck:             deck,
		ContainerWidthPx: container,
	})
	if err != nil {
		s.log.Error("deck thumbnail failed", "name", name, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo generar la miniatura")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

// --- resources ---

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	paths, err := s.resources.List()
	if err != nil {
		s.log.Error("resource list failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo listar los recursos")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"resources": paths})
}

func (s *Server) handleUploadResource(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "subida inválida")
		return
	}
	file, header, err := r.FormFile("resource_file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "falta el fichero")
		return
	}
	defer file.Close()
	name := filepath.Base(header.Filename)
	if err := s.resources.Save(name, file); err != nil {
		if errors.Is(err, resources.ErrInvalidName) {
			writeJSONError(w, http.StatusBadRequest, "nombre de fichero inválido")
			return
		}
		s.log.Error("resource upload failed", "name", name, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo guardar el recurso")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "ok",
		"resource_path": s.resources.Prefix() + "/" + name,
	})
}

type resourcePathRequest struct {
	ResourcePath string `json:"resource_path"`
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	var req resourcePathRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if err := s.resources.Delete(req.ResourcePath); err != nil {
		switch {
		case errors.Is(err, resources.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "recurso no encontrado")
		case errors.Is(err, resources.ErrOutsideStore), errors.Is(err, resources.ErrInvalidName):
			writeJSONError(w, http.StatusBadRequest, "ruta de recurso inválida")
		default:
			s.log.Error("resource delete failed", "path", req.ResourcePath, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "no se pudo borrar el recurso")
		}
		return
	}
	writeJSONOK(w)
}

type editResourceRequest struct {
	ResourcePath string               `json:"resource_path"`
	NewFilename  string               `json:"new_filename"`
	Brightness   int                  `json:"brightness"`
	Contrast     int                  `json:"contrast"`
	Crop         inanna.CropSelection `json:"crop"`
	// DisplayScale maps a selection drawn on a scaled-down canvas back to
	// source pixels. Zero means the crop is already in source pixels.
	DisplayScale float64 `json:"display_scale"`
}

func (s *Server) handleEditResource(w http.ResponseWriter, r *http.Request) {
	var req editResourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if !resources.IsImage(req.ResourcePath) {
		writeJSONError(w, http.StatusBadRequest, "el recurso no es una imagen editable")
		return
	}
	abs, err := s.resources.Resolve(req.ResourcePath)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "recurso no encontrado")
		return
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		s.log.Error("resource read failed", "path", req.ResourcePath, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo leer el recurso")
		return
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(abs)), ".")
	crop := req.Crop.ToSource(req.DisplayScale)
	edited, outExt, err := inanna.EditImageBytes(data, ext, crop, req.Brightness, req.Contrast)
	if err != nil {
		switch {
		case errors.Is(err, inanna.ErrUnknownImageFormat):
			writeJSONError(w, http.StatusBadRequest, "formato de imagen no soportado")
		case errors.Is(err, inanna.ErrImageDecode):
			writeJSONError(w, http.StatusBadRequest, "no se pudo decodificar la imagen")
		default:
			s.log.Error("resource edit failed", "path", req.ResourcePath, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "no se pudo editar la imagen")
		}
		return
	}
	saved, err := s.resources.SaveEdited(req.NewFilename, outExt, edited)
	if err != nil {
		switch {
		case errors.Is(err, resources.ErrAlreadyExists):
			writeJSONError(w, http.StatusConflict, "ya existe un recurso con ese nombre")
		case errors.Is(err, resources.ErrInvalidName):
			writeJSONError(w, http.StatusBadRequest, "nombre de fichero inválido")
		default:
			s.log.Error("edited resource save failed", "name", req.NewFilename, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "no se pudo guardar la imagen editada")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":        "ok",
		"resource_path": saved,
	})
}

// --- styles and presets ---

func (s *Server) handleGetStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.styles.LoadStyles())
}

func (s *Server) handleSaveStyles(w http.ResponseWriter, r *http.Request) {
	var style inanna.Style
	if err := decodeJSON(r, &style); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	// Partial submissions keep the current values for unset fields.
	resolved := inanna.ResolveStyle(style, s.styles.LoadStyles())
	if err := s.styles.SaveStyles(resolved); err != nil {
		s.log.Error("style save failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudieron guardar los estilos")
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": s.styles.LoadPresets()})
}

func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var preset inanna.StylePreset
	if err := decodeJSON(r, &preset); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if strings.TrimSpace(preset.Name) == "" {
		writeJSONError(w, http.StatusBadRequest, "el preajuste necesita un nombre")
		return
	}
	if err := s.styles.SavePreset(preset); err != nil {
		s.log.Error("preset save failed", "name", preset.Name, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo guardar el preajuste")
		return
	}
	writeJSONOK(w)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := s.styles.DeletePreset(name); err != nil {
		s.log.Error("preset delete failed", "name", name, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo borrar el preajuste")
		return
	}
	writeJSONOK(w)
}

// --- config and fonts ---

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.styles.LoadConfig())
}

func (s *Server) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var cfg stylestore.Config
	if err := decodeJSON(r, &cfg); err != nil {
		writeJSONError(w, http.StatusBadRequest, "petición inválida")
		return
	}
	if err := s.styles.SaveConfig(cfg); err != nil {
		s.log.Error("config save failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo guardar la configuración")
		return
	}
	writeJSONOK(w)
}

func (s *Server) handleRefreshFonts(w http.ResponseWriter, r *http.Request) {
	apiKey := s.styles.LoadConfig().GoogleFontsAPIKey
	cachePath := filepath.Join(s.cfg.Data.Dir, fontCatalogFile)
	err := fontcatalog.Fetch(r.Context(), http.DefaultClient, apiKey, cachePath)
	if err != nil {
		switch {
		case errors.Is(err, fontcatalog.ErrMissingAPIKey):
			writeJSONError(w, http.StatusBadRequest, "falta la clave de la API de Google Fonts")
		default:
			s.log.Error("font catalog refresh failed", "error", err)
			writeJSONError(w, http.StatusBadGateway, "no se pudo actualizar el catálogo de fuentes")
		}
		return
	}
	index, err := fontcatalog.LoadIndex(cachePath)
	if err != nil {
		s.log.Error("font catalog reload failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "no se pudo cargar el catálogo de fuentes")
		return
	}
	s.svc.ReloadFonts(index)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"families": len(index),
	})
}
