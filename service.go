package inanna

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// defaultTimeout bounds a single PDF render.
const defaultTimeout = 60 * time.Second

// fontCacheSubdir is where downloaded font binaries land under the base
// directory, matching the paths @font-face CSS references through <base>.
const fontCacheSubdir = "data/fonts"

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout        time.Duration
	baseDir        string
	previewBaseURL string
	fontIndex      FontIndex
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the PDF render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("inanna: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithBaseDir sets the application data root: the export <base> href points
// at it, relative slide images resolve under it, and the font cache lives
// in data/fonts below it. Defaults to the working directory.
func WithBaseDir(dir string) Option {
	return func(s *Service) {
		s.cfg.baseDir = dir
	}
}

// WithFontIndex supplies the font catalog index used to embed @font-face
// declarations in exports. Without it, exports fall back to system fonts.
func WithFontIndex(index FontIndex) Option {
	return func(s *Service) {
		s.cfg.fontIndex = index
	}
}

// WithPreviewBaseURL sets the URL prefix relative slide images are served
// from in browser-facing targets.
func WithPreviewBaseURL(u string) Option {
	return func(s *Service) {
		s.cfg.previewBaseURL = u
	}
}

// RenderRequest is the request-scoped input to a render. StyleOverride is
// the transient "apply a preset once" mechanism: it is merged over the
// deck's styles for this render only and never persisted.
type RenderRequest struct {
	Deck          Deck
	StyleOverride *Style

	// SlideIndex selects the previewed slide (clamped to the deck).
	SlideIndex int

	// Viewport box for preview scale computation, in pixels.
	ViewportWidthPx  float64
	ViewportHeightPx float64

	// Container width for thumbnail cards, in pixels.
	ContainerWidthPx float64
}

// effectiveStyle resolves the style for this render pass.
func (r RenderRequest) effectiveStyle() Style {
	if r.StyleOverride != nil {
		return ResolveStyle(*r.StyleOverride, r.Deck.Styles)
	}
	return r.Deck.Styles
}

// Service orchestrates the deck rendering pipeline for all three targets.
type Service struct {
	cfg        serviceConfig
	markdown   markdownConverter
	compositor *compositor
	renderer   pdfRenderer
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithBaseDir).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout: defaultTimeout,
			baseDir: ".",
		},
		markdown: newGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	var fonts *FontFaceResolver
	if s.cfg.fontIndex != nil {
		fonts = NewFontFaceResolver(s.cfg.fontIndex, filepath.Join(s.cfg.baseDir, fontCacheSubdir), s.cfg.baseDir)
	}
	images := NewImageResolver(s.cfg.baseDir, s.cfg.previewBaseURL)
	s.compositor = newCompositor(s.markdown, fonts, images, s.cfg.baseDir)

	// Create renderer if not injected (e.g., by tests)
	if s.renderer == nil {
		s.renderer = newRodRenderer(s.cfg.timeout)
	}

	return s
}

// ExportHTML composes the full print document without invoking the
// external renderer.
func (s *Service) ExportHTML(ctx context.Context, req RenderRequest) (string, error) {
	return s.compositor.ExportDocument(ctx, req.Deck, req.effectiveStyle())
}

// ExportPDF runs the full export pipeline and returns the PDF bytes. The
// external renderer is a blocking subprocess call; its failure is reported,
// not retried, and temporary artifacts are cleaned up on every path.
func (s *Service) ExportPDF(ctx context.Context, req RenderRequest) ([]byte, error) {
	doc, err := s.compositor.ExportDocument(ctx, req.Deck, req.effectiveStyle())
	if err != nil {
		return nil, fmt.Errorf("composing document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
	defer cancel()

	pdf, err := s.renderer.ToPDF(ctx, doc, PageWidthMm, PageHeightMm)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return pdf, nil
}

// Preview composes the selected slide for the editor viewport.
func (s *Service) Preview(ctx context.Context, req RenderRequest) (string, error) {
	return s.compositor.PreviewFragment(ctx, req.Deck, req.effectiveStyle(), req.SlideIndex, req.ViewportWidthPx, req.ViewportHeightPx)
}

// Thumbnail composes the deck's first slide as an archive card.
func (s *Service) Thumbnail(ctx context.Context, req RenderRequest) (string, error) {
	return s.compositor.ThumbnailFragment(ctx, req.Deck, req.effectiveStyle(), req.ContainerWidthPx)
}

// MarkdownHTML converts a markdown fragment to HTML outside of any slide
// layout, for the editor's standalone parse endpoint.
func (s *Service) MarkdownHTML(ctx context.Context, markdown string) (string, error) {
	return s.markdown.ToHTML(ctx, markdown)
}

// ReloadFonts swaps the font catalog index used by future exports, after
// the operator refreshes the catalog. Single-operator assumption: renders
// and reloads are never concurrent.
func (s *Service) ReloadFonts(index FontIndex) {
	s.cfg.fontIndex = index
	if index == nil {
		s.compositor.fonts = nil
		return
	}
	s.compositor.fonts = NewFontFaceResolver(index, filepath.Join(s.cfg.baseDir, fontCacheSubdir), s.cfg.baseDir)
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}
