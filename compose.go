package inanna

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"path/filepath"
	"strings"
)

// emptyDeckCopy is shown when a deck has no slides yet.
const emptyDeckCopy = "Escribe algo en la pestaña de Texto para empezar."

// compositor assembles full documents and fragments from per-slide layouts.
// Export walks every slide into a paginated document; preview composes the
// selected slide at display scale; thumbnail composes the first slide at
// card scale. All three share the layout engine and the geometry constants,
// so proportions can never drift between them.
type compositor struct {
	markdown markdownConverter
	fonts    *FontFaceResolver
	images   *ImageResolver
	baseDir  string // filesystem directory the export <base> href points at
}

func newCompositor(markdown markdownConverter, fonts *FontFaceResolver, images *ImageResolver, baseDir string) *compositor {
	return &compositor{markdown: markdown, fonts: fonts, images: images, baseDir: baseDir}
}

// normalizedSlides returns the deck's slides, substituting a single
// empty-state slide when the deck has none. Render functions are total:
// an empty or unloadable deck still produces markup.
func normalizedSlides(deck Deck) []Slide {
	if len(deck.Slides) > 0 {
		return deck.Slides
	}
	return []Slide{{Template: TemplateA, Markdown: emptyDeckCopy}}
}

// ExportDocument composes the full print document: one page per slide, a
// page break after every slide except the last, embedded @font-face CSS,
// and a <base> tag so relative asset URLs resolve for the renderer.
func (c *compositor) ExportDocument(ctx context.Context, deck Deck, style Style) (string, error) {
	style = ResolveStyle(style, DefaultStyle())

	fonts := defaultFontSetup(style)
	if c.fonts != nil {
		faceCSS, title, text := c.fonts.ResolvePair(ctx, fonts.TitleFamily, fonts.TextFamily)
		fonts = resolvedFontSetup(style, title, text, faceCSS)
	}

	var doc strings.Builder
	doc.WriteString(`<!DOCTYPE html><html lang="es"><head><meta charset="UTF-8">`)
	doc.WriteString(`<base href="` + html.EscapeString(c.baseHref()) + `">`)
	doc.WriteString(`<style>` + c.exportCSS(style, fonts) + `</style></head><body>`)

	engine := newLayoutEngine(TargetExport)
	slides := normalizedSlides(deck)
	for i, slide := range slides {
		markup, err := c.composeSlide(ctx, engine, slide, TargetExport)
		if err != nil {
			return "", err
		}

		wrapper := `<div class="slide-wrapper">`
		if i < len(slides)-1 {
			wrapper = `<div class="slide-wrapper" style="page-break-after: always;">`
		}
		doc.WriteString(wrapper + `<div class="` + pageClass(slide.Template) + `">` + markup + `</div></div>`)
	}

	doc.WriteString(`</body></html>`)
	return doc.String(), nil
}

// PreviewFragment composes the slide at index for the editor viewport,
// computing the stage scale from the available box. The index is clamped
// to the deck.
func (c *compositor) PreviewFragment(ctx context.Context, deck Deck, style Style, index int, viewportWidthPx, viewportHeightPx float64) (string, error) {
	scale := FitScale(viewportWidthPx, viewportHeightPx)
	return c.scaledFragment(ctx, deck, style, index, scale)
}

// ThumbnailFragment composes the deck's first slide as an archive card
// sized to the given container width.
func (c *compositor) ThumbnailFragment(ctx context.Context, deck Deck, style Style, containerWidthPx float64) (string, error) {
	return c.scaledFragment(ctx, deck, style, 0, ThumbnailScale(containerWidthPx))
}

// scaledFragment renders one slide inside the scaled preview stage. The
// slide markup and CSS are identical to export apart from pixel units and
// network-loaded fonts.
func (c *compositor) scaledFragment(ctx context.Context, deck Deck, style Style, index int, scale float64) (string, error) {
	style = ResolveStyle(style, DefaultStyle())
	slides := normalizedSlides(deck)
	index = clampInt(index, 0, len(slides)-1)

	engine := newLayoutEngine(TargetPreview)
	markup, err := c.composeSlide(ctx, engine, slides[index], TargetPreview)
	if err != nil {
		return "", err
	}

	var frag strings.Builder
	frag.WriteString(previewFontsLink(style))
	frag.WriteString(`<style>` + c.previewCSS(style, scale) + `</style>`)
	frag.WriteString(`<div class="preview-root"><div class="preview-stage">`)
	frag.WriteString(`<div class="slide-wrapper"><div class="` + pageClass(slides[index].Template) + `">` + markup + `</div></div>`)
	frag.WriteString(`</div></div>`)
	return frag.String(), nil
}

// composeSlide converts the slide's markdown and lays it out for a target.
func (c *compositor) composeSlide(ctx context.Context, engine *layoutEngine, slide Slide, target RenderTarget) (string, error) {
	content, err := c.markdown.ToHTML(ctx, slide.Markdown)
	if err != nil {
		return "", fmt.Errorf("converting slide markdown: %w", err)
	}

	var media mediaSource
	if slide.Template.Normalize() != TemplateA && c.images != nil {
		media = c.images.Resolve(slide.Image, target)
	}
	return engine.RenderSlide(slide.Template, content, media), nil
}

// exportCSS builds the print stylesheet: page box, font faces, wrapper
// pagination rules, then the shared slide rules in millimeters.
func (c *compositor) exportCSS(style Style, fonts fontSetup) string {
	parts := []string{
		fmt.Sprintf(`@page { size: %smm %smm; margin: 0; }`, formatFloat(PageWidthMm), formatFloat(PageHeightMm)),
		fonts.FaceCSS,
		fmt.Sprintf(`html, body { width: %smm; height: %smm; margin: 0; padding: 0; font-size: 20pt; line-height: 1.45; }`,
			formatFloat(PageWidthMm), formatFloat(PageHeightMm)),
		fmt.Sprintf(`.slide-wrapper { width: %smm; height: %smm; position: relative; overflow: visible; page-break-inside: avoid; }`,
			formatFloat(PageWidthMm), formatFloat(PageHeightMm)),
		buildSlideCSS(style, fonts, mmUnits),
	}
	return strings.Join(parts, "")
}

// previewCSS builds the browser stylesheet: the centering root, the scaled
// stage, then the shared slide rules in pixels.
func (c *compositor) previewCSS(style Style, scale float64) string {
	stageW := formatFloat(StageWidthPx())
	stageH := formatFloat(StageHeightPx())

	parts := []string{
		fmt.Sprintf(`.preview-root { position: absolute; inset: 0; display: flex; align-items: center; justify-content: center; background-color: %s; overflow: hidden; box-sizing: border-box; padding-left: %spx; padding-top: %spx; }`,
			style.ColorBg, formatFloat(MmToPx(50)), formatFloat(MmToPx(40))),
		fmt.Sprintf(`.preview-stage { position: relative; width: %spx; height: %spx; display: flex; align-items: flex-start; justify-content: flex-start; background-color: transparent; transform-origin: top left; transform: translate(%spx, %spx) scale(%s); }`,
			stageW, stageH, formatFloat(MmToPx(46)), formatFloat(MmToPx(25)), formatFloat(scale)),
		fmt.Sprintf(`.slide-wrapper { width: %spx; height: %spx; position: relative; overflow: visible; }`, stageW, stageH),
		buildSlideCSS(style, defaultFontSetup(style), pxUnits),
	}
	return strings.Join(parts, "")
}

// baseHref converts the base directory to a file:// URL for the renderer.
func (c *compositor) baseHref() string {
	abs, err := filepath.Abs(c.baseDir)
	if err != nil {
		abs = c.baseDir
	}
	return "file://" + strings.TrimRight(filepath.ToSlash(abs), "/") + "/"
}

// previewFontsLink builds the Google Fonts stylesheet link the browser
// preview loads its families from. Export never uses it: exported fonts
// come from the local cache.
func previewFontsLink(style Style) string {
	// Google Fonts expects spaces in family names as "+", which is exactly
	// what QueryEscape produces.
	title := url.QueryEscape(PrimaryFont(style.FontTitle, "Gabarito"))
	text := url.QueryEscape(PrimaryFont(style.FontText, "Noto Sans"))

	var href string
	if title == text {
		href = "https://fonts.googleapis.com/css2?family=" + title + ":wght@400;600;800&display=swap"
	} else {
		href = "https://fonts.googleapis.com/css2?family=" + title + ":wght@600;800&family=" + text + ":wght@400;600&display=swap"
	}
	return `<link href="` + href + `" rel="stylesheet">`
}
