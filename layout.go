package inanna

import (
	"fmt"
	"html"
	"strconv"
)

// Placeholder captions shown in the media slot.
const (
	placeholderAddImage         = "Añade una imagen"
	placeholderImageUnavailable = "Imagen no disponible"
)

// arrangement is how a template splits the slide between content and media.
type arrangement int

const (
	contentOnly arrangement = iota
	mediaOnly
	sideBySide
	stacked
)

// templateGeometry is one row of the fixed template table. Shares are
// percentages of the slide width (side-by-side) or height (stacked).
type templateGeometry struct {
	arrangement  arrangement
	contentShare int
	mediaShare   int
	mediaFirst   bool // media occupies the left or top slot
	squareMedia  bool
}

// templateTable is the single source of truth for layout proportions.
// Every render target applies it unchanged; targets differ only in scale
// and image-source policy.
var templateTable = map[Template]templateGeometry{
	TemplateA:          {arrangement: contentOnly},
	TemplateFullscreen: {arrangement: mediaOnly},
	TemplateZ:          {arrangement: sideBySide, contentShare: 52, mediaShare: 48},
	TemplateY:          {arrangement: sideBySide, contentShare: 52, mediaShare: 48, mediaFirst: true},
	TemplateG:          {arrangement: sideBySide, contentShare: 70, mediaShare: 30, squareMedia: true},
	TemplateH:          {arrangement: sideBySide, contentShare: 70, mediaShare: 30, mediaFirst: true, squareMedia: true},
	TemplateE:          {arrangement: sideBySide, contentShare: 78, mediaShare: 22},
	TemplateF:          {arrangement: sideBySide, contentShare: 78, mediaShare: 22, mediaFirst: true},
	TemplateB:          {arrangement: stacked, contentShare: 76, mediaShare: 24, mediaFirst: true},
	TemplateC:          {arrangement: stacked, contentShare: 76, mediaShare: 24},
	TemplateD:          {arrangement: stacked, contentShare: 50, mediaShare: 50, mediaFirst: true},
	TemplateI:          {arrangement: stacked, contentShare: 50, mediaShare: 50},
}

// TemplateGeometryShares exposes the content/media split of a template for
// callers that need the raw proportions (template pickers, tests). Unknown
// templates report the TemplateA row.
func TemplateGeometryShares(t Template) (content, media int) {
	geo := templateTable[t.Normalize()]
	return geo.contentShare, geo.mediaShare
}

// pageClass names the slide page with its layout so per-template CSS
// overrides can attach, like the full-bleed rules. Unknown templates
// carry layout-a.
func pageClass(t Template) string {
	return "slide-page layout-" + string(t.Normalize())
}

// mediaSource is a slide image resolved for a specific render target.
// An empty URL means the slot shows the add-image placeholder; Missing
// means an image was set but could not be resolved.
type mediaSource struct {
	URL     string
	Missing bool
}

// unitFormatter renders a millimeter quantity as a CSS length. Export uses
// physical millimeters; preview and thumbnail use 96dpi pixels. This is the
// only unit difference between targets.
type unitFormatter func(mm float64) string

func mmUnits(mm float64) string {
	return formatFloat(mm) + "mm"
}

func pxUnits(mm float64) string {
	return formatFloat(MmToPx(mm)) + "px"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// unitsFor selects the formatter for a render target.
func unitsFor(target RenderTarget) unitFormatter {
	if target == TargetExport {
		return mmUnits
	}
	return pxUnits
}

// layoutEngine produces the table markup for one slide. It is a pure
// transform: content HTML and media are resolved by the caller.
type layoutEngine struct {
	units unitFormatter
}

func newLayoutEngine(target RenderTarget) *layoutEngine {
	return &layoutEngine{units: unitsFor(target)}
}

// RenderSlide lays out one slide as nested table markup using the fixed
// template table. Unknown templates render as TemplateA.
func (e *layoutEngine) RenderSlide(template Template, contentHTML string, media mediaSource) string {
	template = template.Normalize()
	geo := templateTable[template]

	content := e.contentBlock(template, contentHTML)
	mediaBlock := ""
	if geo.arrangement != contentOnly {
		mediaBlock = e.mediaBlock(geo, media)
	}

	switch geo.arrangement {
	case mediaOnly:
		return `<table class="slide-table"><tr>` +
			`<td class="slide-cell slide-media-cell" style="width: 100%; vertical-align: middle; height:100%;">` + mediaBlock + `</td>` +
			`</tr></table>`
	case sideBySide:
		return e.sideBySideTable(geo, content, mediaBlock)
	case stacked:
		return e.stackedTable(geo, content, mediaBlock)
	default:
		return `<table class="slide-table"><tr>` +
			`<td class="slide-cell slide-content-cell" style="height:100%; text-align:center; vertical-align: middle;">` + content + `</td>` +
			`</tr></table>`
	}
}

// contentBlock wraps the markdown-derived fragment for vertical centering.
// Horizontal centering applies only to the content-only template.
func (e *layoutEngine) contentBlock(template Template, contentHTML string) string {
	class := "slide-content"
	if template == TemplateA {
		class += " centered"
	}
	return `<div class="` + class + `"><div class="slide-content-inner"><div>` + contentHTML + `</div></div></div>`
}

// mediaBlock renders the image as a cover background, or a dashed
// placeholder when no image resolves.
func (e *layoutEngine) mediaBlock(geo templateGeometry, media mediaSource) string {
	class := "slide-media"
	switch {
	case geo.arrangement == mediaOnly:
		class += " fullscreen"
	case geo.squareMedia:
		class += " square"
	}

	if media.URL != "" {
		return `<div class="` + class + ` has-image" style="background-image:url(` + html.EscapeString(media.URL) + `);"></div>`
	}

	caption := placeholderAddImage
	if media.Missing {
		caption = placeholderImageUnavailable
	}
	return `<div class="` + class + ` placeholder"><span>` + caption + `</span></div>`
}

// sideBySideTable builds the two-column arrangement. The content cell
// carries the large gap on its media-facing side; the media-first 52/48
// variant additionally pads the media cell so the image clears the overscan
// shift.
func (e *layoutEngine) sideBySideTable(geo templateGeometry, content, mediaBlock string) string {
	gap := e.units(GapLargeMm)

	contentCell := content
	mediaCell := mediaBlock
	if geo.squareMedia {
		mediaCell = `<div class="slide-square-cell">` + mediaBlock + `</div>`
	}

	var leftHTML, rightHTML, leftStyle, rightStyle, leftClass, rightClass string
	if geo.mediaFirst {
		leftHTML, rightHTML = mediaCell, contentCell
		leftClass, rightClass = "slide-media-cell", "slide-content-cell"
		leftStyle = fmt.Sprintf("width:%d%%; vertical-align: middle; height:100%%;", geo.mediaShare)
		if !geo.squareMedia && geo.mediaShare == 48 {
			leftStyle = fmt.Sprintf("width:%d%%; padding-right:%s; vertical-align: middle; height:100%%;", geo.mediaShare, gap)
		}
		rightStyle = fmt.Sprintf("width:%d%%; padding-left:%s; vertical-align: middle; height:100%%;", geo.contentShare, gap)
	} else {
		leftHTML, rightHTML = contentCell, mediaCell
		leftClass, rightClass = "slide-content-cell", "slide-media-cell"
		leftStyle = fmt.Sprintf("width:%d%%; padding-right:%s; vertical-align: middle; height:100%%;", geo.contentShare, gap)
		rightStyle = fmt.Sprintf("width:%d%%; vertical-align: middle; height:100%%;", geo.mediaShare)
	}

	return `<table class="slide-table"><tr>` +
		`<td class="slide-cell ` + leftClass + `" style="` + leftStyle + `">` + leftHTML + `</td>` +
		`<td class="slide-cell ` + rightClass + `" style="` + rightStyle + `">` + rightHTML + `</td>` +
		`</tr></table>`
}

// stackedTable builds the two-row arrangement with the small gap split
// across the facing paddings. Media rows center vertically; content rows
// align to the top.
func (e *layoutEngine) stackedTable(geo templateGeometry, content, mediaBlock string) string {
	gap := e.units(GapSmallMm)

	var topHTML, bottomHTML, topStyle, bottomStyle, topClass, bottomClass string
	if geo.mediaFirst {
		topHTML, bottomHTML = mediaBlock, content
		topClass, bottomClass = "slide-media-cell", "slide-content-cell"
		topStyle = fmt.Sprintf("height:%d%%; vertical-align: middle; padding-bottom:%s;", geo.mediaShare, gap)
		bottomStyle = fmt.Sprintf("height:%d%%; vertical-align: top; padding-top:%s;", geo.contentShare, gap)
	} else {
		topHTML, bottomHTML = content, mediaBlock
		topClass, bottomClass = "slide-content-cell", "slide-media-cell"
		topStyle = fmt.Sprintf("height:%d%%; vertical-align: top; padding-bottom:%s;", geo.contentShare, gap)
		bottomStyle = fmt.Sprintf("height:%d%%; vertical-align: middle; padding-top:%s;", geo.mediaShare, gap)
	}

	return `<table class="slide-table"><tr>` +
		`<td class="slide-cell ` + topClass + `" style="` + topStyle + `">` + topHTML + `</td>` +
		`</tr><tr>` +
		`<td class="slide-cell ` + bottomClass + `" style="` + bottomStyle + `">` + bottomHTML + `</td>` +
		`</tr></table>`
}
