package inanna

// Template identifies one of the fixed slide layout archetypes.
// The set is closed; anything outside it renders as TemplateA.
type Template string

// Known slide templates.
const (
	TemplateA          Template = "a"          // content only, centered
	TemplateZ          Template = "z"          // content left, media right
	TemplateY          Template = "y"          // media left, content right
	TemplateG          Template = "g"          // content left, square media right
	TemplateH          Template = "h"          // square media left, content right
	TemplateB          Template = "b"          // media top, content bottom
	TemplateC          Template = "c"          // content top, media bottom
	TemplateD          Template = "d"          // media top half, content bottom half
	TemplateI          Template = "i"          // content top half, media bottom half
	TemplateE          Template = "e"          // content left, narrow media right
	TemplateF          Template = "f"          // narrow media left, content right
	TemplateFullscreen Template = "fullscreen" // media only, full bleed
)

// Normalize returns t if it names a known template, TemplateA otherwise.
func (t Template) Normalize() Template {
	if _, ok := templateTable[t]; ok {
		return t
	}
	return TemplateA
}

// RenderTarget selects the consumer a layout is produced for. All targets
// share the same layout proportions; they differ only in scale and in how
// slide images are resolved.
type RenderTarget int

const (
	// TargetExport produces a full-page document for the PDF renderer.
	TargetExport RenderTarget = iota
	// TargetPreview produces a single scaled-down slide for the editor.
	TargetPreview
	// TargetThumbnail produces a small card of the deck's first slide.
	TargetThumbnail
)

// Slide is one page of a deck: a layout template, the Markdown content,
// and an optional image reference (empty, absolute URL, or a path relative
// to the resource root).
type Slide struct {
	Template Template `json:"template"`
	Markdown string   `json:"markdown"`
	Image    string   `json:"image"`
}

// Deck is an ordered sequence of slides plus the style set they are
// rendered with. The zero value is a valid, renderable empty deck.
type Deck struct {
	Slides []Slide `json:"slides"`
	Styles Style   `json:"styles"`
}

// CropSelection is a rectangular crop region in source-image pixel
// coordinates.
type CropSelection struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Clamp constrains the selection to a width×height source image:
// x and y land in [0, dim-1], width and height in [1, dim-offset].
// A selection that degenerates entirely still yields a valid 1×1 region.
func (c CropSelection) Clamp(width, height int) CropSelection {
	c.X = clampInt(c.X, 0, width-1)
	c.Y = clampInt(c.Y, 0, height-1)
	c.Width = clampInt(c.Width, 1, width-c.X)
	c.Height = clampInt(c.Height, 1, height-c.Y)
	return c
}

// ToSource maps a selection made in a display-scaled canvas back to
// source-image pixels. displayScale is displayedSize/sourceSize; values
// <= 0 are treated as 1 (no scaling).
func (c CropSelection) ToSource(displayScale float64) CropSelection {
	if displayScale <= 0 {
		return c
	}
	return CropSelection{
		X:      int(float64(c.X)/displayScale + 0.5),
		Y:      int(float64(c.Y)/displayScale + 0.5),
		Width:  int(float64(c.Width)/displayScale + 0.5),
		Height: int(float64(c.Height)/displayScale + 0.5),
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
