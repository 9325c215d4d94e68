package inanna

import "math"

// Page geometry in millimeters (A4 landscape). Every consumer of the layout
// engine converts through these constants; drift between them is what makes
// a preview stop matching the exported PDF.
const (
	PageWidthMm  = 297.0
	PageHeightMm = 210.0

	// ScaleFactor is applied to all typographic sizes and several spacings.
	ScaleFactor = 1.16

	mmPerInch = 25.4
	pxPerInch = 96.0
)

// Page and content padding, in millimeters.
const (
	PagePaddingTopMm    = 8.0
	PagePaddingRightMm  = 1.0
	PagePaddingBottomMm = 1.0
	PagePaddingLeftMm   = 10.0

	ContentPaddingLeftMm  = 6.0 * ScaleFactor
	ContentPaddingRightMm = 2.0

	// GapLargeMm separates content from media in side-by-side templates,
	// GapSmallMm in stacked ones.
	GapLargeMm = 12.0 * ScaleFactor
	GapSmallMm = 6.0 * ScaleFactor
)

// Typography in points, pre-multiplied by ScaleFactor.
const (
	ParagraphFontPt   = 20.0 * ScaleFactor
	H1FontPt          = 44.0 * ScaleFactor
	H2FontPt          = 36.0 * ScaleFactor
	H3FontPt          = 30.0 * ScaleFactor
	PlaceholderFontPt = 12.0 * ScaleFactor
)

// Overscan: the slide table is oversized and shifted right so its visible
// edges extend past the nominal page box, avoiding clipping artifacts at
// template boundaries. Required for rendering fidelity, not cosmetic.
const (
	OverscanRightMm  = 85.0
	OverscanBottomMm = 60.0
	OverscanShiftMm  = 2.5
)

// SquareMediaSideMm is the side of the square media slot in templates g/h.
const SquareMediaSideMm = 90.0

// Preview/thumbnail stage scale bounds.
const (
	previewFallbackScale = 0.6
	ThumbnailMinScale    = 0.12
	ThumbnailMaxScale    = 0.22
)

// MmToPx converts millimeters to CSS pixels at 96dpi.
func MmToPx(mm float64) float64 { return mm / mmPerInch * pxPerInch }

// PxToMm is the inverse of MmToPx.
func PxToMm(px float64) float64 { return px / pxPerInch * mmPerInch }

// MmToInches converts millimeters to inches, the unit Chrome's print
// endpoint takes paper sizes in.
func MmToInches(mm float64) float64 { return mm / mmPerInch }

// StageWidthPx is the pixel width of the full preview stage: the page plus
// the overscan and the rightward shift.
func StageWidthPx() float64 {
	return MmToPx(PageWidthMm + OverscanRightMm + OverscanShiftMm)
}

// StageHeightPx is the pixel height of the full preview stage.
func StageHeightPx() float64 {
	return MmToPx(PageHeightMm + OverscanBottomMm)
}

// FitScale computes the display scale that fits the stage into a viewport,
// never upscaling past 1. Non-finite or non-positive results (zero-sized
// viewport before first layout) fall back to a usable default.
func FitScale(viewportWidthPx, viewportHeightPx float64) float64 {
	scale := min(viewportWidthPx/StageWidthPx(), viewportHeightPx/StageHeightPx(), 1)
	if !isFinite(scale) || scale <= 0 {
		return previewFallbackScale
	}
	return scale
}

// ThumbnailScale computes the scale for an archive card of the given
// container width, clamped to the thumbnail band.
func ThumbnailScale(containerWidthPx float64) float64 {
	scale := containerWidthPx / StageWidthPx()
	if !isFinite(scale) || scale < ThumbnailMinScale {
		return ThumbnailMinScale
	}
	if scale > ThumbnailMaxScale {
		return ThumbnailMaxScale
	}
	return scale
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
