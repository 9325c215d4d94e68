package inanna

import "errors"

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Image editing errors.
	ErrUnknownImageFormat = errors.New("unsupported image format")
	ErrImageDecode        = errors.New("failed to decode image")
	ErrImageEncode        = errors.New("failed to encode image")
)
