// Package inanna renders Markdown slide decks to pixel-accurate HTML for
// three consumers: a live in-browser preview, archive thumbnails, and a
// print-ready PDF produced by headless Chrome.
//
// # Quick Start
//
// Create a service, render, and close when done:
//
//	svc := inanna.New(inanna.WithBaseDir("/srv/inanna"))
//	defer svc.Close()
//
//	pdf, err := svc.ExportPDF(ctx, inanna.RenderRequest{Deck: deck})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("deck.pdf", pdf, 0644)
//
// # Rendering Pipeline
//
//  1. Style resolution: partial styles merge onto the deck's styles onto
//     hardcoded defaults (ResolveStyle).
//  2. Font resolution (export only): families resolve to cached binaries
//     with @font-face CSS, falling back across weights (FontFaceResolver).
//  3. Per-slide layout: each slide's template picks a row of the fixed
//     content/media geometry table; markdown converts via goldmark.
//  4. Composition: export paginates every slide, preview scales one slide
//     to the viewport, thumbnail scales the first slide to a card.
//  5. PDF rendering via headless Chrome (go-rod), export target only.
//
// All targets share one geometry table and one millimeter-based constant
// set, so preview proportions always match the exported PDF.
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first run. Use ROD_BROWSER_BIN to point at an
// existing binary in containers.
package inanna
