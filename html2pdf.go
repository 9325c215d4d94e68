package inanna

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/inanna-press/inanna/internal/fileutil"
)

// pdfRenderer abstracts HTML to PDF rendering so tests run without a
// browser. The renderer is given a page size in millimeters matching the
// deck geometry.
type pdfRenderer interface {
	ToPDF(ctx context.Context, htmlContent string, pageWidthMm, pageHeightMm float64) ([]byte, error)
	Close() error
}

var _ pdfRenderer = (*rodRenderer)(nil)

// rodRenderer renders HTML to PDF with headless Chrome via go-rod.
// Rod downloads a managed Chromium on first run if none is found.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// ToPDF writes the document to a temp file, opens it in headless Chrome,
// and prints it at the exact page size with no margins. The temp file is
// removed on every exit path.
func (r *rodRenderer) ToPDF(ctx context.Context, htmlContent string, pageWidthMm, pageHeightMm float64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(MmToInches(pageWidthMm)),
		PaperHeight:     floatPtr(MmToInches(pageHeightMm)),
		MarginTop:       floatPtr(0),
		MarginBottom:    floatPtr(0),
		MarginLeft:      floatPtr(0),
		MarginRight:     floatPtr(0),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
