package inanna

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ImageResolver applies the image-source policy shared by the layout engine
// and the compositor. Export embeds local files as base64 data URIs so the
// external renderer needs no network path; preview and thumbnail reference
// images by URL. Failures never surface as errors: a slide whose image
// cannot be resolved shows the placeholder media block instead.
type ImageResolver struct {
	resourceRoot string // directory relative image paths resolve under
	baseURL      string // URL prefix for relative images in preview targets
}

// NewImageResolver creates a resolver rooted at resourceRoot. baseURL
// prefixes relative paths for browser-facing targets (may be empty, in
// which case the relative path is used as-is and resolved by <base>).
func NewImageResolver(resourceRoot, baseURL string) *ImageResolver {
	return &ImageResolver{resourceRoot: resourceRoot, baseURL: baseURL}
}

// Resolve turns a slide's image field into a mediaSource for a target.
func (r *ImageResolver) Resolve(image string, target RenderTarget) mediaSource {
	image = strings.TrimSpace(image)
	if image == "" {
		return mediaSource{}
	}

	if isAbsoluteURL(image) {
		return mediaSource{URL: image}
	}

	local, ok := r.localPath(image)
	if !ok {
		return mediaSource{Missing: true}
	}

	if target == TargetExport {
		if uri, ok := encodeDataURI(local); ok {
			return mediaSource{URL: uri}
		}
		return mediaSource{Missing: true}
	}

	rel := filepath.ToSlash(strings.TrimPrefix(image, "/"))
	if r.baseURL != "" {
		return mediaSource{URL: strings.TrimSuffix(r.baseURL, "/") + "/" + rel}
	}
	return mediaSource{URL: rel}
}

// localPath resolves a relative image reference under the resource root,
// rejecting traversal outside it and missing files.
func (r *ImageResolver) localPath(image string) (string, bool) {
	if r.resourceRoot == "" {
		return "", false
	}

	cleaned := filepath.Clean(strings.TrimPrefix(filepath.ToSlash(image), "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", false
	}

	full := filepath.Join(r.resourceRoot, cleaned)
	root, err := filepath.Abs(r.resourceRoot)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", false
	}
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", false
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", false
	}
	return abs, true
}

// encodeDataURI reads a file and encodes it as a data URI, sniffing the
// MIME type from its leading bytes.
func encodeDataURI(path string) (string, bool) {
	data, err := os.ReadFile(path) // #nosec G304 -- path validated against resource root
	if err != nil {
		return "", false
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), true
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
