// Package resources manages the flat directory of uploaded binary assets
// that slides reference by relative path.
package resources

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Sentinel errors for resource operations.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidName   = errors.New("invalid resource filename")
	ErrAlreadyExists = errors.New("a resource with that name already exists")
	ErrOutsideStore  = errors.New("path resolves outside the resource directory")
	ErrNotAnImage    = errors.New("resource is not an editable image")
)

// filenameRe limits uploaded names to a safe flat-directory alphabet.
var filenameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// imageExtensions are the formats the editor can open.
var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
}

// Store is a flat directory of uploaded assets. Paths handed to callers
// are always prefixed with the directory's base name (e.g. "recursos/x.png")
// so they can be stored in slides and resolved against the app root.
type Store struct {
	dir string
}

// New creates a Store over dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Prefix is the relative-path prefix of this store's resources.
func (s *Store) Prefix() string {
	return filepath.Base(s.dir)
}

// List returns the stored resources as slide-referencable relative paths,
// sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing resources: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() {
			paths = append(paths, s.Prefix()+"/"+entry.Name())
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Save stores an uploaded file under name, rejecting unsafe names.
// Existing files are overwritten, matching the upload flow.
func (s *Store) Save(name string, r io.Reader) error {
	if !filenameRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating resource dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, name)) // #nosec G304 -- name validated above
	if err != nil {
		return fmt.Errorf("creating resource: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("writing resource: %w", err)
	}
	return nil
}

// Resolve maps a slide-style relative path ("recursos/x.png" or bare
// "x.png") to an absolute path inside the store, defending against
// traversal. The file must exist.
func (s *Store) Resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(strings.TrimPrefix(filepath.ToSlash(relPath), "/"))
	cleaned = strings.TrimPrefix(cleaned, s.Prefix()+"/")
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || strings.ContainsRune(cleaned, filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrOutsideStore, relPath)
	}

	full := filepath.Join(s.dir, cleaned)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, relPath)
	}
	return full, nil
}

// Delete removes a resource by relative path.
func (s *Store) Delete(relPath string) error {
	full, err := s.Resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}
	return nil
}

// IsImage reports whether a resource name has an editable image extension.
func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))]
}

// SaveEdited writes edited image bytes as a new resource. The target name
// gets the output extension appended when it does not already carry it,
// and existing files are never overwritten.
func (s *Store) SaveEdited(newName, outExt string, data []byte) (string, error) {
	if !filenameRe.MatchString(newName) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, newName)
	}
	if !strings.HasSuffix(strings.ToLower(newName), "."+outExt) {
		newName += "." + outExt
	}

	target := filepath.Join(s.dir, newName)
	if _, err := os.Stat(target); err == nil {
		return "", fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating resource dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("writing edited image: %w", err)
	}
	return s.Prefix() + "/" + newName, nil
}
