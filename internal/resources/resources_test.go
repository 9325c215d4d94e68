package resources

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "recursos"))
}

func TestPrefix(t *testing.T) {
	t.Parallel()

	store := New("/srv/app/recursos")
	if got := store.Prefix(); got != "recursos" {
		t.Errorf("Prefix() = %q, want %q", got, "recursos")
	}
}

func TestSaveAndList(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	for _, name := range []string{"b.png", "a.jpg"} {
		if err := store.Save(name, strings.NewReader("datos")); err != nil {
			t.Fatalf("Save(%q) error: %v", name, err)
		}
	}

	got, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []string{"recursos/a.jpg", "recursos/b.png"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("List() = %v, want %v", got, want)
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	got, err := store.List()
	if err != nil || len(got) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", got, err)
	}
}

func TestSaveRejectsUnsafeNames(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	for _, name := range []string{"../fuera.png", "con/ruta.png", "con espacios.png", ""} {
		if err := store.Save(name, strings.NewReader("x")); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestSaveOverwrites(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Save("foto.png", strings.NewReader("v1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("foto.png", strings.NewReader("v2")); err != nil {
		t.Fatalf("re-uploading should overwrite: %v", err)
	}

	full, err := store.Resolve("recursos/foto.png")
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v2" {
		t.Errorf("content = %q, want %q", data, "v2")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Save("foto.png", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	// Both prefixed and bare forms resolve.
	for _, path := range []string{"recursos/foto.png", "foto.png", "/recursos/foto.png"} {
		if _, err := store.Resolve(path); err != nil {
			t.Errorf("Resolve(%q) error: %v", path, err)
		}
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	tests := []struct {
		path    string
		wantErr error
	}{
		{"../secreto.png", ErrOutsideStore},
		{"recursos/../../secreto.png", ErrOutsideStore},
		{"sub/dir.png", ErrOutsideStore},
		{"no-existe.png", ErrNotFound},
	}
	for _, tt := range tests {
		if _, err := store.Resolve(tt.path); !errors.Is(err, tt.wantErr) {
			t.Errorf("Resolve(%q) error = %v, want %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.Save("foto.png", strings.NewReader("x")); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete("recursos/foto.png"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Resolve("foto.png"); !errors.Is(err, ErrNotFound) {
		t.Error("resource should be gone after Delete")
	}
	if err := store.Delete("foto.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing resource = %v, want ErrNotFound", err)
	}
}

func TestIsImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"foto.png", true},
		{"FOTO.JPG", true},
		{"animacion.gif", true},
		{"moderna.webp", true},
		{"documento.pdf", false},
		{"sin-extension", false},
	}
	for _, tt := range tests {
		if got := IsImage(tt.name); got != tt.want {
			t.Errorf("IsImage(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSaveEdited(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	got, err := store.SaveEdited("recorte", "png", []byte("imagen"))
	if err != nil {
		t.Fatalf("SaveEdited() error: %v", err)
	}
	if got != "recursos/recorte.png" {
		t.Errorf("SaveEdited() = %q, want %q", got, "recursos/recorte.png")
	}

	// Extension already present is not doubled.
	got, err = store.SaveEdited("otro.png", "png", []byte("imagen"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "recursos/otro.png" {
		t.Errorf("SaveEdited() = %q, want %q", got, "recursos/otro.png")
	}

	// Existing targets are never overwritten.
	if _, err := store.SaveEdited("recorte", "png", []byte("x")); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("SaveEdited() over existing = %v, want ErrAlreadyExists", err)
	}
}

func TestSaveEditedRejectsUnsafeNames(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if _, err := store.SaveEdited("../fuera", "png", []byte("x")); !errors.Is(err, ErrInvalidName) {
		t.Errorf("SaveEdited() error = %v, want ErrInvalidName", err)
	}
}
